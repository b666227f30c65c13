package dynamostore

import (
	"context"
	"log/slog"

	"square-feet-api/internal/repository"
)

// Reconcile scans the table and, for every property id stored under more than
// one status, deletes all but the most recently updated record.
func (s *Store) Reconcile(ctx context.Context) (repository.ReconcileReport, error) {
	all, err := s.scanAll(ctx)
	if err != nil {
		return repository.ReconcileReport{}, err
	}

	report := repository.ReconcileReport{Examined: len(all), Duplicates: []repository.DuplicateGroup{}}
	for id, group := range repository.GroupByID(all) {
		keep, stale := repository.PickLatest(group)
		dup := repository.DuplicateGroup{PropertyID: id, Kept: keep.Status}
		for _, p := range stale {
			if err := s.deleteKey(ctx, id, p.Status); err != nil {
				return report, err
			}
			dup.Removed = append(dup.Removed, p.Status)
		}
		slog.Warn("removed duplicate property records", "propertyId", id, "kept", keep.Status, "removed", dup.Removed)
		report.Duplicates = append(report.Duplicates, dup)
	}
	return report, nil
}
