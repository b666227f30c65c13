package repository

import (
	"context"
	"fmt"
	"sort"

	"square-feet-api/internal/models"
)

// DuplicateGroup describes one property id that had more than one stored record.
type DuplicateGroup struct {
	PropertyID string          `json:"propertyId"`
	Kept       models.Status   `json:"kept"`
	Removed    []models.Status `json:"removed"`
}

// ReconcileReport summarizes a duplicate sweep.
type ReconcileReport struct {
	Examined   int              `json:"examined"`
	Duplicates []DuplicateGroup `json:"duplicates"`
}

// Reconciler is implemented by composite-key stores, where a failed relocation
// or a create under a second status can leave several records for one id.
type Reconciler interface {
	Reconcile(ctx context.Context) (ReconcileReport, error)
}

// GroupByID buckets records by property id, keeping only ids with more than one record.
func GroupByID(props []models.Property) map[string][]models.Property {
	byID := make(map[string][]models.Property)
	for _, p := range props {
		byID[p.PropertyID] = append(byID[p.PropertyID], p)
	}
	for id, group := range byID {
		if len(group) < 2 {
			delete(byID, id)
		}
	}
	return byID
}

// PickLatest orders a duplicate group so the survivor comes first: the most
// recently updated record wins, ties go to the later lifecycle status.
func PickLatest(group []models.Property) (keep models.Property, stale []models.Property) {
	sorted := append([]models.Property{}, group...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].UpdatedAt.Equal(sorted[j].UpdatedAt) {
			return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
		}
		return statusRank(sorted[i].Status) > statusRank(sorted[j].Status)
	})
	return sorted[0], sorted[1:]
}

func statusRank(s models.Status) int {
	for i, st := range models.Statuses {
		if st == s {
			return i
		}
	}
	return -1
}

// SingleRecord enforces the one-record-per-id invariant on a lookup result.
func SingleRecord(propertyID string, records []models.Property) (*models.Property, error) {
	switch len(records) {
	case 0:
		return nil, ErrNotFound
	case 1:
		p := records[0]
		return &p, nil
	}
	statuses := make([]models.Status, 0, len(records))
	for _, r := range records {
		statuses = append(statuses, r.Status)
	}
	return nil, fmt.Errorf("%w: %s stored under %v", ErrInconsistent, propertyID, statuses)
}
