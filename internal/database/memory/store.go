// server/internal/database/memory/store.go
package memory

import (
	"context"
	"fmt"
	"sync"

	"square-feet-api/internal/models"
	"square-feet-api/internal/repository"
)

type key struct {
	id     string
	status models.Status
}

// Store keeps properties in a map keyed by (propertyId, status). It backs the
// "memory" driver used for local development and handler tests.
type Store struct {
	mu    sync.RWMutex
	items map[key]models.Property
}

var (
	_ repository.PropertyStore = (*Store)(nil)
	_ repository.BatchWriter   = (*Store)(nil)
	_ repository.Reconciler    = (*Store)(nil)
)

func New() *Store {
	return &Store{items: make(map[key]models.Property)}
}

func (s *Store) List(ctx context.Context, filters models.PropertyFilters) ([]models.Property, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	m := repository.NewMatcher(filters)
	out := make([]models.Property, 0, len(s.items))
	for _, p := range s.items {
		if m.Match(p) {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (s *Store) GetByID(ctx context.Context, propertyID string) (*models.Property, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getLocked(propertyID)
}

// getLocked resolves propertyID across all statuses. Callers hold s.mu.
func (s *Store) getLocked(propertyID string) (*models.Property, error) {
	p, err := repository.SingleRecord(propertyID, s.recordsLocked(propertyID))
	if err != nil {
		return nil, err
	}
	out := p.Clone()
	return &out, nil
}

func (s *Store) recordsLocked(propertyID string) []models.Property {
	var out []models.Property
	for _, st := range models.Statuses {
		if p, ok := s.items[key{propertyID, st}]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) Create(ctx context.Context, p models.Property) (*models.Property, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key{p.PropertyID, p.Status}] = p.Clone()
	out := p.Clone()
	return &out, nil
}

// Update merges upd under the write lock, so a relocation is atomic.
func (s *Store) Update(ctx context.Context, propertyID string, upd models.PropertyUpdate) (*models.Property, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.getLocked(propertyID)
	if err != nil {
		return nil, err
	}
	if !upd.StatusMatches(existing.Status) {
		return nil, fmt.Errorf("%w: %s is %s, expected %s", repository.ErrConflict, propertyID, existing.Status, *upd.ExpectStatus)
	}

	next := upd.ApplyTo(*existing, models.Now())
	if next.Status != existing.Status {
		delete(s.items, key{propertyID, existing.Status})
	}
	s.items[key{propertyID, next.Status}] = next

	out := next.Clone()
	return &out, nil
}

// Delete removes every record stored for propertyID.
func (s *Store) Delete(ctx context.Context, propertyID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, st := range models.Statuses {
		k := key{propertyID, st}
		if _, ok := s.items[k]; ok {
			delete(s.items, k)
			found = true
		}
	}
	return found, nil
}

func (s *Store) PutBatch(ctx context.Context, props []models.Property) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range props {
		s.items[key{p.PropertyID, p.Status}] = p.Clone()
	}
	return nil
}

func (s *Store) Reconcile(ctx context.Context) (repository.ReconcileReport, error) {
	if err := ctx.Err(); err != nil {
		return repository.ReconcileReport{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]models.Property, 0, len(s.items))
	for _, p := range s.items {
		all = append(all, p)
	}

	report := repository.ReconcileReport{Examined: len(all), Duplicates: []repository.DuplicateGroup{}}
	for id, group := range repository.GroupByID(all) {
		keep, stale := repository.PickLatest(group)
		dup := repository.DuplicateGroup{PropertyID: id, Kept: keep.Status}
		for _, p := range stale {
			delete(s.items, key{id, p.Status})
			dup.Removed = append(dup.Removed, p.Status)
		}
		report.Duplicates = append(report.Duplicates, dup)
	}
	return report, nil
}

// Len reports the number of stored records, duplicates included. It backs test
// assertions and seed reporting, so it takes no context.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
