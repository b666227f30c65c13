// Package storetest is the behavioural suite every PropertyStore must pass.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"square-feet-api/internal/models"
	"square-feet-api/internal/repository"
)

// Options describes what the store under test supports.
type Options struct {
	// CompositeKey is set for stores keyed by (propertyId, status), where a
	// create under a second status produces a duplicate record.
	CompositeKey bool
}

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) repository.PropertyStore

// NewProperty returns a fully populated listing.
func NewProperty(id string, status models.Status, city string, price float64) models.Property {
	created := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	return models.Property{
		PropertyID:  id,
		Title:       "3BHK Apartment in " + city,
		Description: "Spacious apartment close to the metro with covered parking.",
		Price:       price,
		Currency:    "INR",
		Address: models.Address{
			Street:   "12 Road No. 5",
			Locality: "Banjara Hills",
			City:     city,
			State:    "Telangana",
			ZipCode:  "500034",
			Country:  "India",
		},
		PropertyType:  models.TypeApartment,
		Bedrooms:      models.Ptr(3),
		Bathrooms:     models.Ptr(2.5),
		SquareFootage: models.Ptr(1650.0),
		YearBuilt:     models.Ptr(2019),
		Features:      []string{"Parking", "Lift"},
		Images:        []string{"https://images.example.com/1.jpg"},
		Status:        status,
		SellerID:      "SELLER_DEMO_001",
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

// Run executes the suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory, opts Options) {
	t.Run("CreateThenGet", func(t *testing.T) { testCreateThenGet(t, newStore(t)) })
	t.Run("GetMissing", func(t *testing.T) { testGetMissing(t, newStore(t)) })
	t.Run("CreateReplacesSameKey", func(t *testing.T) { testCreateReplacesSameKey(t, newStore(t)) })
	t.Run("ListEmpty", func(t *testing.T) { testListEmpty(t, newStore(t)) })
	t.Run("ListFilters", func(t *testing.T) { testListFilters(t, newStore(t)) })
	t.Run("UpdateInPlace", func(t *testing.T) { testUpdateInPlace(t, newStore(t)) })
	t.Run("UpdateKeepsUnsuppliedFields", func(t *testing.T) { testUpdateKeepsUnsuppliedFields(t, newStore(t)) })
	t.Run("UpdateRelocatesOnStatusChange", func(t *testing.T) { testUpdateRelocates(t, newStore(t)) })
	t.Run("UpdateMissing", func(t *testing.T) { testUpdateMissing(t, newStore(t)) })
	t.Run("UpdateExpectStatus", func(t *testing.T) { testUpdateExpectStatus(t, newStore(t)) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, newStore(t)) })
	t.Run("ConcurrentStatusChanges", func(t *testing.T) { testConcurrentStatusChanges(t, newStore(t)) })
	if opts.CompositeKey {
		t.Run("DuplicateRecords", func(t *testing.T) { testDuplicateRecords(t, newStore(t)) })
	}
}

func mustCreate(t *testing.T, s repository.PropertyStore, p models.Property) *models.Property {
	t.Helper()
	created, err := s.Create(context.Background(), p)
	require.NoError(t, err)
	return created
}

// normalize puts every timestamp in UTC so values read back from a store
// compare equal to the values written.
func normalize(p models.Property) models.Property {
	p = p.Clone()
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	if p.ApprovedAt != nil {
		p.ApprovedAt = models.Ptr(p.ApprovedAt.UTC())
	}
	if p.RejectedAt != nil {
		p.RejectedAt = models.Ptr(p.RejectedAt.UTC())
	}
	return p
}

func assertSame(t *testing.T, want, got models.Property) {
	t.Helper()
	assert.Equal(t, normalize(want), normalize(got))
}

func countRecords(t *testing.T, s repository.PropertyStore, id string) int {
	t.Helper()
	all, err := s.List(context.Background(), models.PropertyFilters{})
	require.NoError(t, err)
	n := 0
	for _, p := range all {
		if p.PropertyID == id {
			n++
		}
	}
	return n
}

func testCreateThenGet(t *testing.T, s repository.PropertyStore) {
	p := NewProperty("P-1", models.StatusPending, "Hyderabad", 4_500_000)
	created := mustCreate(t, s, p)
	assertSame(t, p, *created)

	got, err := s.GetByID(context.Background(), "P-1")
	require.NoError(t, err)
	assertSame(t, p, *got)

	// returned values are copies
	got.Features[0] = "mutated"
	again, err := s.GetByID(context.Background(), "P-1")
	require.NoError(t, err)
	assert.Equal(t, "Parking", again.Features[0])
}

func testGetMissing(t *testing.T, s repository.PropertyStore) {
	_, err := s.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func testCreateReplacesSameKey(t *testing.T, s repository.PropertyStore) {
	p := NewProperty("P-1", models.StatusDraft, "Hyderabad", 1_000_000)
	mustCreate(t, s, p)

	p.Title = "Replaced"
	mustCreate(t, s, p)

	got, err := s.GetByID(context.Background(), "P-1")
	require.NoError(t, err)
	assert.Equal(t, "Replaced", got.Title)
	assert.Equal(t, 1, countRecords(t, s, "P-1"))
}

func testListEmpty(t *testing.T, s repository.PropertyStore) {
	got, err := s.List(context.Background(), models.PropertyFilters{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func testListFilters(t *testing.T, s repository.PropertyStore) {
	ctx := context.Background()
	mustCreate(t, s, NewProperty("A", models.StatusApproved, "Hyderabad", 1_200_000))
	mustCreate(t, s, NewProperty("B", models.StatusPending, "Hyderabad", 1_200_000))
	mustCreate(t, s, NewProperty("C", models.StatusApproved, "Pune", 1_200_000))

	got, err := s.List(ctx, models.PropertyFilters{Status: "approved", City: "Hyderabad"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].PropertyID)

	got, err = s.List(ctx, models.PropertyFilters{Status: "Approved,PENDING"})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = s.List(ctx, models.PropertyFilters{City: "chennai"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func testUpdateInPlace(t *testing.T, s repository.PropertyStore) {
	ctx := context.Background()
	p := NewProperty("P-1", models.StatusPending, "Hyderabad", 4_500_000)
	mustCreate(t, s, p)

	before := models.Now()
	updated, err := s.Update(ctx, "P-1", models.PropertyUpdate{
		Price:    models.Ptr(4_200_000.0),
		Features: []string{"Parking", "Lift", "Gym"},
	})
	require.NoError(t, err)

	assert.Equal(t, 4_200_000.0, updated.Price)
	assert.Equal(t, []string{"Parking", "Lift", "Gym"}, updated.Features)
	assert.Equal(t, "P-1", updated.PropertyID)
	assert.Equal(t, models.StatusPending, updated.Status)
	assert.True(t, updated.CreatedAt.Equal(p.CreatedAt))
	assert.False(t, updated.UpdatedAt.Before(before), "updatedAt %s before %s", updated.UpdatedAt, before)

	got, err := s.GetByID(ctx, "P-1")
	require.NoError(t, err)
	assertSame(t, *updated, *got)
}

func testUpdateKeepsUnsuppliedFields(t *testing.T, s repository.PropertyStore) {
	ctx := context.Background()
	p := NewProperty("P-1", models.StatusRejected, "Hyderabad", 4_500_000)
	rejectedAt := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	p.RejectedAt = &rejectedAt
	p.RejectionReason = models.Ptr("Blurry photos")
	mustCreate(t, s, p)

	updated, err := s.Update(ctx, "P-1", models.PropertyUpdate{Title: models.Ptr("New title")})
	require.NoError(t, err)

	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, p.Description, updated.Description)
	assert.Equal(t, p.Address, updated.Address)
	assert.Equal(t, p.Bedrooms, updated.Bedrooms)
	assert.Equal(t, p.Images, updated.Images)
	require.NotNil(t, updated.RejectionReason)
	assert.Equal(t, "Blurry photos", *updated.RejectionReason)
	require.NotNil(t, updated.RejectedAt)
	assert.True(t, updated.RejectedAt.Equal(rejectedAt))
}

func testUpdateRelocates(t *testing.T, s repository.PropertyStore) {
	ctx := context.Background()
	p := NewProperty("P-1", models.StatusPending, "Hyderabad", 4_500_000)
	mustCreate(t, s, p)

	approvedAt := models.Now()
	updated, err := s.Update(ctx, "P-1", models.PropertyUpdate{
		Status:     models.Ptr(models.StatusApproved),
		ApprovedAt: &approvedAt,
		Price:      models.Ptr(4_400_000.0),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)
	assert.Equal(t, 4_400_000.0, updated.Price)
	assert.Equal(t, p.Title, updated.Title)
	require.NotNil(t, updated.ApprovedAt)
	assert.True(t, updated.ApprovedAt.Equal(approvedAt))

	got, err := s.GetByID(ctx, "P-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.Equal(t, 1, countRecords(t, s, "P-1"))

	pending, err := s.List(ctx, models.PropertyFilters{Status: "pending"})
	require.NoError(t, err)
	assert.Empty(t, pending)

	approved, err := s.List(ctx, models.PropertyFilters{Status: "approved"})
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assertSame(t, *updated, approved[0])
}

func testUpdateMissing(t *testing.T, s repository.PropertyStore) {
	_, err := s.Update(context.Background(), "nope", models.PropertyUpdate{Title: models.Ptr("x")})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func testUpdateExpectStatus(t *testing.T, s repository.PropertyStore) {
	ctx := context.Background()
	mustCreate(t, s, NewProperty("P-1", models.StatusSold, "Hyderabad", 1))

	_, err := s.Update(ctx, "P-1", models.PropertyUpdate{
		Status:       models.Ptr(models.StatusApproved),
		ExpectStatus: models.Ptr(models.StatusPending),
	})
	require.ErrorIs(t, err, repository.ErrConflict)

	_, err = s.Update(ctx, "P-1", models.PropertyUpdate{
		Title:        models.Ptr("Ignored"),
		ExpectStatus: models.Ptr(models.StatusPending),
	})
	require.ErrorIs(t, err, repository.ErrConflict)

	got, err := s.GetByID(ctx, "P-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSold, got.Status)
	assert.NotEqual(t, "Ignored", got.Title)
	assert.Nil(t, got.ApprovedAt)

	updated, err := s.Update(ctx, "P-1", models.PropertyUpdate{
		Title:        models.Ptr("Sold out"),
		ExpectStatus: models.Ptr(models.StatusSold),
	})
	require.NoError(t, err)
	assert.Equal(t, "Sold out", updated.Title)
}

func testDelete(t *testing.T, s repository.PropertyStore) {
	ctx := context.Background()
	mustCreate(t, s, NewProperty("P-1", models.StatusApproved, "Hyderabad", 1))
	mustCreate(t, s, NewProperty("P-2", models.StatusApproved, "Hyderabad", 1))

	deleted, err := s.Delete(ctx, "P-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = s.GetByID(ctx, "P-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	deleted, err = s.Delete(ctx, "P-1")
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = s.GetByID(ctx, "P-2")
	assert.NoError(t, err)
}

// testConcurrentStatusChanges moves one listing through statuses from several
// goroutines. Writers may lose a race, and a read may observe a relocation in
// flight, but the id must end up with exactly one record.
func testConcurrentStatusChanges(t *testing.T, s repository.PropertyStore) {
	ctx := context.Background()
	mustCreate(t, s, NewProperty("P-1", models.StatusPending, "Hyderabad", 1))

	targets := []models.Status{models.StatusApproved, models.StatusRejected, models.StatusSold, models.StatusDraft}

	var wg sync.WaitGroup
	errs := make(chan error, len(targets)*4)
	for i := 0; i < 4; i++ {
		for _, st := range targets {
			wg.Add(1)
			go func(st models.Status) {
				defer wg.Done()
				_, err := s.Update(ctx, "P-1", models.PropertyUpdate{Status: models.Ptr(st)})
				if err != nil && !raceError(err) {
					errs <- fmt.Errorf("update to %s: %w", st, err)
				}
			}(st)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	assert.Equal(t, 1, countRecords(t, s, "P-1"))
	_, err := s.GetByID(ctx, "P-1")
	assert.NoError(t, err)
}

func raceError(err error) bool {
	return errors.Is(err, repository.ErrConflict) ||
		errors.Is(err, repository.ErrNotFound) ||
		errors.Is(err, repository.ErrInconsistent)
}

func testDuplicateRecords(t *testing.T, s repository.PropertyStore) {
	ctx := context.Background()

	older := NewProperty("P-1", models.StatusPending, "Hyderabad", 1)
	newer := NewProperty("P-1", models.StatusApproved, "Hyderabad", 2)
	newer.UpdatedAt = older.UpdatedAt.Add(time.Hour)
	mustCreate(t, s, older)
	mustCreate(t, s, newer)
	mustCreate(t, s, NewProperty("P-2", models.StatusDraft, "Pune", 3))

	_, err := s.GetByID(ctx, "P-1")
	require.ErrorIs(t, err, repository.ErrInconsistent)

	_, err = s.Update(ctx, "P-1", models.PropertyUpdate{Title: models.Ptr("x")})
	require.ErrorIs(t, err, repository.ErrInconsistent)

	r, ok := s.(repository.Reconciler)
	require.True(t, ok, "composite-key store must implement Reconciler")

	report, err := r.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Examined)
	require.Len(t, report.Duplicates, 1)
	assert.Equal(t, repository.DuplicateGroup{
		PropertyID: "P-1",
		Kept:       models.StatusApproved,
		Removed:    []models.Status{models.StatusPending},
	}, report.Duplicates[0])

	got, err := s.GetByID(ctx, "P-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.Equal(t, 2.0, got.Price)

	again, err := r.Reconcile(ctx)
	require.NoError(t, err)
	assert.Empty(t, again.Duplicates)

	// delete removes every record for an id
	mustCreate(t, s, older)
	deleted, err := s.Delete(ctx, "P-1")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, 0, countRecords(t, s, "P-1"))
}
