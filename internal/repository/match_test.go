package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"square-feet-api/internal/models"
)

func sample(id string, status models.Status, city string, price float64) models.Property {
	return models.Property{
		PropertyID:   id,
		Title:        "Residential Plot in " + city,
		Description:  "Clear title, gated community",
		Price:        price,
		Currency:     "INR",
		Address:      models.Address{City: city, State: "Telangana"},
		PropertyType: models.TypeLand,
		Status:       status,
		SellerID:     "SELLER_DEMO_001",
	}
}

func ids(props []models.Property) []string {
	out := make([]string, 0, len(props))
	for _, p := range props {
		out = append(out, p.PropertyID)
	}
	return out
}

func TestFilter(t *testing.T) {
	house := sample("D", models.StatusDraft, "Hyderabad", 3_000_000)
	house.PropertyType = models.TypeHouse
	house.SellerID = "SELLER_OTHER"
	house.Title = "Modern Villa"
	house.Description = "Lake view"

	props := []models.Property{
		sample("A", models.StatusApproved, "Hyderabad", 1_200_000),
		sample("B", models.StatusPending, "Hyderabad", 1_200_000),
		sample("C", models.StatusApproved, "Pune", 1_200_000),
		house,
	}

	tests := []struct {
		name    string
		filters models.PropertyFilters
		want    []string
	}{
		{"no filters", models.PropertyFilters{}, []string{"A", "B", "C", "D"}},
		{"status and city", models.PropertyFilters{Status: "approved", City: "Hyderabad"}, []string{"A"}},
		{"status set case-insensitive", models.PropertyFilters{Status: "APPROVED, draft"}, []string{"A", "C", "D"}},
		{"city case-insensitive", models.PropertyFilters{City: "hyderabad"}, []string{"A", "B", "D"}},
		{"min price inclusive", models.PropertyFilters{MinPrice: models.Ptr(1_200_000.0)}, []string{"A", "B", "C", "D"}},
		{"max price inclusive", models.PropertyFilters{MaxPrice: models.Ptr(1_200_000.0)}, []string{"A", "B", "C"}},
		{"price window", models.PropertyFilters{MinPrice: models.Ptr(2_000_000.0), MaxPrice: models.Ptr(4_000_000.0)}, []string{"D"}},
		{"property type exact", models.PropertyFilters{PropertyType: "house"}, []string{"D"}},
		{"property type is case-sensitive", models.PropertyFilters{PropertyType: "House"}, []string{}},
		{"seller", models.PropertyFilters{SellerID: "SELLER_OTHER"}, []string{"D"}},
		{"search title", models.PropertyFilters{Search: "villa"}, []string{"D"}},
		{"search description", models.PropertyFilters{Search: "GATED"}, []string{"A", "B", "C"}},
		{"search state", models.PropertyFilters{Search: "telangana"}, []string{"A", "B", "C", "D"}},
		{"search city", models.PropertyFilters{Search: "pune"}, []string{"C"}},
		{"conjunction", models.PropertyFilters{Status: "approved", City: "Hyderabad", MinPrice: models.Ptr(1_000_000.0)}, []string{"A"}},
		{"nothing matches", models.PropertyFilters{City: "Chennai"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(props, tt.filters)
			require.NotNil(t, got)
			assert.ElementsMatch(t, tt.want, ids(got))
		})
	}
}

func TestGroupByID(t *testing.T) {
	props := []models.Property{
		sample("A", models.StatusPending, "Hyderabad", 1),
		sample("A", models.StatusApproved, "Hyderabad", 1),
		sample("B", models.StatusPending, "Hyderabad", 1),
	}

	groups := GroupByID(props)
	require.Len(t, groups, 1)
	assert.Len(t, groups["A"], 2)
}

func TestPickLatest(t *testing.T) {
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	older := sample("A", models.StatusApproved, "Hyderabad", 1)
	older.UpdatedAt = base
	newer := sample("A", models.StatusPending, "Hyderabad", 1)
	newer.UpdatedAt = base.Add(time.Minute)

	keep, stale := PickLatest([]models.Property{older, newer})
	assert.Equal(t, models.StatusPending, keep.Status)
	require.Len(t, stale, 1)
	assert.Equal(t, models.StatusApproved, stale[0].Status)

	// equal timestamps: later lifecycle status wins
	newer.UpdatedAt = base
	keep, _ = PickLatest([]models.Property{newer, older})
	assert.Equal(t, models.StatusApproved, keep.Status)
}

func TestSingleRecord(t *testing.T) {
	_, err := SingleRecord("x", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	p, err := SingleRecord("A", []models.Property{sample("A", models.StatusDraft, "Hyderabad", 1)})
	require.NoError(t, err)
	assert.Equal(t, "A", p.PropertyID)

	_, err = SingleRecord("A", []models.Property{
		sample("A", models.StatusDraft, "Hyderabad", 1),
		sample("A", models.StatusPending, "Hyderabad", 1),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInconsistent))
	assert.Contains(t, err.Error(), "[draft pending]")
}
