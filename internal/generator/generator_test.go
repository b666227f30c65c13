package generator

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"square-feet-api/internal/models"
)

var zipRe = regexp.MustCompile(`^5000\d{2}$`)

func TestPropertiesAreWellFormed(t *testing.T) {
	g := New(42)
	fixed := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	g.Now = func() time.Time { return fixed }

	props := g.Properties(200, nil)
	require.Len(t, props, 200)

	ids := map[string]bool{}
	for _, p := range props {
		_, err := uuid.Parse(p.PropertyID)
		require.NoError(t, err)
		assert.False(t, ids[p.PropertyID], "duplicate id %s", p.PropertyID)
		ids[p.PropertyID] = true

		assert.True(t, p.Status.Valid())
		assert.True(t, p.PropertyType.Valid())
		assert.GreaterOrEqual(t, p.Price, 1_200_000.0)
		assert.Less(t, p.Price, 8_000_000.0)
		assert.Equal(t, "INR", p.Currency)
		assert.Equal(t, "Hyderabad", p.Address.City)
		assert.Regexp(t, zipRe, p.Address.ZipCode)
		assert.True(t, strings.HasSuffix(p.Title, p.Address.Locality))
		assert.Len(t, p.Images, 3)
		assert.GreaterOrEqual(t, len(p.Features), 2)
		assert.LessOrEqual(t, len(p.Features), 4)
		assert.Equal(t, fixed, p.CreatedAt)
		assert.Equal(t, fixed, p.UpdatedAt)

		require.NotNil(t, p.YearBuilt)
		assert.GreaterOrEqual(t, *p.YearBuilt, 2015)
		assert.LessOrEqual(t, *p.YearBuilt, 2024)

		if p.PropertyType == models.TypeLand {
			assert.Nil(t, p.Bedrooms)
			assert.Nil(t, p.Bathrooms)
			require.NotNil(t, p.LotSize)
		} else {
			require.NotNil(t, p.Bedrooms)
			assert.Nil(t, p.LotSize)
		}

		assert.Equal(t, p.Status == models.StatusApproved, p.ApprovedAt != nil)
		assert.Equal(t, p.Status == models.StatusRejected, p.RejectedAt != nil)
	}
}

func TestFeaturesAreDistinct(t *testing.T) {
	g := New(7)
	for i := 0; i < 50; i++ {
		seen := map[string]bool{}
		for _, f := range g.features() {
			assert.False(t, seen[f])
			seen[f] = true
		}
	}
}

func TestStatusOverride(t *testing.T) {
	g := New(1)
	p := g.Property(models.Ptr(models.StatusApproved))
	assert.Equal(t, models.StatusApproved, p.Status)
	assert.NotNil(t, p.ApprovedAt)
}

func TestSameSeedSameAttributes(t *testing.T) {
	a := New(99).Property(nil)
	b := New(99).Property(nil)
	assert.Equal(t, a.Title, b.Title)
	assert.Equal(t, a.Price, b.Price)
	assert.Equal(t, a.Status, b.Status)
	assert.NotEqual(t, a.PropertyID, b.PropertyID)
}
