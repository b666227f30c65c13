package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"square-feet-api/internal/models"
	"square-feet-api/internal/repository"
	"square-feet-api/internal/repository/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) repository.PropertyStore {
		return New()
	}, storetest.Options{CompositeKey: true})
}

func TestCreateDoesNotAliasCaller(t *testing.T) {
	s := New()
	p := storetest.NewProperty("P-1", models.StatusDraft, "Hyderabad", 1)
	_, err := s.Create(context.Background(), p)
	require.NoError(t, err)

	p.Features[0] = "changed"
	*p.Bedrooms = 9

	got, err := s.GetByID(context.Background(), "P-1")
	require.NoError(t, err)
	assert.Equal(t, "Parking", got.Features[0])
	assert.Equal(t, 3, *got.Bedrooms)
}

func TestPutBatch(t *testing.T) {
	s := New()
	err := s.PutBatch(context.Background(), []models.Property{
		storetest.NewProperty("A", models.StatusDraft, "Hyderabad", 1),
		storetest.NewProperty("B", models.StatusPending, "Hyderabad", 1),
		storetest.NewProperty("B", models.StatusPending, "Hyderabad", 2),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
}

func TestCanceledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.List(ctx, models.PropertyFilters{})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.Delete(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}
