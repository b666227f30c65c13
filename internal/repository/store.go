// Package repository defines the property persistence contract shared by every
// store implementation, together with the in-memory filtering applied after a
// full-table read.
package repository

import (
	"context"
	"errors"

	"square-feet-api/internal/models"
)

var (
	// ErrNotFound means no record exists for the property id.
	ErrNotFound = errors.New("property not found")

	// ErrInconsistent means more than one record exists for a single property id.
	// Stores return it instead of picking one; Reconciler repairs it.
	ErrInconsistent = errors.New("property has more than one stored record")

	// ErrConflict means a conditional write lost a race with another writer.
	ErrConflict = errors.New("property was modified concurrently")
)

// PropertyStore owns persistence of properties keyed by (propertyId, status).
// Implementations are safe for concurrent use.
type PropertyStore interface {
	// List reads every record and returns those matching all supplied filters.
	// Order is unspecified. No match yields an empty slice and a nil error.
	List(ctx context.Context, filters models.PropertyFilters) ([]models.Property, error)

	// GetByID resolves a property by id alone, whatever its current status.
	GetByID(ctx context.Context, propertyID string) (*models.Property, error)

	// Create writes p unconditionally, replacing any record with the same key.
	Create(ctx context.Context, p models.Property) (*models.Property, error)

	// Update merges upd into the stored record and returns the merged value.
	// A status change relocates the record to its new key. When upd.ExpectStatus
	// is set and the stored status differs, nothing is written and ErrConflict
	// is returned.
	Update(ctx context.Context, propertyID string, upd models.PropertyUpdate) (*models.Property, error)

	// Delete removes the record and reports whether one existed.
	Delete(ctx context.Context, propertyID string) (bool, error)
}

// BatchWriter is implemented by stores that can write many records per round trip.
type BatchWriter interface {
	PutBatch(ctx context.Context, props []models.Property) error
}

// SchemaManager is implemented by stores that need tables or indexes created
// before first use.
type SchemaManager interface {
	EnsureSchema(ctx context.Context) error
}
