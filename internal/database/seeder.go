// server/internal/database/seeder.go
package database

import (
	"context"
	"fmt"
	"log/slog"

	"square-feet-api/internal/models"
	"square-feet-api/internal/repository"
)

// SeedProperties writes props into store, in batches when the store supports
// it and one by one otherwise. It returns the number of records written.
func SeedProperties(ctx context.Context, store repository.PropertyStore, props []models.Property) (int, error) {
	if len(props) == 0 {
		slog.Info("nothing to seed")
		return 0, nil
	}

	if bw, ok := store.(repository.BatchWriter); ok {
		if err := bw.PutBatch(ctx, props); err != nil {
			return 0, err
		}
		slog.Info("seeded properties", "count", len(props), "mode", "batch")
		return len(props), nil
	}

	for i, p := range props {
		if _, err := store.Create(ctx, p); err != nil {
			return i, fmt.Errorf("failed to seed property %s: %w", p.PropertyID, err)
		}
	}
	slog.Info("seeded properties", "count", len(props), "mode", "single")
	return len(props), nil
}
