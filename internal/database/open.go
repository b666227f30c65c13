// server/internal/database/open.go
package database

import (
	"context"
	"fmt"
	"log/slog"

	"square-feet-api/config"
	"square-feet-api/internal/database/dynamostore"
	"square-feet-api/internal/database/memory"
	"square-feet-api/internal/database/mongostore"
	"square-feet-api/internal/repository"
)

const (
	DriverDynamoDB = "dynamodb"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// CloseFunc releases the connections held by a store.
type CloseFunc func(context.Context) error

func noopClose(context.Context) error { return nil }

// Open builds the store selected by cfg.Store.Driver.
func Open(ctx context.Context, cfg config.Config) (repository.PropertyStore, CloseFunc, error) {
	switch cfg.Store.Driver {
	case DriverDynamoDB, "":
		store, err := dynamostore.New(ctx, cfg.Dynamo)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("using DynamoDB store", "table", cfg.Dynamo.TableName, "endpoint", cfg.Dynamo.Endpoint)
		return store, noopClose, nil

	case DriverMongo:
		store, err := mongostore.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	case DriverMemory:
		slog.Warn("using in-memory store; data is lost on restart")
		return memory.New(), noopClose, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// EnsureSchema creates tables or indexes for stores that need them.
func EnsureSchema(ctx context.Context, store repository.PropertyStore) error {
	sm, ok := store.(repository.SchemaManager)
	if !ok {
		return nil
	}
	return sm.EnsureSchema(ctx)
}
