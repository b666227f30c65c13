// server/internal/database/mongostore/store.go
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"square-feet-api/config"
	"square-feet-api/internal/models"
	"square-feet-api/internal/repository"
)

// Store keeps one document per property with propertyId as _id. Status is a
// plain indexed field here, so a status change never moves the document and
// duplicates cannot occur.
type Store struct {
	Client     *mongo.Client
	Collection *mongo.Collection
}

var (
	_ repository.PropertyStore = (*Store)(nil)
	_ repository.BatchWriter   = (*Store)(nil)
	_ repository.SchemaManager = (*Store)(nil)
)

// Connect dials cfg.URI and verifies the connection with a ping.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	slog.Info("connected to MongoDB", "db", cfg.DBName, "collection", cfg.Collection)
	return &Store{
		Client:     client,
		Collection: client.Database(cfg.DBName).Collection(cfg.Collection),
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

// EnsureSchema creates the secondary indexes used by listing queries.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "sellerId", Value: 1}}},
		{Keys: bson.D{{Key: "address.city", Value: 1}, {Key: "price", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// serverFilter pushes the exact-match filters down to MongoDB. The rest are
// applied by repository.Filter on the result.
func serverFilter(filters models.PropertyFilters) bson.M {
	q := bson.M{}
	if filters.SellerID != "" {
		q["sellerId"] = filters.SellerID
	}
	if filters.PropertyType != "" {
		q["propertyType"] = filters.PropertyType
	}
	if statuses := filters.Statuses(); len(statuses) > 0 {
		q["status"] = bson.M{"$in": statuses}
	}
	return q
}

func (s *Store) List(ctx context.Context, filters models.PropertyFilters) ([]models.Property, error) {
	cursor, err := s.Collection.Find(ctx, serverFilter(filters))
	if err != nil {
		return nil, fmt.Errorf("failed to find properties: %w", err)
	}
	defer cursor.Close(ctx)

	var props []models.Property
	if err := cursor.All(ctx, &props); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %w", err)
	}
	return repository.Filter(props, filters), nil
}

func (s *Store) GetByID(ctx context.Context, propertyID string) (*models.Property, error) {
	var p models.Property
	err := s.Collection.FindOne(ctx, bson.M{"_id": propertyID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find property %s: %w", propertyID, err)
	}
	return &p, nil
}

func (s *Store) Create(ctx context.Context, p models.Property) (*models.Property, error) {
	_, err := s.Collection.ReplaceOne(ctx, bson.M{"_id": p.PropertyID}, p, options.Replace().SetUpsert(true))
	if err != nil {
		return nil, fmt.Errorf("failed to save property %s: %w", p.PropertyID, err)
	}
	out := p.Clone()
	return &out, nil
}

// Update applies the patch only if the document still carries the status it
// was read with, so two racing status changes cannot both win.
func (s *Store) Update(ctx context.Context, propertyID string, upd models.PropertyUpdate) (*models.Property, error) {
	existing, err := s.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !upd.StatusMatches(existing.Status) {
		return nil, fmt.Errorf("%w: %s is %s, expected %s", repository.ErrConflict, propertyID, existing.Status, *upd.ExpectStatus)
	}

	set := bson.M{models.FieldUpdatedAt: models.Now()}
	for name, value := range upd.Fields() {
		set[name] = value
	}

	var updated models.Property
	err = s.Collection.FindOneAndUpdate(ctx,
		bson.M{"_id": propertyID, "status": existing.Status},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", repository.ErrConflict, propertyID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update property %s: %w", propertyID, err)
	}
	return &updated, nil
}

func (s *Store) Delete(ctx context.Context, propertyID string) (bool, error) {
	res, err := s.Collection.DeleteOne(ctx, bson.M{"_id": propertyID})
	if err != nil {
		return false, fmt.Errorf("failed to delete property %s: %w", propertyID, err)
	}
	return res.DeletedCount > 0, nil
}

// PutBatch upserts props with one BulkWrite.
func (s *Store) PutBatch(ctx context.Context, props []models.Property) error {
	if len(props) == 0 {
		return nil
	}
	writes := make([]mongo.WriteModel, 0, len(props))
	for _, p := range props {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": p.PropertyID}).
			SetReplacement(p).
			SetUpsert(true))
	}
	if _, err := s.Collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true)); err != nil {
		return fmt.Errorf("failed to bulk write %d properties: %w", len(props), err)
	}
	return nil
}
