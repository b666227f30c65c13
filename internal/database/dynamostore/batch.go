package dynamostore

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"square-feet-api/internal/models"
)

const (
	// maxBatchSize is the BatchWriteItem request limit.
	maxBatchSize        = 25
	maxUnprocessedTries = 5
)

// PutBatch writes props in chunks of 25. Later entries win when the same key
// appears twice, since a single BatchWriteItem call rejects duplicate keys.
func (s *Store) PutBatch(ctx context.Context, props []models.Property) error {
	requests, err := putRequests(dedupeKeys(props))
	if err != nil {
		return err
	}

	for start := 0; start < len(requests); start += maxBatchSize {
		end := min(start+maxBatchSize, len(requests))
		if err := s.writeChunk(ctx, requests[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) writeChunk(ctx context.Context, chunk []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{s.Table: chunk}
	backoff := 100 * time.Millisecond

	for attempt := 0; attempt < maxUnprocessedTries; attempt++ {
		out, err := s.Client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return fmt.Errorf("failed to batch write %d items: %w", len(chunk), err)
		}
		if len(out.UnprocessedItems) == 0 {
			return nil
		}
		pending = out.UnprocessedItems

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return fmt.Errorf("batch write left %d unprocessed items after %d attempts", len(pending[s.Table]), maxUnprocessedTries)
}

func putRequests(props []models.Property) ([]types.WriteRequest, error) {
	out := make([]types.WriteRequest, 0, len(props))
	for _, p := range props {
		item, err := attributevalue.MarshalMap(p)
		if err != nil {
			return nil, fmt.Errorf("failed to encode property %s: %w", p.PropertyID, err)
		}
		out = append(out, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
	}
	return out, nil
}

func dedupeKeys(props []models.Property) []models.Property {
	type pk struct {
		id     string
		status models.Status
	}
	index := make(map[pk]int, len(props))
	out := make([]models.Property, 0, len(props))
	for _, p := range props {
		k := pk{p.PropertyID, p.Status}
		if i, ok := index[k]; ok {
			out[i] = p
			continue
		}
		index[k] = len(out)
		out = append(out, p)
	}
	return out
}
