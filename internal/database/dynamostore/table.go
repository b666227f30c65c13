package dynamostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const tableWaitTimeout = 2 * time.Minute

// TableExists reports whether the configured table is present.
func (s *Store) TableExists(ctx context.Context) (bool, error) {
	_, err := s.Client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.Table),
	})
	if err == nil {
		return true, nil
	}
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to describe table %s: %w", s.Table, err)
}

// EnsureSchema creates the table with the (propertyId HASH, status RANGE) key
// when it does not exist yet, and waits until it is active.
func (s *Store) EnsureSchema(ctx context.Context) error {
	exists, err := s.TableExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		slog.Info("table already exists", "table", s.Table)
		return nil
	}

	_, err = s.Client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(s.Table),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(attrPropertyID), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(attrStatus), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(attrPropertyID), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(attrStatus), KeyType: types.KeyTypeRange},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if !errors.As(err, &inUse) {
			return fmt.Errorf("failed to create table %s: %w", s.Table, err)
		}
	}

	waiter := dynamodb.NewTableExistsWaiter(s.Client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(s.Table)}, tableWaitTimeout); err != nil {
		return fmt.Errorf("table %s did not become active: %w", s.Table, err)
	}

	slog.Info("created table", "table", s.Table)
	return nil
}

// DropTable deletes the table. Used by integration tests.
func (s *Store) DropTable(ctx context.Context) error {
	_, err := s.Client.DeleteTable(ctx, &dynamodb.DeleteTableInput{
		TableName: aws.String(s.Table),
	})
	if err != nil {
		return fmt.Errorf("failed to delete table %s: %w", s.Table, err)
	}
	return nil
}
