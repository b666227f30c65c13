// server/internal/database/dynamostore/store.go
package dynamostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"square-feet-api/config"
	"square-feet-api/internal/models"
	"square-feet-api/internal/repository"
)

const (
	attrPropertyID = "propertyId"
	attrStatus     = "status"
)

// Store persists properties in a DynamoDB table with propertyId as the
// partition key and status as the sort key.
type Store struct {
	Client *dynamodb.Client
	Table  string
}

var (
	_ repository.PropertyStore = (*Store)(nil)
	_ repository.BatchWriter   = (*Store)(nil)
	_ repository.Reconciler    = (*Store)(nil)
	_ repository.SchemaManager = (*Store)(nil)
)

// New builds a client from cfg. A non-empty Endpoint points the client at
// DynamoDB Local or localstack.
func New(ctx context.Context, cfg config.DynamoConfig) (*Store, error) {
	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		awsconfig.WithRetryMaxAttempts(cfg.MaxRetries+1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(sdkConfig, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &Store{Client: client, Table: cfg.TableName}, nil
}

func itemKey(propertyID string, status models.Status) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrPropertyID: &types.AttributeValueMemberS{Value: propertyID},
		attrStatus:     &types.AttributeValueMemberS{Value: string(status)},
	}
}

// scanAll reads the whole table, following pagination.
func (s *Store) scanAll(ctx context.Context) ([]models.Property, error) {
	paginator := dynamodb.NewScanPaginator(s.Client, &dynamodb.ScanInput{
		TableName: aws.String(s.Table),
	})

	out := []models.Property{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", s.Table, err)
		}
		var items []models.Property
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to decode properties: %w", err)
		}
		out = append(out, items...)
	}
	return out, nil
}

func (s *Store) List(ctx context.Context, filters models.PropertyFilters) ([]models.Property, error) {
	all, err := s.scanAll(ctx)
	if err != nil {
		return nil, err
	}
	return repository.Filter(all, filters), nil
}

// records returns every item in the propertyID partition.
func (s *Store) records(ctx context.Context, propertyID string) ([]models.Property, error) {
	keyCond := expression.Key(attrPropertyID).Equal(expression.Value(propertyID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	paginator := dynamodb.NewQueryPaginator(s.Client, &dynamodb.QueryInput{
		TableName:                 aws.String(s.Table),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ConsistentRead:            aws.Bool(true),
	})

	var out []models.Property
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query %s: %w", propertyID, err)
		}
		var items []models.Property
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to decode property %s: %w", propertyID, err)
		}
		out = append(out, items...)
	}
	return out, nil
}

func (s *Store) GetByID(ctx context.Context, propertyID string) (*models.Property, error) {
	recs, err := s.records(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	return repository.SingleRecord(propertyID, recs)
}

func (s *Store) Create(ctx context.Context, p models.Property) (*models.Property, error) {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode property: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.Table),
		Item:      item,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to put property %s: %w", p.PropertyID, err)
	}

	out := p.Clone()
	return &out, nil
}

func (s *Store) Update(ctx context.Context, propertyID string, upd models.PropertyUpdate) (*models.Property, error) {
	existing, err := s.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	// The writes below are conditioned on this key, so a status change after
	// this check fails them with ErrConflict.
	if !upd.StatusMatches(existing.Status) {
		return nil, fmt.Errorf("%w: %s is %s, expected %s", repository.ErrConflict, propertyID, existing.Status, *upd.ExpectStatus)
	}

	now := models.Now()
	if upd.ChangesStatus(existing.Status) {
		return s.relocate(ctx, *existing, upd.ApplyTo(*existing, now))
	}
	return s.updateInPlace(ctx, *existing, upd, now)
}

// updateInPlace patches only the supplied attributes. The key attributes never
// appear in the SET clause.
func (s *Store) updateInPlace(ctx context.Context, existing models.Property, upd models.PropertyUpdate, now time.Time) (*models.Property, error) {
	ub := expression.Set(expression.Name(models.FieldUpdatedAt), expression.Value(now))
	for name, value := range upd.Fields() {
		if name == models.FieldStatus {
			continue
		}
		ub = ub.Set(expression.Name(name), expression.Value(value))
	}
	cond := expression.AttributeExists(expression.Name(attrPropertyID))

	expr, err := expression.NewBuilder().WithUpdate(ub).WithCondition(cond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build update: %w", err)
	}

	out, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.Table),
		Key:                       itemKey(existing.PropertyID, existing.Status),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, translate(err, existing.PropertyID)
	}

	var updated models.Property
	if err := attributevalue.UnmarshalMap(out.Attributes, &updated); err != nil {
		return nil, fmt.Errorf("failed to decode property %s: %w", existing.PropertyID, err)
	}
	return &updated, nil
}

// relocate moves the record to its new (propertyId, status) key. The delete and
// the put commit together or not at all.
func (s *Store) relocate(ctx context.Context, existing, next models.Property) (*models.Property, error) {
	item, err := attributevalue.MarshalMap(next)
	if err != nil {
		return nil, fmt.Errorf("failed to encode property: %w", err)
	}

	mustExist, err := expression.NewBuilder().
		WithCondition(expression.AttributeExists(expression.Name(attrPropertyID))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build condition: %w", err)
	}
	mustNotExist, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name(attrPropertyID))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build condition: %w", err)
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Delete: &types.Delete{
				TableName:                aws.String(s.Table),
				Key:                      itemKey(existing.PropertyID, existing.Status),
				ConditionExpression:      mustExist.Condition(),
				ExpressionAttributeNames: mustExist.Names(),
			}},
			{Put: &types.Put{
				TableName:                aws.String(s.Table),
				Item:                     item,
				ConditionExpression:      mustNotExist.Condition(),
				ExpressionAttributeNames: mustNotExist.Names(),
			}},
		},
	})
	if err != nil {
		return nil, translate(err, existing.PropertyID)
	}
	return &next, nil
}

// Delete removes every record in the property's partition.
func (s *Store) Delete(ctx context.Context, propertyID string) (bool, error) {
	recs, err := s.records(ctx, propertyID)
	if err != nil {
		return false, err
	}
	for _, p := range recs {
		if err := s.deleteKey(ctx, p.PropertyID, p.Status); err != nil {
			return false, err
		}
	}
	return len(recs) > 0, nil
}

func (s *Store) deleteKey(ctx context.Context, propertyID string, status models.Status) error {
	_, err := s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.Table),
		Key:       itemKey(propertyID, status),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", propertyID, status, err)
	}
	return nil
}

// translate maps conditional-write failures onto repository.ErrConflict.
func translate(err error, propertyID string) error {
	var condFailed *types.ConditionalCheckFailedException
	var txCanceled *types.TransactionCanceledException
	var txConflict *types.TransactionConflictException
	if errors.As(err, &condFailed) || errors.As(err, &txCanceled) || errors.As(err, &txConflict) {
		return fmt.Errorf("%w: %s", repository.ErrConflict, propertyID)
	}
	return fmt.Errorf("failed to write property %s: %w", propertyID, err)
}
