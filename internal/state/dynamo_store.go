package state

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"

	"github.com/polzert/webdemo/internal/models"
)

// DynamoDBClient defines the DynamoDB operations the state bag needs
type DynamoDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoStore keeps one item per state key in a DynamoDB table keyed by "key".
type DynamoStore struct {
	client    DynamoDBClient
	tableName string
	now       func() time.Time
}

func NewDynamoStore(client DynamoDBClient, tableName string) *DynamoStore {
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		now:       time.Now,
	}
}

func (s *DynamoStore) Save(ctx context.Context, key, value string) error {
	record := models.StateRecord{
		Key:         key,
		Value:       value,
		LastUpdated: s.now().Unix(),
	}
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrEmptyKey, err)
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshaling state record: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("putting state in DynamoDB: %w", err)
	}

	log.Debug().Str("key", key).Int("bytes", len(value)).Msg("Saved state to DynamoDB")
	return nil
}

func (s *DynamoStore) Restore(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}

	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"key": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return "", false, fmt.Errorf("getting state from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return "", false, nil
	}

	var record models.StateRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return "", false, fmt.Errorf("unmarshaling state record: %w", err)
	}

	return record.Value, true, nil
}
