package services

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// KVStore is the storage contract every service talks to: opaque string
// keys, JSON document values. Get returns nil for an absent key. MGet
// preserves the input key order, with a nil slot for every miss.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	MGet(ctx context.Context, keys []string) ([][]byte, error)
}

// kvItem is the single-table DynamoDB record shape: partition key "k",
// JSON document "v".
type kvItem struct {
	K string `dynamodbav:"k"`
	V string `dynamodbav:"v"`
}

// DynamoKV is the production KVStore backed by one DynamoDB table.
type DynamoKV struct {
	Client *dynamodb.Client
	Table  string
}

// InitializeDynamoDBClient initializes the DynamoDB client
func InitializeDynamoDBClient(region string) *dynamodb.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(region))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}
	return dynamodb.NewFromConfig(cfg)
}

func (kv *DynamoKV) key(k string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"k": &types.AttributeValueMemberS{Value: k},
	}
}

func (kv *DynamoKV) Get(ctx context.Context, key string) ([]byte, error) {
	output, err := kv.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &kv.Table,
		Key:       kv.key(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get key '%s': %w", key, err)
	}
	if output.Item == nil {
		return nil, nil
	}

	var item kvItem
	if err := attributevalue.UnmarshalMap(output.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal key '%s': %w", key, err)
	}
	return []byte(item.V), nil
}

func (kv *DynamoKV) Set(ctx context.Context, key string, value []byte) error {
	item, err := attributevalue.MarshalMap(kvItem{K: key, V: string(value)})
	if err != nil {
		return fmt.Errorf("failed to marshal key '%s': %w", key, err)
	}
	_, err = kv.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &kv.Table,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put key '%s': %w", key, err)
	}
	return nil
}

// MGet batch-fetches values via BatchGetItem. DynamoDB rejects duplicate
// keys and returns results unordered, so the request set is deduplicated
// and the responses are re-projected onto the caller's key order.
func (kv *DynamoKV) MGet(ctx context.Context, keys []string) ([][]byte, error) {
	const maxBatchSize = 100

	found := make(map[string][]byte, len(keys))
	unique := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			unique = append(unique, k)
		}
	}

	for i := 0; i < len(unique); i += maxBatchSize {
		end := i + maxBatchSize
		if end > len(unique) {
			end = len(unique)
		}

		batch := make([]map[string]types.AttributeValue, 0, end-i)
		for _, k := range unique[i:end] {
			batch = append(batch, kv.key(k))
		}

		request := map[string]types.KeysAndAttributes{
			kv.Table: {Keys: batch},
		}
		for len(request) > 0 {
			output, err := kv.Client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
				RequestItems: request,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to batch get from table '%s': %w", kv.Table, err)
			}
			for _, raw := range output.Responses[kv.Table] {
				var item kvItem
				if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
					log.Printf("⚠️ Skipping unreadable item in batch get: %v", err)
					continue
				}
				found[item.K] = []byte(item.V)
			}
			request = output.UnprocessedKeys
		}
	}

	values := make([][]byte, len(keys))
	for i, k := range keys {
		values[i] = found[k]
	}
	return values, nil
}
