package s3

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDDBClient is an in-memory DynamoDB mock for testing.
type mockDDBClient struct {
	mu    sync.RWMutex
	items map[string]map[string]types.AttributeValue // key -> item
}

func newMockDDBClient() *mockDDBClient {
	return &mockDDBClient{
		items: make(map[string]map[string]types.AttributeValue),
	}
}

func (m *mockDDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	modelID := params.Item["model_id"].(*types.AttributeValueMemberS).Value
	version := params.Item["version"].(*types.AttributeValueMemberN).Value
	key := modelID + ":" + version

	// Check conditional expression
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(version)" {
		if _, exists := m.items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
		}
	}

	m.items[key] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDDBClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	modelID := params.ExpressionAttributeValues[":id"].(*types.AttributeValueMemberS).Value

	var items []map[string]types.AttributeValue
	for _, item := range m.items {
		if item["model_id"].(*types.AttributeValueMemberS).Value == modelID {
			items = append(items, item)
		}
	}

	// Sort descending by version
	for i := 0; i < len(items)-1; i++ {
		for j := i + 1; j < len(items); j++ {
			vi := items[i]["version"].(*types.AttributeValueMemberN).Value
			vj := items[j]["version"].(*types.AttributeValueMemberN).Value
			if vi < vj {
				items[i], items[j] = items[j], items[i]
			}
		}
	}

	if params.Limit != nil && int(*params.Limit) < len(items) {
		items = items[:*params.Limit]
	}

	return &dynamodb.QueryOutput{Items: items}, nil
}

func TestRegistry_FirstPublish(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(newMockDDBClient(), "kmedgo-models", "clickstream")

	version, err := reg.Publish(ctx, "snapshot-00001.bin")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), version)

	gotVersion, blob, err := reg.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), gotVersion)
	assert.Equal(t, "snapshot-00001.bin", blob)
}

func TestRegistry_MultiplePublishes(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(newMockDDBClient(), "kmedgo-models", "clickstream")

	for i := 1; i <= 3; i++ {
		_, err := reg.Publish(ctx, fmt.Sprintf("snapshot-%05d.bin", i))
		require.NoError(t, err)
	}

	version, blob, err := reg.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), version)
	assert.Equal(t, "snapshot-00003.bin", blob)
}

func TestRegistry_ConcurrentPublishes(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(newMockDDBClient(), "kmedgo-models", "clickstream")

	_, err := reg.Publish(ctx, "snapshot-00001.bin")
	require.NoError(t, err)

	var wg sync.WaitGroup
	successes := 0
	conflicts := 0
	var mu sync.Mutex

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, err := reg.Publish(ctx, fmt.Sprintf("snapshot-%05d.bin", id+2))
			mu.Lock()
			defer mu.Unlock()
			if err == ErrConcurrentPublish {
				conflicts++
			} else if err == nil {
				successes++
			} else {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}

	wg.Wait()
	assert.Greater(t, successes, 0, "at least one publisher should succeed")
	t.Logf("successes: %d, conflicts: %d", successes, conflicts)
}

func TestRegistry_EmptyBeforePublish(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(newMockDDBClient(), "kmedgo-models", "clickstream")

	_, _, err := reg.Current(ctx)
	require.ErrorIs(t, err, ErrNoPublishedModel)
}

func TestRegistry_IsolatedModels(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()

	regA := NewRegistry(ddb, "kmedgo-models", "model-a")
	regB := NewRegistry(ddb, "kmedgo-models", "model-b")

	_, err := regA.Publish(ctx, "snapshot-a.bin")
	require.NoError(t, err)
	_, err = regB.Publish(ctx, "snapshot-b.bin")
	require.NoError(t, err)

	_, blob, err := regA.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "snapshot-a.bin", blob)

	_, blob, err = regB.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "snapshot-b.bin", blob)
}
