package s3

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrConcurrentPublish is returned when another writer committed a
// snapshot version between our read and our conditional write.
var ErrConcurrentPublish = errors.New("concurrent publish detected")

// ErrNoPublishedModel is returned when the registry holds no versions
// for the model.
var ErrNoPublishedModel = errors.New("no published model")

// DDBClient is the interface for DynamoDB operations.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Registry tracks published model snapshots in DynamoDB. Snapshot
// blobs themselves live in S3; the registry holds the pointer to the
// current one, versioned monotonically.
//
// DynamoDB conditional writes provide the compare-and-swap semantics
// that S3 lacks, so multiple publishers can race safely.
//
// Table schema:
//   - Partition key: model_id (string)
//   - Sort key: version (number) - monotonically increasing version
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name kmedgo-models \
//	  --attribute-definitions AttributeName=model_id,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=model_id,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type Registry struct {
	client    DDBClient
	tableName string
	modelID   string
}

// NewRegistry creates a registry for one model ID.
func NewRegistry(client DDBClient, tableName, modelID string) *Registry {
	return &Registry{
		client:    client,
		tableName: tableName,
		modelID:   modelID,
	}
}

// Current returns the version and blob name of the latest published
// snapshot.
func (r *Registry) Current(ctx context.Context) (uint64, string, error) {
	version, blobName, err := r.latest(ctx)
	if err != nil {
		return 0, "", err
	}
	if version == 0 {
		return 0, "", ErrNoPublishedModel
	}
	return version, blobName, nil
}

// Publish commits blobName as the next snapshot version. The caller
// must have written the blob to S3 first; Publish only moves the
// pointer. Returns the committed version.
func (r *Registry) Publish(ctx context.Context, blobName string) (uint64, error) {
	currentVersion, _, err := r.latest(ctx)
	if err != nil {
		return 0, err
	}

	newVersion := currentVersion + 1

	// Conditional put: only succeed if this version doesn't exist yet
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item: map[string]types.AttributeValue{
			"model_id": &types.AttributeValueMemberS{Value: r.modelID},
			"version":  &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", newVersion)},
			"blob":     &types.AttributeValueMemberS{Value: blobName},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return 0, ErrConcurrentPublish
		}
		return 0, fmt.Errorf("failed to commit version to DynamoDB: %w", err)
	}

	return newVersion, nil
}

// latest queries DynamoDB for the highest committed version.
// Returns version 0 when the registry is empty.
func (r *Registry) latest(ctx context.Context) (uint64, string, error) {
	resp, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("model_id = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberS{Value: r.modelID},
		},
		ScanIndexForward: aws.Bool(false), // Descending order
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return 0, "", fmt.Errorf("failed to query DynamoDB: %w", err)
	}

	if len(resp.Items) == 0 {
		return 0, "", nil
	}

	item := resp.Items[0]
	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, "", errors.New("invalid version attribute in DynamoDB")
	}
	blobAttr, ok := item["blob"].(*types.AttributeValueMemberS)
	if !ok {
		return 0, "", errors.New("invalid blob attribute in DynamoDB")
	}

	var version uint64
	if _, err := fmt.Sscanf(versionAttr.Value, "%d", &version); err != nil {
		return 0, "", fmt.Errorf("failed to parse version: %w", err)
	}

	return version, blobAttr.Value, nil
}
