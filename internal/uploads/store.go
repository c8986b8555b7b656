package uploads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/baedalmoa/parcel-lookup/internal/awsx"
)

// Store keeps an audit trail of bulk uploads in DynamoDB. A batch is keyed by
// the sha256 of its file content, so re-submitting the same file updates the
// same record rather than growing the table.
type Store struct {
	client    awsx.DynamoDBAPI
	tableName string
	ttlWindow time.Duration
	nowFunc   func() time.Time
}

// NewStore returns a configured Store. ttlWindow bounds how long finished
// batch records stay queryable.
func NewStore(client awsx.DynamoDBAPI, tableName string, ttlWindow time.Duration) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		ttlWindow: ttlWindow,
		nowFunc:   time.Now,
	}
}

// Begin records that processing of an upload has started.
// Returns (true, nil) when this is the first time the file has been seen and
// (false, nil) when a record for the same content already exists; processing
// proceeds either way, and MarkDone overwrites the earlier outcome.
func (s *Store) Begin(ctx context.Context, uploadID, fileName string) (bool, error) {
	now := s.nowFunc().UTC().Truncate(time.Second)
	rec := Record{
		UploadID:  uploadID,
		Status:    StatusProcessing,
		FileName:  fileName,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.ttlWindow).Unix(),
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return false, fmt.Errorf("marshal upload record: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(upload_id)"),
	})
	if err != nil {
		var ae smithy.APIError
		if errors.As(err, &ae) && ae.ErrorCode() == "ConditionalCheckFailedException" {
			return false, nil
		}
		return false, fmt.Errorf("put upload record: %w", err)
	}
	return true, nil
}

// Get retrieves an upload record by id. Returns (nil, nil) when absent.
func (s *Store) Get(ctx context.Context, uploadID string) (*Record, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"upload_id": &types.AttributeValueMemberS{Value: uploadID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get upload record: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var rec Record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal upload record: %w", err)
	}
	return &rec, nil
}

// MarkDone stores the batch report JSON and flips the record to DONE.
func (s *Store) MarkDone(ctx context.Context, uploadID, reportJSON string) error {
	now := s.nowFunc().UTC()
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"upload_id": &types.AttributeValueMemberS{Value: uploadID},
		},
		UpdateExpression: awsString("SET #s = :done, report_json = :rj, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":done": &types.AttributeValueMemberS{Value: StatusDone},
			":rj":   &types.AttributeValueMemberS{Value: reportJSON},
			":ua":   &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return fmt.Errorf("update upload record (mark done): %w", err)
	}
	return nil
}

// MarkFailed flips the record to FAILED with a short note.
func (s *Store) MarkFailed(ctx context.Context, uploadID, note string) error {
	now := s.nowFunc().UTC()
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"upload_id": &types.AttributeValueMemberS{Value: uploadID},
		},
		UpdateExpression: awsString("SET #s = :failed, note = :n, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":failed": &types.AttributeValueMemberS{Value: StatusFailed},
			":n":      &types.AttributeValueMemberS{Value: note},
			":ua":     &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return fmt.Errorf("update upload record (mark failed): %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
