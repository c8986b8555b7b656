package shipments

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/baedalmoa/parcel-lookup/internal/awsx"
)

// Store encapsulates operations on the shipments table.
type Store struct {
	client      awsx.DynamoDBAPI
	tableName   string
	lookupIndex string
}

// NewStore creates a new shipments Store. lookupIndex is the GSI keyed by lookup_key.
func NewStore(client awsx.DynamoDBAPI, tableName, lookupIndex string) *Store {
	return &Store{
		client:      client,
		tableName:   tableName,
		lookupIndex: lookupIndex,
	}
}

// ErrDuplicate indicates the shipment collides with an already-persisted record
// under the (carrier, tracking, name, last4) uniqueness constraint.
var ErrDuplicate = errors.New("shipment already registered")

// BulkCreate persists a batch of shipments, silently skipping any that collide
// with an already-persisted record. It returns the number actually inserted.
// Skips are not reported per row; the store only counts them.
//
// A non-conditional failure aborts the batch and is returned as-is, so the
// caller treats the whole upload as failed.
func (s *Store) BulkCreate(ctx context.Context, records []Shipment) (int, error) {
	inserted := 0
	for i := range records {
		err := s.put(ctx, records[i])
		if errors.Is(err, ErrDuplicate) {
			continue
		}
		if err != nil {
			return inserted, fmt.Errorf("bulk put shipment: %w", err)
		}
		inserted++
	}
	return inserted, nil
}

// Create persists a single shipment. Returns ErrDuplicate if an equivalent
// record already exists.
func (s *Store) Create(ctx context.Context, rec Shipment) error {
	if err := s.put(ctx, rec); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return ErrDuplicate
		}
		return fmt.Errorf("put shipment: %w", err)
	}
	return nil
}

func (s *Store) put(ctx context.Context, rec Shipment) error {
	rec.DedupeKey = DedupeKeyFor(rec.CarrierID, rec.TrackingNumber, rec.RecipientName, rec.PhoneLast4)
	rec.LookupKey = LookupKeyFor(rec.RecipientName, rec.PhoneLast4)

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal shipment: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(dedupe_key)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// Search returns the shipments for a recipient name + last-4 pair that are
// still viewable at `now`, newest first.
func (s *Store) Search(ctx context.Context, recipientName, phoneLast4 string, now time.Time) ([]Shipment, error) {
	var out []Shipment
	var startKey map[string]types.AttributeValue
	for {
		resp, err := s.client.Query(ctx, &dyn.QueryInput{
			TableName:              &s.tableName,
			IndexName:              &s.lookupIndex,
			KeyConditionExpression: awsString("lookup_key = :lk"),
			FilterExpression:       awsString("viewable_until >= :now"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":lk":  &types.AttributeValueMemberS{Value: LookupKeyFor(recipientName, phoneLast4)},
				":now": &types.AttributeValueMemberS{Value: now.UTC().Format(time.RFC3339)},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("query shipments: %w", err)
		}
		var page []Shipment
		if err := attributevalue.UnmarshalListOfMaps(resp.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal shipments: %w", err)
		}
		out = append(out, page...)
		if len(resp.LastEvaluatedKey) == 0 {
			break
		}
		startKey = resp.LastEvaluatedKey
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// DeleteExpired removes every shipment whose retention deadline has passed.
// The table also carries a DynamoDB TTL on delete_at; this sweep makes the
// purge deterministic instead of waiting on TTL's lag.
func (s *Store) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	deleted := 0
	var startKey map[string]types.AttributeValue
	for {
		resp, err := s.client.Scan(ctx, &dyn.ScanInput{
			TableName:            &s.tableName,
			FilterExpression:     awsString("delete_at <= :now"),
			ProjectionExpression: awsString("dedupe_key"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Unix(), 10)},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return deleted, fmt.Errorf("scan expired shipments: %w", err)
		}
		for _, item := range resp.Items {
			_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
				TableName: &s.tableName,
				Key:       map[string]types.AttributeValue{"dedupe_key": item["dedupe_key"]},
			})
			if err != nil {
				return deleted, fmt.Errorf("delete expired shipment: %w", err)
			}
			deleted++
		}
		if len(resp.LastEvaluatedKey) == 0 {
			break
		}
		startKey = resp.LastEvaluatedKey
	}
	return deleted, nil
}

func awsString(s string) *string { return &s }
