package carriers

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/baedalmoa/parcel-lookup/internal/awsx"
)

// Store encapsulates operations on the carriers table.
type Store struct {
	client    awsx.DynamoDBAPI
	tableName string
}

// NewStore creates a new carriers Store.
func NewStore(client awsx.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
	}
}

// ListAll returns every carrier. The table is a handful of rows, so a paginated
// scan is fine here.
func (s *Store) ListAll(ctx context.Context) ([]Carrier, error) {
	var out []Carrier
	var startKey map[string]types.AttributeValue
	for {
		resp, err := s.client.Scan(ctx, &dyn.ScanInput{
			TableName:         &s.tableName,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan carriers: %w", err)
		}
		var page []Carrier
		if err := attributevalue.UnmarshalListOfMaps(resp.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal carriers: %w", err)
		}
		out = append(out, page...)
		if len(resp.LastEvaluatedKey) == 0 {
			break
		}
		startKey = resp.LastEvaluatedKey
	}
	return out, nil
}

// CarrierIDs loads the name -> identifier map the ingestion pipeline resolves
// carrier display names against. Loaded once per batch; names match exactly,
// case-sensitive.
func (s *Store) CarrierIDs(ctx context.Context) (map[string]int64, error) {
	list, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]int64, len(list))
	for _, c := range list {
		ids[c.Name] = c.ID
	}
	return ids, nil
}

// Put writes a carrier, overwriting any existing row with the same name.
func (s *Store) Put(ctx context.Context, c Carrier) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal carrier: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put carrier: %w", err)
	}
	return nil
}
