package shipments

import (
	"context"
	"errors"
	"strconv"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is a small in-memory stand-in for the shipments table. It
// understands only the exact expressions the Store issues.
type mockDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue // dedupe_key -> item

	putCalls    int
	queryCalls  int
	scanCalls   int
	deleteCalls int

	failPutsAfter int // if > 0, the Nth put and later fail with a generic error
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls++

	if m.failPutsAfter > 0 && m.putCalls >= m.failPutsAfter {
		return nil, errors.New("simulated infrastructure failure")
	}

	keyAttr, ok := params.Item["dedupe_key"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing dedupe_key")
	}
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(dedupe_key)" {
		if _, exists := m.items[keyAttr.Value]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	m.items[keyAttr.Value] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryCalls++

	lk, ok := params.ExpressionAttributeValues[":lk"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing :lk")
	}
	nowAttr, _ := params.ExpressionAttributeValues[":now"].(*types.AttributeValueMemberS)

	out := &dyn.QueryOutput{}
	for _, item := range m.items {
		itemLK, _ := item["lookup_key"].(*types.AttributeValueMemberS)
		if itemLK == nil || itemLK.Value != lk.Value {
			continue
		}
		if nowAttr != nil {
			// RFC3339 strings compare lexicographically
			vu, _ := item["viewable_until"].(*types.AttributeValueMemberS)
			if vu == nil || vu.Value < nowAttr.Value {
				continue
			}
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func (m *mockDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scanCalls++

	out := &dyn.ScanOutput{}
	nowAttr, _ := params.ExpressionAttributeValues[":now"].(*types.AttributeValueMemberN)
	for _, item := range m.items {
		if params.FilterExpression != nil && *params.FilterExpression == "delete_at <= :now" {
			da, _ := item["delete_at"].(*types.AttributeValueMemberN)
			if da == nil || nowAttr == nil {
				continue
			}
			deleteAt, _ := strconv.ParseInt(da.Value, 10, 64)
			now, _ := strconv.ParseInt(nowAttr.Value, 10, 64)
			if deleteAt > now {
				continue
			}
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func (m *mockDynamo) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls++

	keyAttr, ok := params.Key["dedupe_key"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing dedupe_key")
	}
	delete(m.items, keyAttr.Value)
	return &dyn.DeleteItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	return &dyn.GetItemOutput{}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	return &dyn.UpdateItemOutput{}, nil
}
