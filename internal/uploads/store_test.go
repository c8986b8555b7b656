package uploads

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestBegin_Get_MarkDone_MarkFailed(t *testing.T) {
	mock := newMockDynamo()
	s := NewStore(mock, "uploads-table", 14*24*time.Hour)

	ctx := context.Background()
	uploadID := "deadbeef"

	created, err := s.Begin(ctx, uploadID, "batch.xlsx")
	if err != nil {
		t.Fatalf("Begin error: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true on first Begin")
	}

	// the same file again: not created, but no error either
	created, err = s.Begin(ctx, uploadID, "batch.xlsx")
	if err != nil {
		t.Fatalf("second Begin error: %v", err)
	}
	if created {
		t.Fatalf("expected created=false on repeat Begin")
	}

	rec, err := s.Get(ctx, uploadID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if rec == nil {
		t.Fatalf("expected record, got nil")
	}
	if rec.Status != StatusProcessing {
		t.Fatalf("expected PROCESSING, got %s", rec.Status)
	}
	if rec.FileName != "batch.xlsx" {
		t.Fatalf("file name mismatch: %q", rec.FileName)
	}

	if err := s.MarkDone(ctx, uploadID, `{"totalRows":3}`); err != nil {
		t.Fatalf("MarkDone error: %v", err)
	}
	item := mock.table[uploadID]
	if st, ok := item["status"].(*types.AttributeValueMemberS); !ok || st.Value != StatusDone {
		t.Fatalf("status not updated to DONE, got %+v", item["status"])
	}
	if rj, ok := item["report_json"].(*types.AttributeValueMemberS); !ok || rj.Value != `{"totalRows":3}` {
		t.Fatalf("report_json not set: %+v", item["report_json"])
	}

	if err := s.MarkFailed(ctx, uploadID, "unreadable spreadsheet"); err != nil {
		t.Fatalf("MarkFailed error: %v", err)
	}
	item = mock.table[uploadID]
	if st, ok := item["status"].(*types.AttributeValueMemberS); !ok || st.Value != StatusFailed {
		t.Fatalf("status not updated to FAILED, got %+v", item["status"])
	}
	if n, ok := item["note"].(*types.AttributeValueMemberS); !ok || n.Value != "unreadable spreadsheet" {
		t.Fatalf("note not set: %+v", item["note"])
	}
}

func TestGet_AbsentRecordReturnsNil(t *testing.T) {
	s := NewStore(newMockDynamo(), "uploads-table", time.Hour)

	rec, err := s.Get(context.Background(), "no-such-upload")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil record, got %+v", rec)
	}
}
