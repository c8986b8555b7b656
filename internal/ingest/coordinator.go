package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/baedalmoa/parcel-lookup/internal/shipments"
)

// CarrierDirectory supplies the carrier name -> identifier table. It is read
// once per batch, before any row is processed, so that one row's resolution
// failure never depends on a changing snapshot.
type CarrierDirectory interface {
	CarrierIDs(ctx context.Context) (map[string]int64, error)
}

// RecordStore is the bulk write target. BulkCreate must silently skip records
// colliding with already-persisted ones and return the count actually inserted.
type RecordStore interface {
	BulkCreate(ctx context.Context, records []shipments.Shipment) (int, error)
}

// Coordinator runs the ingestion pipeline for one uploaded batch.
type Coordinator struct {
	carriers    CarrierDirectory
	store       RecordStore
	viewableFor time.Duration
	retainFor   time.Duration
	nowFunc     func() time.Time
}

// NewCoordinator wires the pipeline. viewableFor and retainFor are the fixed
// offsets from submission time for the viewability and retention deadlines.
func NewCoordinator(carriers CarrierDirectory, store RecordStore, viewableFor, retainFor time.Duration) *Coordinator {
	return &Coordinator{
		carriers:    carriers,
		store:       store,
		viewableFor: viewableFor,
		retainFor:   retainFor,
		nowFunc:     time.Now,
	}
}

// Ingest processes every decoded row exactly once, in file order, through
// validation and in-batch deduplication, submits the surviving candidates in a
// single duplicate-skipping bulk insert, and assembles the report.
//
// Row-level problems are recovered locally and never fail the request; only a
// carrier-load or store failure aborts the upload, in which case no report is
// produced and nothing is considered committed.
func (c *Coordinator) Ingest(ctx context.Context, rows []UploadRow) (*BatchReport, error) {
	carrierIDs, err := c.carriers.CarrierIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load carriers: %w", err)
	}

	now := c.nowFunc().UTC().Truncate(time.Second)
	seen := dedupeSet{}
	var records []shipments.Shipment
	rowErrors := []RowError{}

	for _, row := range rows {
		cand, rowErr := ValidateRow(row, carrierIDs)
		if rowErr != nil {
			rowErrors = append(rowErrors, *rowErr)
			continue
		}
		if seen.seen(cand) {
			rowErrors = append(rowErrors, RowError{Row: cand.Ordinal, Message: "duplicate within file"})
			continue
		}
		records = append(records, shipments.Shipment{
			ID:             uuid.NewString(),
			RecipientName:  cand.RecipientName,
			PhoneFull:      cand.PhoneFull,
			PhoneLast4:     cand.PhoneLast4,
			CarrierID:      cand.CarrierID,
			TrackingNumber: cand.TrackingNumber,
			ProductName:    cand.ProductName,
			CreatedAt:      now,
			ViewableUntil:  now.Add(c.viewableFor),
			DeleteAt:       now.Add(c.retainFor).Unix(),
		})
	}

	inserted := 0
	if len(records) > 0 {
		inserted, err = c.store.BulkCreate(ctx, records)
		if err != nil {
			return nil, fmt.Errorf("bulk insert: %w", err)
		}
	}

	report := &BatchReport{
		TotalRows:    len(rows),
		SuccessCount: inserted,
		SkippedCount: len(records) - inserted,
		ErrorCount:   len(rowErrors),
		Errors:       rowErrors,
	}
	if len(report.Errors) > MaxReportedErrors {
		report.Errors = report.Errors[:MaxReportedErrors]
	}
	return report, nil
}
