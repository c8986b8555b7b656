package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/baedalmoa/parcel-lookup/internal/awsx"
)

// Processor turns ingest-report messages into CloudWatch metrics so upload
// volume and rejection rates are graphable without touching the data set.
type Processor struct {
	cloudwatch awsx.CloudWatchAPI
	namespace  string
	nowFunc    func() time.Time
}

// NewProcessor creates a worker processor publishing under the given metric namespace.
func NewProcessor(cw awsx.CloudWatchAPI, namespace string) *Processor {
	return &Processor{
		cloudwatch: cw,
		namespace:  namespace,
		nowFunc:    time.Now,
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			log.Printf("worker error: %v", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg ReportMessage
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}

	log.Printf("[worker] received report total=%d inserted=%d skipped=%d rejected=%d",
		msg.TotalRows, msg.SuccessCount, msg.SkippedCount, msg.ErrorCount)

	now := p.nowFunc()
	data := []cwtypes.MetricDatum{
		datum("RowsTotal", msg.TotalRows, now),
		datum("RowsInserted", msg.SuccessCount, now),
		datum("RowsSkipped", msg.SkippedCount, now),
		datum("RowsRejected", msg.ErrorCount, now),
	}

	_, err := p.cloudwatch.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  &p.namespace,
		MetricData: data,
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}

func datum(name string, value int, at time.Time) cwtypes.MetricDatum {
	v := float64(value)
	n := name
	t := at
	return cwtypes.MetricDatum{
		MetricName: &n,
		Value:      &v,
		Unit:       cwtypes.StandardUnitCount,
		Timestamp:  &t,
	}
}
