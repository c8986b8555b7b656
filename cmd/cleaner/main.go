package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/baedalmoa/parcel-lookup/internal/awsx"
	"github.com/baedalmoa/parcel-lookup/internal/shipments"
)

// cleaner deletes shipments whose retention deadline has passed. It runs from
// a scheduled Lambda event, or once immediately with RUN_LOCAL=true.

func main() {
	clients, err := awsx.NewClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	store := shipments.NewStore(clients.DynamoDB, os.Getenv("SHIPMENTS_TABLE"), os.Getenv("LOOKUP_INDEX"))

	handler := func(ctx context.Context, ev events.CloudWatchEvent) error {
		deleted, err := store.DeleteExpired(ctx, time.Now())
		if err != nil {
			log.Printf("[cleaner] purge failed after %d deletes: %v", deleted, err)
			return err
		}
		log.Printf("[cleaner] purged %d expired shipments", deleted)
		return nil
	}

	if os.Getenv("RUN_LOCAL") == "true" {
		if err := handler(context.Background(), events.CloudWatchEvent{}); err != nil {
			log.Fatalf("local cleanup error: %v", err)
		}
		return
	}

	lambda.Start(handler)
}
