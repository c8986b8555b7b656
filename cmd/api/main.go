package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/baedalmoa/parcel-lookup/internal/awsx"
	"github.com/baedalmoa/parcel-lookup/internal/handlers"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterShipmentRoutes(r, cfg)

	return r
}

func main() {
	clients, err := awsx.NewClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	cfg := handlers.HandlerConfig{
		DynamoDBClient: clients.DynamoDB,
		SQSClient:      clients.SQS,
		ShipmentsTable: os.Getenv("SHIPMENTS_TABLE"),
		CarriersTable:  os.Getenv("CARRIERS_TABLE"),
		LookupIndex:    envOr("LOOKUP_INDEX", "lookup_key-index"),
		UploadsTable:   os.Getenv("UPLOADS_TABLE"),
		ReportQueueURL: os.Getenv("REPORT_QUEUE_URL"),
		AdminToken:     os.Getenv("ADMIN_TOKEN"),

		// bulk-imported records are viewable for a shorter window than
		// manually registered ones; both are retained 14 days
		BulkViewableFor:   5 * 24 * time.Hour,
		ManualViewableFor: 10 * 24 * time.Hour,
		RetainFor:         14 * 24 * time.Hour,
	}

	r := setupRouter(cfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
