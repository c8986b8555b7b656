package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/baedalmoa/parcel-lookup/internal/awsx"
	"github.com/baedalmoa/parcel-lookup/internal/carriers"
	"github.com/baedalmoa/parcel-lookup/internal/ingest"
	"github.com/baedalmoa/parcel-lookup/internal/shipments"
	"github.com/baedalmoa/parcel-lookup/internal/uploads"
	"github.com/baedalmoa/parcel-lookup/internal/validation"
)

// Accepted upload media types: the XML-zip spreadsheet format and the legacy
// binary one. Anything else is rejected before parsing.
const (
	mediaTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mediaTypeXLS  = "application/vnd.ms-excel"
)

// HandlerConfig groups dependencies for the shipment handlers.
type HandlerConfig struct {
	DynamoDBClient awsx.DynamoDBAPI
	SQSClient      awsx.SQSAPI
	ShipmentsTable string
	CarriersTable  string
	LookupIndex    string
	UploadsTable   string // optional; empty disables the upload audit trail
	ReportQueueURL string
	AdminToken     string

	// Fixed offsets from the submission instant. Bulk and manual registrations
	// carry different viewability windows.
	BulkViewableFor   time.Duration
	ManualViewableFor time.Duration
	RetainFor         time.Duration
}

// RegisterShipmentRoutes registers the public search route and the admin
// registration/upload routes.
func RegisterShipmentRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	shipmentStore := shipments.NewStore(cfg.DynamoDBClient, cfg.ShipmentsTable, cfg.LookupIndex)
	carrierStore := carriers.NewStore(cfg.DynamoDBClient, cfg.CarriersTable)
	coordinator := ingest.NewCoordinator(carrierStore, shipmentStore, cfg.BulkViewableFor, cfg.RetainFor)

	var publisher *awsx.Publisher
	if cfg.ReportQueueURL != "" {
		publisher = awsx.NewPublisher(cfg.SQSClient, cfg.ReportQueueURL)
	}

	var uploadStore *uploads.Store
	if cfg.UploadsTable != "" {
		uploadStore = uploads.NewStore(cfg.DynamoDBClient, cfg.UploadsTable, cfg.RetainFor)
	}

	r.POST("/api/shipments/search", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.SearchRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}

		found, err := shipmentStore.Search(ctx, req.RecipientName, req.PhoneLast4, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "search_failed"})
			return
		}

		carrierList, err := carrierStore.ListAll(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "search_failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"shipments": shipmentViews(found, carriers.IndexByID(carrierList))})
	})

	admin := r.Group("/api/admin", adminAuth(cfg.AdminToken))

	admin.POST("/shipments", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.CreateShipmentRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		full, last4 := ingest.NormalizePhone(req.Phone)
		now := time.Now().UTC().Truncate(time.Second)
		rec := shipments.Shipment{
			ID:             uuid.NewString(),
			RecipientName:  req.RecipientName,
			PhoneFull:      full,
			PhoneLast4:     last4,
			CarrierID:      req.CarrierID,
			TrackingNumber: ingest.NormalizeTracking(req.TrackingNumber),
			ProductName:    req.ProductName,
			CreatedAt:      now,
			ViewableUntil:  now.Add(cfg.ManualViewableFor),
			DeleteAt:       now.Add(cfg.RetainFor).Unix(),
		}

		if err := shipmentStore.Create(ctx, rec); err != nil {
			if errors.Is(err, shipments.ErrDuplicate) {
				c.JSON(http.StatusConflict, gin.H{"error": "shipment_already_registered"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create_failed"})
			return
		}

		carrierList, err := carrierStore.ListAll(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create_failed"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"shipment": shipmentView(rec, carriers.IndexByID(carrierList))})
	})

	admin.POST("/shipments/bulk-upload", func(c *gin.Context) {
		ctx := c.Request.Context()

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file_required"})
			return
		}

		ct := fileHeader.Header.Get("Content-Type")
		if ct != mediaTypeXLSX && ct != mediaTypeXLS {
			c.JSON(http.StatusBadRequest, gin.H{"error": "only_excel_uploads_accepted"})
			return
		}

		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file_unreadable"})
			return
		}
		defer f.Close()
		content, err := io.ReadAll(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file_unreadable"})
			return
		}

		sum := sha256.Sum256(content)
		uploadID := hex.EncodeToString(sum[:])
		if uploadStore != nil {
			// audit trail only; a failure here must not block the upload
			if _, err := uploadStore.Begin(ctx, uploadID, fileHeader.Filename); err != nil {
				log.Printf("[upload] audit begin failed: %v", err)
			}
		}

		rows, err := ingest.ReadRows(content)
		if err != nil {
			switch {
			case errors.Is(err, ingest.ErrNoRows):
				c.JSON(http.StatusBadRequest, gin.H{"error": "spreadsheet_has_no_rows"})
			case errors.Is(err, ingest.ErrBadFormat):
				c.JSON(http.StatusBadRequest, gin.H{"error": "unrecognized_spreadsheet"})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": "file_unreadable"})
			}
			if uploadStore != nil {
				if aerr := uploadStore.MarkFailed(ctx, uploadID, err.Error()); aerr != nil {
					log.Printf("[upload] audit mark failed: %v", aerr)
				}
			}
			return
		}

		report, err := coordinator.Ingest(ctx, rows)
		if err != nil {
			log.Printf("[upload] ingest failed: %v", err)
			if uploadStore != nil {
				if err := uploadStore.MarkFailed(ctx, uploadID, "ingest failed"); err != nil {
					log.Printf("[upload] audit mark failed: %v", err)
				}
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "upload_failed"})
			return
		}

		body, _ := json.Marshal(report)

		if uploadStore != nil {
			if err := uploadStore.MarkDone(ctx, uploadID, string(body)); err != nil {
				log.Printf("[upload] audit mark done failed: %v", err)
			}
		}

		if publisher != nil {
			// best-effort: the report already went back to the caller either way
			attrs := map[string]string{"correlation_id": c.GetHeader("X-Request-Id")}
			if err := publisher.SendReportMessage(ctx, string(body), attrs); err != nil {
				log.Printf("[upload] report publish failed: %v", err)
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"uploadId":     uploadID,
			"totalRows":    report.TotalRows,
			"successCount": report.SuccessCount,
			"skippedCount": report.SkippedCount,
			"errorCount":   report.ErrorCount,
			"errors":       report.Errors,
		})
	})

	admin.GET("/uploads/:id", func(c *gin.Context) {
		if uploadStore == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "upload_not_found"})
			return
		}
		rec, err := uploadStore.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup_failed"})
			return
		}
		if rec == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "upload_not_found"})
			return
		}
		view := gin.H{
			"upload_id":  rec.UploadID,
			"status":     rec.Status,
			"file_name":  rec.FileName,
			"created_at": rec.CreatedAt.UTC().Format(time.RFC3339),
			"updated_at": rec.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if rec.ReportJSON != "" {
			view["report"] = json.RawMessage(rec.ReportJSON)
		}
		if rec.Note != "" {
			view["note"] = rec.Note
		}
		c.JSON(http.StatusOK, view)
	})
}

// adminAuth gates admin routes behind a static bearer token. The real user
// directory lives outside this service.
func adminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" || c.GetHeader("Authorization") != "Bearer "+token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization_required"})
			return
		}
		c.Next()
	}
}

func shipmentView(s shipments.Shipment, byID map[int64]carriers.Carrier) gin.H {
	view := gin.H{
		"id":                    s.ID,
		"created_at":            s.CreatedAt.UTC().Format(time.RFC3339),
		"recipient_name":        s.RecipientName,
		"recipient_phone_last4": s.PhoneLast4,
		"tracking_number":       s.TrackingNumber,
		"product_name":          s.ProductName,
		"carrier_id":            s.CarrierID,
	}
	if carrier, ok := byID[s.CarrierID]; ok {
		view["carrier"] = gin.H{
			"id":       carrier.ID,
			"name":     carrier.Name,
			"base_url": carrier.BaseURL,
		}
	}
	return view
}

func shipmentViews(list []shipments.Shipment, byID map[int64]carriers.Carrier) []gin.H {
	out := make([]gin.H, 0, len(list))
	for _, s := range list {
		out = append(out, shipmentView(s, byID))
	}
	return out
}
