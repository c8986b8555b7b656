package uploads

import "time"

// Status values for upload batch records.
const (
	StatusProcessing = "PROCESSING"
	StatusDone       = "DONE"
	StatusFailed     = "FAILED"
)

// Record is one bulk-upload batch as persisted in the uploads audit table.
// The batch report is kept as a JSON blob so the admin UI can fetch it again
// after the upload response is gone.
type Record struct {
	UploadID   string    `dynamodbav:"upload_id"` // PK, hex sha256 of the file content
	Status     string    `dynamodbav:"status"`
	FileName   string    `dynamodbav:"file_name,omitempty"`
	ReportJSON string    `dynamodbav:"report_json,omitempty"`
	Note       string    `dynamodbav:"note,omitempty"`
	CreatedAt  time.Time `dynamodbav:"created_at"`
	UpdatedAt  time.Time `dynamodbav:"updated_at"`
	ExpiresAt  int64     `dynamodbav:"expires_at"` // TTL epoch seconds
}
