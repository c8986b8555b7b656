package main

// ReportMessage mirrors the batch report the API publishes after each upload.
type ReportMessage struct {
	TotalRows    int `json:"totalRows"`
	SuccessCount int `json:"successCount"`
	SkippedCount int `json:"skippedCount"`
	ErrorCount   int `json:"errorCount"`
}
