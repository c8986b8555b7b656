package ingest

// MaxReportedErrors caps how many row errors a BatchReport details. Rows past
// the cap are still counted, just not listed.
const MaxReportedErrors = 10

// RowError records why a single spreadsheet row was rejected. Row is the
// 1-based data-row ordinal (header excluded).
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// BatchReport summarizes one bulk upload: every row ends up in exactly one of
// the three buckets, so TotalRows = SuccessCount + SkippedCount + ErrorCount.
type BatchReport struct {
	TotalRows    int        `json:"totalRows"`
	SuccessCount int        `json:"successCount"`
	SkippedCount int        `json:"skippedCount"`
	ErrorCount   int        `json:"errorCount"`
	Errors       []RowError `json:"errors"`
}
