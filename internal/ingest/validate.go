package ingest

import "fmt"

// ShipmentCandidate is a row that passed validation: normalized values plus the
// resolved carrier identifier. It keeps its original ordinal for error
// reporting and is never mutated after creation.
type ShipmentCandidate struct {
	Ordinal        int
	RecipientName  string
	PhoneFull      string
	PhoneLast4     string
	CarrierID      int64
	TrackingNumber string
	ProductName    string
}

// ValidateRow checks required fields in fixed order and resolves the carrier
// display name against the batch's carrier map. The first failure wins; a row
// yields at most one error. Product name is optional and defaults to "".
func ValidateRow(row UploadRow, carrierIDs map[string]int64) (ShipmentCandidate, *RowError) {
	fail := func(msg string) (ShipmentCandidate, *RowError) {
		return ShipmentCandidate{}, &RowError{Row: row.Ordinal, Message: msg}
	}

	if row.RecipientName == "" {
		return fail("recipient name missing")
	}
	if row.Phone == "" {
		return fail("phone missing")
	}
	if row.CarrierName == "" {
		return fail("carrier missing")
	}
	if row.TrackingNumber == "" {
		return fail("tracking number missing")
	}

	carrierID, ok := carrierIDs[row.CarrierName]
	if !ok {
		return fail(fmt.Sprintf("carrier '%s' not found", row.CarrierName))
	}

	full, last4 := NormalizePhone(row.Phone)
	return ShipmentCandidate{
		Ordinal:        row.Ordinal,
		RecipientName:  row.RecipientName,
		PhoneFull:      full,
		PhoneLast4:     last4,
		CarrierID:      carrierID,
		TrackingNumber: NormalizeTracking(row.TrackingNumber),
		ProductName:    row.ProductName,
	}, nil
}
