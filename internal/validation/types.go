package validation

// SearchRequest is the payload for POST /api/shipments/search.
type SearchRequest struct {
	RecipientName string `json:"recipientName" validate:"required"`           // exact match against the stored name
	PhoneLast4    string `json:"phoneLast4" validate:"required,len=4,number"` // exactly the last 4 digits
}

// CreateShipmentRequest is the payload for POST /api/admin/shipments.
// Manual registration is stricter than bulk upload: the phone must carry at
// least 10 characters and the product name is required.
type CreateShipmentRequest struct {
	RecipientName  string `json:"recipientName" validate:"required"`
	Phone          string `json:"phone" validate:"required,min=10"`
	CarrierID      int64  `json:"carrierId" validate:"required,gt=0"`
	TrackingNumber string `json:"trackingNumber" validate:"required"`
	ProductName    string `json:"productName" validate:"required"`
}
