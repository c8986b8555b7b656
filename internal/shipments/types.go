package shipments

import (
	"fmt"
	"time"
)

// Shipment is the item stored in the shipments DynamoDB table.
//
// DedupeKey is the partition key and carries the uniqueness constraint on
// (carrier id, tracking number, recipient name, last-4 phone): a conditional
// put on it is what lets bulk inserts skip already-persisted duplicates.
// LookupKey feeds the GSI that serves customer lookups by name + last-4.
type Shipment struct {
	ID             string    `dynamodbav:"id"`
	DedupeKey      string    `dynamodbav:"dedupe_key"` // PK
	LookupKey      string    `dynamodbav:"lookup_key"` // GSI PK
	RecipientName  string    `dynamodbav:"recipient_name"`
	PhoneFull      string    `dynamodbav:"recipient_phone_full"`
	PhoneLast4     string    `dynamodbav:"recipient_phone_last4"`
	CarrierID      int64     `dynamodbav:"carrier_id"`
	TrackingNumber string    `dynamodbav:"tracking_number"`
	ProductName    string    `dynamodbav:"product_name,omitempty"`
	CreatedAt      time.Time `dynamodbav:"created_at"`
	ViewableUntil  time.Time `dynamodbav:"viewable_until"`
	DeleteAt       int64     `dynamodbav:"delete_at"` // retention deadline, epoch seconds; doubles as the TTL attribute
}

// DedupeKeyFor builds the uniqueness key for a shipment.
func DedupeKeyFor(carrierID int64, trackingNumber, recipientName, phoneLast4 string) string {
	return fmt.Sprintf("%d#%s#%s#%s", carrierID, trackingNumber, recipientName, phoneLast4)
}

// LookupKeyFor builds the customer-lookup key.
func LookupKeyFor(recipientName, phoneLast4 string) string {
	return recipientName + "#" + phoneLast4
}
