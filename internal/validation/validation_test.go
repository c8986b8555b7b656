package validation

import "testing"

func TestSearchRequest_Valid(t *testing.T) {
	v := New()

	req := SearchRequest{
		RecipientName: "홍길동",
		PhoneLast4:    "5678",
	}

	if err := v.Struct(req); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}
}

func TestSearchRequest_Last4Rules(t *testing.T) {
	v := New()

	cases := []struct {
		name  string
		last4 string
	}{
		{"too short", "567"},
		{"too long", "56789"},
		{"non numeric", "56a8"},
		{"empty", ""},
	}
	for _, tc := range cases {
		req := SearchRequest{RecipientName: "홍길동", PhoneLast4: tc.last4}
		if err := v.Struct(req); err == nil {
			t.Fatalf("%s: expected validation error for last4 %q, got nil", tc.name, tc.last4)
		}
	}
}

func TestCreateShipmentRequest_Valid(t *testing.T) {
	v := New()

	req := CreateShipmentRequest{
		RecipientName:  "홍길동",
		Phone:          "010-1234-5678",
		CarrierID:      1,
		TrackingNumber: "1234567890",
		ProductName:    "사과 5kg",
	}

	if err := v.Struct(req); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}
}

func TestCreateShipmentRequest_ShortPhone(t *testing.T) {
	v := New()

	// manual registration requires >= 10 characters, unlike bulk upload
	req := CreateShipmentRequest{
		RecipientName:  "홍길동",
		Phone:          "12345",
		CarrierID:      1,
		TrackingNumber: "1234567890",
		ProductName:    "사과",
	}

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for short phone, got nil")
	}
}

func TestCreateShipmentRequest_MissingFields(t *testing.T) {
	v := New()

	req := CreateShipmentRequest{}
	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation errors for missing required fields, got nil")
	}
}
