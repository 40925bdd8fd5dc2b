package checkout

import "testing"

func TestMinorToMajor(t *testing.T) {
	cases := []struct {
		minor int64
		want  float64
	}{
		{4999, 49.99},
		{100, 1},
		{1, 0.01},
		{5, 0.05},
		{123456, 1234.56},
		{999999999, 9999999.99},
	}
	for _, tc := range cases {
		if got := MinorToMajor(tc.minor); got != tc.want {
			t.Errorf("MinorToMajor(%d) = %v, want %v", tc.minor, got, tc.want)
		}
	}
}

func TestLineTotalRoundsHalfUp(t *testing.T) {
	cases := []struct {
		price float64
		qty   int
		want  float64
	}{
		{19.99, 2, 39.98},
		{34.50, 3, 103.50},
		{0.335, 1, 0.34},
		{3.333, 3, 10.00},
	}
	for _, tc := range cases {
		if got := LineTotal(tc.price, tc.qty); got != tc.want {
			t.Errorf("LineTotal(%v, %d) = %v, want %v", tc.price, tc.qty, got, tc.want)
		}
	}
}

func TestExtractFingerprint(t *testing.T) {
	v, err := ValidateEvent(succeededEvent())
	if err != nil {
		t.Fatalf("ValidateEvent: %v", err)
	}
	fp := ExtractFingerprint(v)

	if fp.FullName != "Jane Doe" || fp.Email != "jane@example.com" || fp.Phone != "555-0100" {
		t.Errorf("identity fields = %q/%q/%q", fp.FullName, fp.Email, fp.Phone)
	}
	if fp.Country != "US" || fp.Postcode != "94105" || fp.TownOrCity != "San Francisco" {
		t.Errorf("address fields = %q/%q/%q", fp.Country, fp.Postcode, fp.TownOrCity)
	}
	if fp.StreetAddress1 != "1 Market St" || fp.StreetAddress2 != "" || fp.County != "CA" {
		t.Errorf("street fields = %q/%q/%q", fp.StreetAddress1, fp.StreetAddress2, fp.County)
	}
	if fp.GrandTotal != 49.99 {
		t.Errorf("grand total = %v, want 49.99", fp.GrandTotal)
	}
	if fp.OriginalCart != `{"12": 2}` || fp.PaymentRef != "pi_123" {
		t.Errorf("provenance = %q/%q", fp.OriginalCart, fp.PaymentRef)
	}
}
