package checkout

import "github.com/shopspring/decimal"

// Fingerprint is the derived tuple used to find an order the storefront
// checkout already wrote for the same payment. It is a query predicate, not
// a stored record. Empty string fields mean "absent" and must match orders
// where the field is absent too.
type Fingerprint struct {
	FullName       string
	Email          string
	Phone          string
	Country        string
	Postcode       string
	TownOrCity     string
	StreetAddress1 string
	StreetAddress2 string
	County         string
	GrandTotal     float64
	OriginalCart   string
	PaymentRef     string
}

// ExtractFingerprint derives the match key from a validated event.
func ExtractFingerprint(evt ValidatedEvent) Fingerprint {
	return Fingerprint{
		FullName:       evt.ShippingName,
		Email:          evt.BillingEmail,
		Phone:          evt.ShippingPhone,
		Country:        evt.Address.Country,
		Postcode:       evt.Address.Postcode,
		TownOrCity:     evt.Address.City,
		StreetAddress1: evt.Address.Line1,
		StreetAddress2: evt.Address.Line2,
		County:         evt.Address.Region,
		GrandTotal:     MinorToMajor(evt.SettledAmount),
		OriginalCart:   evt.CartSnapshot,
		PaymentRef:     evt.PaymentRef,
	}
}

// MinorToMajor converts an amount in minor currency units to major units,
// rounded half up to two decimal places. Every order writer goes through this
// helper so totals compare exactly, never approximately.
func MinorToMajor(minor int64) float64 {
	major, _ := decimal.NewFromInt(minor).Shift(-2).Round(2).Float64()
	return major
}

// LineTotal computes price times quantity in decimal space, rounded half up
// to two places.
func LineTotal(price float64, quantity int) float64 {
	total, _ := decimal.NewFromFloat(price).
		Mul(decimal.NewFromInt(int64(quantity))).
		Round(2).
		Float64()
	return total
}
