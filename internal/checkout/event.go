package checkout

import (
	"strconv"
	"strings"
)

// Metadata keys the storefront attaches to a payment intent at checkout time.
const (
	MetaCartSnapshot = "cart_snapshot"
	MetaSaveInfo     = "save_info"
	MetaUsername     = "username"
)

// anonymousUser is the username marker sent when nobody is signed in.
const anonymousUser = "AnonymousUser"

// EventKind classifies provider event types into the cases the engine
// handles. Everything unmapped is KindUnknown and gets acknowledged as a
// no-op so the provider stops redelivering it.
type EventKind int

const (
	KindUnknown EventKind = iota
	KindPaymentSucceeded
	KindPaymentFailed
)

// KindOf maps a provider event type string to its EventKind.
func KindOf(eventType string) EventKind {
	switch eventType {
	case "payment_intent.succeeded":
		return KindPaymentSucceeded
	case "payment_intent.payment_failed":
		return KindPaymentFailed
	default:
		return KindUnknown
	}
}

// Address is a shipping address as delivered by the payment provider. An
// empty string means the field was absent.
type Address struct {
	Country  string
	Postcode string
	City     string
	Line1    string
	Line2    string
	Region   string
}

// Normalize returns a copy with every field trimmed, so optional fields the
// shopper left blank compare equal to fields the provider omitted entirely.
func (a Address) Normalize() Address {
	return Address{
		Country:  strings.TrimSpace(a.Country),
		Postcode: strings.TrimSpace(a.Postcode),
		City:     strings.TrimSpace(a.City),
		Line1:    strings.TrimSpace(a.Line1),
		Line2:    strings.TrimSpace(a.Line2),
		Region:   strings.TrimSpace(a.Region),
	}
}

// ShippingDetails is the shipping block of a payment event.
type ShippingDetails struct {
	Name    string
	Phone   string
	Address *Address
}

// PaymentEvent is the parsed, signature-verified event the transport layer
// hands to the engine. It carries no provider SDK types, so the engine can be
// driven from tests without a provider in the loop.
type PaymentEvent struct {
	Type          string
	PaymentRef    string
	Metadata      map[string]string
	BillingEmail  string
	SettledAmount int64 // minor currency units
	Shipping      *ShippingDetails
}

// Kind reports which handling case the event falls into.
func (e PaymentEvent) Kind() EventKind { return KindOf(e.Type) }

// ValidatedEvent is the strongly typed view of a payment event that passed
// every structural check. Username is empty when the shopper was anonymous,
// and the address is already normalized.
type ValidatedEvent struct {
	PaymentRef    string
	CartSnapshot  string
	SaveInfo      bool
	Username      string
	BillingEmail  string
	SettledAmount int64
	ShippingName  string
	ShippingPhone string
	Address       Address
}

// parseSaveInfo tolerates the usual boolean spellings; anything else means
// the shopper did not ask to save their details.
func parseSaveInfo(raw string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && v
}
