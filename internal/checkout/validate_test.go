package checkout

import (
	"errors"
	"testing"
)

func TestValidateEventChecksInOrder(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PaymentEvent)
		want   RejectCode
	}{
		{"nil metadata", func(e *PaymentEvent) { e.Metadata = nil }, MissingMetadata},
		{"empty metadata", func(e *PaymentEvent) { e.Metadata = map[string]string{} }, MissingMetadata},
		{"cart key absent", func(e *PaymentEvent) { delete(e.Metadata, MetaCartSnapshot) }, MissingCart},
		{"cart blank", func(e *PaymentEvent) { e.Metadata[MetaCartSnapshot] = "   " }, MissingCart},
		{"zero amount", func(e *PaymentEvent) { e.SettledAmount = 0 }, MissingChargeData},
		{"negative amount", func(e *PaymentEvent) { e.SettledAmount = -100 }, MissingChargeData},
		{"no billing email", func(e *PaymentEvent) { e.BillingEmail = " " }, MissingChargeData},
		{"no shipping", func(e *PaymentEvent) { e.Shipping = nil }, MissingShipping},
		{"no address", func(e *PaymentEvent) { e.Shipping.Address = nil }, MissingShippingAddress},
		{"blank address", func(e *PaymentEvent) { *e.Shipping.Address = Address{Line1: "  ", City: " "} }, MissingShippingAddress},
		{"cart check precedes charge check", func(e *PaymentEvent) {
			delete(e.Metadata, MetaCartSnapshot)
			e.SettledAmount = 0
		}, MissingCart},
		{"charge check precedes shipping check", func(e *PaymentEvent) {
			e.BillingEmail = ""
			e.Shipping = nil
		}, MissingChargeData},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			evt := succeededEvent()
			tc.mutate(&evt)
			_, err := ValidateEvent(evt)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Code != tc.want {
				t.Errorf("code = %s, want %s", vErr.Code, tc.want)
			}
		})
	}
}

func TestValidateEventNormalizes(t *testing.T) {
	evt := succeededEvent()
	evt.BillingEmail = "  jane@example.com "
	evt.Metadata[MetaSaveInfo] = "True"
	evt.Shipping.Name = " Jane Doe "
	evt.Shipping.Address.Line2 = "   "
	evt.Shipping.Address.Country = " US "

	v, err := ValidateEvent(evt)
	if err != nil {
		t.Fatalf("ValidateEvent: %v", err)
	}
	if v.BillingEmail != "jane@example.com" {
		t.Errorf("email = %q", v.BillingEmail)
	}
	if v.ShippingName != "Jane Doe" {
		t.Errorf("name = %q", v.ShippingName)
	}
	if v.Address.Line2 != "" {
		t.Errorf("line2 = %q, want empty", v.Address.Line2)
	}
	if v.Address.Country != "US" {
		t.Errorf("country = %q", v.Address.Country)
	}
	if !v.SaveInfo {
		t.Error("save_info = false, want true")
	}
}

func TestValidateEventKeepsCartTextVerbatim(t *testing.T) {
	raw := "\n{\"12\": 2}\n"
	evt := succeededEvent()
	evt.Metadata[MetaCartSnapshot] = raw

	v, err := ValidateEvent(evt)
	if err != nil {
		t.Fatalf("ValidateEvent: %v", err)
	}
	if v.CartSnapshot != raw {
		t.Errorf("cart = %q, want the metadata bytes untouched", v.CartSnapshot)
	}
}

func TestValidateEventAnonymousUsername(t *testing.T) {
	for _, raw := range []string{"", "AnonymousUser"} {
		evt := succeededEvent()
		evt.Metadata[MetaUsername] = raw
		v, err := ValidateEvent(evt)
		if err != nil {
			t.Fatalf("ValidateEvent(%q): %v", raw, err)
		}
		if v.Username != "" {
			t.Errorf("username for %q = %q, want empty", raw, v.Username)
		}
	}

	evt := succeededEvent()
	evt.Metadata[MetaUsername] = "jane"
	v, err := ValidateEvent(evt)
	if err != nil {
		t.Fatalf("ValidateEvent: %v", err)
	}
	if v.Username != "jane" {
		t.Errorf("username = %q, want jane", v.Username)
	}
}
