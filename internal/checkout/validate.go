package checkout

import "strings"

// ValidateEvent checks a payment event for structural completeness. The
// checks run in a fixed order and stop at the first failure, so callers and
// tests always see the most fundamental missing piece. No I/O happens here.
// The cart snapshot passes through byte for byte: the stored order's copy is
// compared to it exactly, so it must never be reformatted.
func ValidateEvent(evt PaymentEvent) (ValidatedEvent, error) {
	if len(evt.Metadata) == 0 {
		return ValidatedEvent{}, &ValidationError{Code: MissingMetadata}
	}
	cart := evt.Metadata[MetaCartSnapshot]
	if strings.TrimSpace(cart) == "" {
		return ValidatedEvent{}, &ValidationError{Code: MissingCart}
	}
	email := strings.TrimSpace(evt.BillingEmail)
	if evt.SettledAmount <= 0 || email == "" {
		return ValidatedEvent{}, &ValidationError{Code: MissingChargeData}
	}
	if evt.Shipping == nil {
		return ValidatedEvent{}, &ValidationError{Code: MissingShipping}
	}
	if evt.Shipping.Address == nil {
		return ValidatedEvent{}, &ValidationError{Code: MissingShippingAddress}
	}
	addr := evt.Shipping.Address.Normalize()
	if addr == (Address{}) {
		return ValidatedEvent{}, &ValidationError{Code: MissingShippingAddress}
	}

	username := strings.TrimSpace(evt.Metadata[MetaUsername])
	if username == anonymousUser {
		username = ""
	}

	return ValidatedEvent{
		PaymentRef:    evt.PaymentRef,
		CartSnapshot:  cart,
		SaveInfo:      parseSaveInfo(evt.Metadata[MetaSaveInfo]),
		Username:      username,
		BillingEmail:  email,
		SettledAmount: evt.SettledAmount,
		ShippingName:  strings.TrimSpace(evt.Shipping.Name),
		ShippingPhone: strings.TrimSpace(evt.Shipping.Phone),
		Address:       addr,
	}, nil
}
