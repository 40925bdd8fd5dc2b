package checkout

import (
	"errors"
	"fmt"
)

// ErrNotFound is the sentinel store lookups return when nothing matched.
var ErrNotFound = errors.New("not found")

// RejectCode names the structural check an event failed.
type RejectCode string

const (
	MissingMetadata        RejectCode = "missing_metadata"
	MissingCart            RejectCode = "missing_cart_snapshot"
	MissingChargeData      RejectCode = "missing_charge_data"
	MissingShipping        RejectCode = "missing_shipping"
	MissingShippingAddress RejectCode = "missing_shipping_address"
)

// ValidationError reports a structurally incomplete event. The payload itself
// is wrong, so redelivering it cannot succeed; no side effects have happened
// when this surfaces.
type ValidationError struct {
	Code RejectCode
}

func (e *ValidationError) Error() string {
	return "invalid payment event: " + string(e.Code)
}

// CartFormatError reports a cart snapshot that could not be parsed into cart
// entries. Parsing happens before any write, so nothing needs cleaning up.
type CartFormatError struct {
	Err error
}

func (e *CartFormatError) Error() string {
	return fmt.Sprintf("invalid cart format: %v", e.Err)
}

func (e *CartFormatError) Unwrap() error { return e.Err }

// ProductNotFoundError aborts materialization when a cart entry references a
// SKU the catalog does not have. The partially-created order has already been
// rolled back by the time this is returned.
type ProductNotFoundError struct {
	SKU string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %q not found", e.SKU)
}

// MaterializationError wraps an unexpected storage failure while writing the
// order or its line items, after compensating deletion ran.
type MaterializationError struct {
	Err error
}

func (e *MaterializationError) Error() string {
	return fmt.Sprintf("order materialization failed: %v", e.Err)
}

func (e *MaterializationError) Unwrap() error { return e.Err }
