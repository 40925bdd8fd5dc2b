package checkout

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"boutique/internal/models"
)

// materialize turns a payment event into a persisted order. The order row is
// created first so line items have their anchor, then every cart entry is
// resolved and written. Any failure past the order insert triggers
// compensating deletion: callers see either a complete order or none at all.
func (e *Engine) materialize(ctx context.Context, fp Fingerprint, cartText string, profile *models.UserProfile) (*models.Order, error) {
	cart, err := ParseCartSnapshot(cartText)
	if err != nil {
		return nil, err
	}

	order := orderFromFingerprint(fp)
	order.OrderNumber = NewOrderNumber()
	order.CreatedAt = time.Now()
	if profile != nil {
		order.UserProfileID = &profile.ID
	}
	if err := e.orders.Create(ctx, order); err != nil {
		return nil, &MaterializationError{Err: err}
	}

	if err := e.writeLineItems(ctx, order, cart); err != nil {
		e.rollback(ctx, order)
		return nil, err
	}
	return order, nil
}

// writeLineItems resolves cart entries one by one, in stable order, writing a
// line item per plain entry and one per size for sized entries.
func (e *Engine) writeLineItems(ctx context.Context, order *models.Order, cart CartSnapshot) error {
	for _, sku := range cart.SKUs() {
		product, err := e.products.FindBySKU(ctx, sku)
		if errors.Is(err, ErrNotFound) {
			return &ProductNotFoundError{SKU: sku}
		}
		if err != nil {
			return &MaterializationError{Err: err}
		}

		entry := cart[sku]
		if entry.BySize == nil {
			if err := e.insertLineItem(ctx, order, product, entry.Quantity, ""); err != nil {
				return err
			}
			continue
		}
		for _, size := range entry.Sizes() {
			if err := e.insertLineItem(ctx, order, product, entry.BySize[size], size); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Engine) insertLineItem(ctx context.Context, order *models.Order, product *models.Product, quantity int, size string) error {
	item := &models.OrderLineItem{
		OrderID:   order.ID,
		ProductID: product.ID,
		SKU:       product.SKU,
		Quantity:  quantity,
		Size:      size,
		LineTotal: LineTotal(product.Price, quantity),
	}
	if err := e.orders.CreateLineItem(ctx, item); err != nil {
		return &MaterializationError{Err: err}
	}
	return nil
}

// rollback removes the order and whatever line items made it in. Failures
// are logged and not returned; the original error is what the caller needs.
func (e *Engine) rollback(ctx context.Context, order *models.Order) {
	if err := e.orders.DeleteLineItems(ctx, order.ID); err != nil {
		e.log.Error("rollback of line items failed", "orderNumber", order.OrderNumber, "err", err)
	}
	if err := e.orders.Delete(ctx, order.ID); err != nil {
		e.log.Error("rollback of order failed", "orderNumber", order.OrderNumber, "err", err)
	}
}

func orderFromFingerprint(fp Fingerprint) *models.Order {
	return &models.Order{
		FullName:       fp.FullName,
		Email:          fp.Email,
		Phone:          fp.Phone,
		Country:        fp.Country,
		Postcode:       fp.Postcode,
		TownOrCity:     fp.TownOrCity,
		StreetAddress1: fp.StreetAddress1,
		StreetAddress2: fp.StreetAddress2,
		County:         fp.County,
		GrandTotal:     fp.GrandTotal,
		OriginalCart:   fp.OriginalCart,
		StripePID:      fp.PaymentRef,
	}
}

// NewOrderNumber mints the shopper-facing order identifier: an uppercase
// 32-character hex string, unique per order.
func NewOrderNumber() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}
