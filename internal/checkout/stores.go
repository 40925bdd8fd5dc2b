package checkout

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"boutique/internal/models"
)

// OrderStore is the order persistence the engine relies on.
//
// FindByFingerprint compares textual fields case-insensitively and the total,
// cart text and payment reference exactly; an empty fingerprint field matches
// only orders where that field is absent. A miss is ErrNotFound. Create and
// CreateLineItem assign the record's ID on success.
type OrderStore interface {
	FindByFingerprint(ctx context.Context, fp Fingerprint) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CreateLineItem(ctx context.Context, item *models.OrderLineItem) error
	DeleteLineItems(ctx context.Context, orderID primitive.ObjectID) error
}

// ProductStore resolves cart SKUs against the catalog. A miss is ErrNotFound.
type ProductStore interface {
	FindBySKU(ctx context.Context, sku string) (*models.Product, error)
}

// ProfileStore looks up and updates shopper profiles. A miss is ErrNotFound.
type ProfileStore interface {
	FindByUsername(ctx context.Context, username string) (*models.UserProfile, error)
	Save(ctx context.Context, profile *models.UserProfile) error
}

// Notifier sends the order confirmation. Sending is fire and forget: the
// engine logs failures and never lets them change the reconciliation result.
type Notifier interface {
	SendConfirmation(ctx context.Context, order *models.Order) error
}

// PendingLineItem is a resolved cart row waiting for its order to exist.
type PendingLineItem struct {
	Product  *models.Product
	Quantity int
	Size     string
}

// ResolveCart expands a parsed cart against the catalog without writing
// anything, in stable SKU and size order. The storefront checkout path uses
// it to price a cart before creating the order row.
func ResolveCart(ctx context.Context, products ProductStore, cart CartSnapshot) ([]PendingLineItem, error) {
	items := make([]PendingLineItem, 0, len(cart))
	for _, sku := range cart.SKUs() {
		product, err := products.FindBySKU(ctx, sku)
		if errors.Is(err, ErrNotFound) {
			return nil, &ProductNotFoundError{SKU: sku}
		}
		if err != nil {
			return nil, err
		}
		entry := cart[sku]
		if entry.BySize == nil {
			items = append(items, PendingLineItem{Product: product, Quantity: entry.Quantity})
			continue
		}
		for _, size := range entry.Sizes() {
			items = append(items, PendingLineItem{Product: product, Quantity: entry.BySize[size], Size: size})
		}
	}
	return items, nil
}
