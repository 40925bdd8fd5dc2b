package storage

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"boutique/internal/checkout"
	"boutique/internal/models"
)

// opTimeout bounds every single database operation in this package.
const opTimeout = 5 * time.Second

func opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, opTimeout)
}

// OrderStore persists orders and their line items in MongoDB. Line items
// live in their own collection so a failed materialization can delete them
// independently of the order row.
type OrderStore struct {
	orders *mongo.Collection
	items  *mongo.Collection
}

func NewOrderStore(db *mongo.Database) *OrderStore {
	return &OrderStore{
		orders: db.Collection("orders"),
		items:  db.Collection("order_line_items"),
	}
}

// FindByFingerprint returns the order matching the reconciliation
// fingerprint, or checkout.ErrNotFound.
func (s *OrderStore) FindByFingerprint(ctx context.Context, fp checkout.Fingerprint) (*models.Order, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var order models.Order
	err := s.orders.FindOne(ctx, fingerprintFilter(fp)).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, checkout.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// fingerprintFilter translates a fingerprint into the match the reconciler
// needs: anchored case-insensitive equality on textual fields, absent or null
// for fields the event normalized away, and exact equality on the total, the
// cart text and the payment reference.
func fingerprintFilter(fp checkout.Fingerprint) bson.M {
	filter := bson.M{
		"grandTotal":   fp.GrandTotal,
		"originalCart": fp.OriginalCart,
		"stripePid":    fp.PaymentRef,
	}
	textual := map[string]string{
		"fullName":       fp.FullName,
		"email":          fp.Email,
		"phone":          fp.Phone,
		"country":        fp.Country,
		"postcode":       fp.Postcode,
		"townOrCity":     fp.TownOrCity,
		"streetAddress1": fp.StreetAddress1,
		"streetAddress2": fp.StreetAddress2,
		"county":         fp.County,
	}
	for field, value := range textual {
		if value == "" {
			// Matches documents where the field is null or missing.
			filter[field] = nil
			continue
		}
		filter[field] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(value) + "$", Options: "i"}
	}
	return filter
}

// Create inserts the order and assigns its ID.
func (s *OrderStore) Create(ctx context.Context, order *models.Order) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	res, err := s.orders.InsertOne(ctx, order)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = id
	}
	return nil
}

// Delete removes an order row. Its line items are deleted separately.
func (s *OrderStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	_, err := s.orders.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// CreateLineItem inserts one line item and assigns its ID.
func (s *OrderStore) CreateLineItem(ctx context.Context, item *models.OrderLineItem) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	res, err := s.items.InsertOne(ctx, item)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		item.ID = id
	}
	return nil
}

// DeleteLineItems removes every line item under an order.
func (s *OrderStore) DeleteLineItems(ctx context.Context, orderID primitive.ObjectID) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	_, err := s.items.DeleteMany(ctx, bson.M{"orderId": orderID})
	return err
}

// FindByNumber returns an order by its shopper-facing order number.
func (s *OrderStore) FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var order models.Order
	err := s.orders.FindOne(ctx, bson.M{"orderNumber": orderNumber}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, checkout.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListLineItems returns an order's line items.
func (s *OrderStore) ListLineItems(ctx context.Context, orderID primitive.ObjectID) ([]models.OrderLineItem, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	cursor, err := s.items.Find(ctx, bson.M{"orderId": orderID})
	if err != nil {
		return nil, err
	}
	items := []models.OrderLineItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListByProfile returns a profile's order history, newest first.
func (s *OrderStore) ListByProfile(ctx context.Context, profileID primitive.ObjectID) ([]models.Order, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.orders.Find(ctx, bson.M{"userProfileId": profileID}, opts)
	if err != nil {
		return nil, err
	}
	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
