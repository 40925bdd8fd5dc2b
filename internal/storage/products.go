package storage

import (
	"context"
	"errors"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"boutique/internal/checkout"
	"boutique/internal/models"
)

// ProductStore reads the product catalog.
type ProductStore struct {
	products *mongo.Collection
}

func NewProductStore(db *mongo.Database) *ProductStore {
	return &ProductStore{products: db.Collection("products")}
}

// FindBySKU resolves the identifier cart snapshots use.
func (s *ProductStore) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var product models.Product
	err := s.products.FindOne(ctx, bson.M{"sku": sku}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, checkout.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByID returns one product by its object id.
func (s *ProductStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var product models.Product
	err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, checkout.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListCategories returns the distinct category names the catalog uses.
func (s *ProductStore) ListCategories(ctx context.Context) ([]string, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	values, err := s.products.Distinct(ctx, "category", bson.M{"category": bson.M{"$ne": ""}})
	if err != nil {
		return nil, err
	}
	categories := make([]string, 0, len(values))
	for _, v := range values {
		if name, ok := v.(string); ok {
			categories = append(categories, name)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

// List pages through the catalog, optionally narrowed to one category.
func (s *ProductStore) List(ctx context.Context, category string, page, limit int64) ([]models.Product, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := s.products.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}
