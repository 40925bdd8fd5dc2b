package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog item. SKU is the stable string identifier cart
// snapshots refer to; it stays valid across re-imports of the catalog.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SKU         string             `bson:"sku" json:"sku"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	HasSizes    bool               `bson:"hasSizes" json:"hasSizes"`
	Rating      *float64           `bson:"rating,omitempty" json:"rating,omitempty"`
	ImagePath   string             `bson:"imagePath,omitempty" json:"imagePath,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
