package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order is the persisted order document. The combination of contact fields,
// address, grand total, original cart text and payment reference identifies
// one logical order; the webhook reconciler matches on exactly these fields.
// Every textual field uses omitempty so a blank is stored as absent, never as
// an empty string; the reconciler's filter matches blanks against absent.
type Order struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OrderNumber    string              `bson:"orderNumber" json:"orderNumber"`
	UserProfileID  *primitive.ObjectID `bson:"userProfileId,omitempty" json:"userProfileId,omitempty"`
	FullName       string              `bson:"fullName,omitempty" json:"fullName,omitempty"`
	Email          string              `bson:"email,omitempty" json:"email,omitempty"`
	Phone          string              `bson:"phone,omitempty" json:"phone,omitempty"`
	Country        string              `bson:"country,omitempty" json:"country,omitempty"`
	Postcode       string              `bson:"postcode,omitempty" json:"postcode,omitempty"`
	TownOrCity     string              `bson:"townOrCity,omitempty" json:"townOrCity,omitempty"`
	StreetAddress1 string              `bson:"streetAddress1,omitempty" json:"streetAddress1,omitempty"`
	StreetAddress2 string              `bson:"streetAddress2,omitempty" json:"streetAddress2,omitempty"`
	County         string              `bson:"county,omitempty" json:"county,omitempty"`
	DeliveryCost   float64             `bson:"deliveryCost" json:"deliveryCost"`
	OrderTotal     float64             `bson:"orderTotal" json:"orderTotal"`
	GrandTotal     float64             `bson:"grandTotal" json:"grandTotal"`
	OriginalCart   string              `bson:"originalCart" json:"originalCart"`
	StripePID      string              `bson:"stripePid" json:"stripePid"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
}

// OrderLineItem is one product row belonging to an order. Line items live in
// their own collection so a failed materialization can be rolled back without
// leaving orphans behind.
type OrderLineItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID   primitive.ObjectID `bson:"orderId" json:"orderId"`
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	SKU       string             `bson:"sku" json:"sku"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Size      string             `bson:"size,omitempty" json:"size,omitempty"`
	LineTotal float64            `bson:"lineTotal" json:"lineTotal"`
}
