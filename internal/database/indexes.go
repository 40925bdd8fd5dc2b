package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("products").Indexes()

	skuIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "sku", Value: 1}},
		Options: options.Index().
			SetName("sku_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"sku": bson.M{
					"$exists": true,
				},
			}),
	}

	log.Println("EnsureProductIndexes: creating sku_unique index")
	_, err := indexes.CreateOne(ctx, skuIndex)
	if err != nil {
		log.Println("EnsureProductIndexes: sku index error:", err)
		return err
	}
	return nil
}

func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	orderIndexes := db.Collection("orders").Indexes()

	log.Println("EnsureOrderIndexes: creating orderNumber_unique index")
	_, err := orderIndexes.CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "orderNumber", Value: 1}},
		Options: options.Index().SetName("orderNumber_unique").SetUnique(true),
	})
	if err != nil {
		log.Println("EnsureOrderIndexes: orderNumber index error:", err)
		return err
	}

	// The reconciler's fingerprint query always includes stripePid, so one
	// non-unique index keeps the 5-attempt poll cheap.
	log.Println("EnsureOrderIndexes: creating stripePid_index index")
	_, err = orderIndexes.CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "stripePid", Value: 1}},
		Options: options.Index().SetName("stripePid_index"),
	})
	if err != nil {
		log.Println("EnsureOrderIndexes: stripePid index error:", err)
		return err
	}

	log.Println("EnsureOrderIndexes: creating lineItems orderId_index index")
	_, err = db.Collection("order_line_items").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "orderId", Value: 1}},
		Options: options.Index().SetName("orderId_index"),
	})
	if err != nil {
		log.Println("EnsureOrderIndexes: lineItems orderId index error:", err)
		return err
	}
	return nil
}

func EnsureProfileIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("user_profiles").Indexes()

	log.Println("EnsureProfileIndexes: creating username_unique index")
	_, err := indexes.CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetName("username_unique").SetUnique(true),
	})
	if err != nil {
		log.Println("EnsureProfileIndexes: username index error:", err)
		return err
	}
	return nil
}

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	log.Println("EnsureUserIndexes: creating username_unique index")
	_, err := indexes.CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetName("username_unique").SetUnique(true),
	})
	if err != nil {
		log.Println("EnsureUserIndexes: username index error:", err)
		return err
	}

	log.Println("EnsureUserIndexes: creating email_unique index")
	_, err = indexes.CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("email_unique").SetUnique(true),
	})
	if err != nil {
		log.Println("EnsureUserIndexes: email index error:", err)
		return err
	}
	return nil
}
