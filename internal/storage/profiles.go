package storage

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"boutique/internal/checkout"
	"boutique/internal/models"
)

// ProfileStore persists shopper profiles, keyed by username.
type ProfileStore struct {
	profiles *mongo.Collection
}

func NewProfileStore(db *mongo.Database) *ProfileStore {
	return &ProfileStore{profiles: db.Collection("user_profiles")}
}

func (s *ProfileStore) FindByUsername(ctx context.Context, username string) (*models.UserProfile, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var profile models.UserProfile
	err := s.profiles.FindOne(ctx, bson.M{"username": username}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, checkout.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Save writes the whole profile back, creating it when it does not exist yet.
func (s *ProfileStore) Save(ctx context.Context, profile *models.UserProfile) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	res, err := s.profiles.ReplaceOne(ctx, bson.M{"username": profile.Username}, profile, opts)
	if err != nil {
		return err
	}
	if id, ok := res.UpsertedID.(primitive.ObjectID); ok {
		profile.ID = id
	}
	return nil
}
