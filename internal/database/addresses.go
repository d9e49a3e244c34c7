package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"petstore/internal/models"
)

type AddressStore struct {
	coll *mongo.Collection
}

func NewAddressStore(db *mongo.Database) *AddressStore {
	return &AddressStore{coll: db.Collection(addressesCollection)}
}

func (s *AddressStore) Insert(ctx context.Context, address *models.Address) error {
	now := time.Now()
	if address.ID.IsZero() {
		address.ID = primitive.NewObjectID()
	}
	address.CreatedAt = now
	address.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, address); err != nil {
		return fmt.Errorf("insert address: %w", err)
	}
	return nil
}

func (s *AddressStore) ListActive(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.find(ctx, bson.M{"userId": userID, "status": true}, opts)
}

// FindByIDs ignores status so disabled addresses still resolve on old orders.
func (s *AddressStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Address, error) {
	if len(ids) == 0 {
		return []models.Address{}, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (s *AddressStore) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Address, error) {
	cursor, err := s.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find addresses: %w", err)
	}
	defer cursor.Close(ctx)

	addresses := []models.Address{}
	if err := cursor.All(ctx, &addresses); err != nil {
		return nil, fmt.Errorf("decode addresses: %w", err)
	}
	return addresses, nil
}

func (s *AddressStore) Update(ctx context.Context, userID, id primitive.ObjectID, fields models.AddressFields) (models.UpdateResult, error) {
	set := bson.M(fields.Set())
	set["updatedAt"] = time.Now()
	return s.update(ctx, userID, id, set)
}

func (s *AddressStore) Disable(ctx context.Context, userID, id primitive.ObjectID) (models.UpdateResult, error) {
	return s.update(ctx, userID, id, bson.M{"status": false, "updatedAt": time.Now()})
}

func (s *AddressStore) update(ctx context.Context, userID, id primitive.ObjectID, set bson.M) (models.UpdateResult, error) {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id, "userId": userID}, bson.M{"$set": set})
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("update address: %w", err)
	}
	return updateResult(res), nil
}
