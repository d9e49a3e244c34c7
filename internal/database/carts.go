package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"petstore/internal/models"
)

type CartStore struct {
	coll *mongo.Collection
}

func NewCartStore(db *mongo.Database) *CartStore {
	return &CartStore{coll: db.Collection(cartCollection)}
}

func (s *CartStore) Insert(ctx context.Context, item *models.CartItem) error {
	now := time.Now()
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	item.CreatedAt = now
	item.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("insert cart item: %w", err)
	}
	return nil
}

// ListByUser returns the user's rows with productId joined to the product.
func (s *CartStore) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.CartLine, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: 1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         productsCollection,
			"localField":   "productId",
			"foreignField": "_id",
			"as":           "product",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$product", "preserveNullAndEmptyArrays": true}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate cart: %w", err)
	}
	defer cursor.Close(ctx)

	lines := []models.CartLine{}
	if err := cursor.All(ctx, &lines); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	for i := range lines {
		if lines[i].Product != nil {
			lines[i].Product.InStock = lines[i].Product.Stock > 0
		}
	}
	return lines, nil
}

func (s *CartStore) UpdateQuantity(ctx context.Context, userID, id primitive.ObjectID, quantity int) (models.UpdateResult, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id, "userId": userID},
		bson.M{"$set": bson.M{"quantity": quantity, "updatedAt": time.Now()}},
	)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("update cart item: %w", err)
	}
	return updateResult(res), nil
}

func (s *CartStore) Delete(ctx context.Context, userID, id primitive.ObjectID) (int64, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return 0, fmt.Errorf("delete cart item: %w", err)
	}
	return res.DeletedCount, nil
}

func (s *CartStore) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}
	return res.DeletedCount, nil
}
