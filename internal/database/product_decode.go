package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"petstore/internal/models"
)

// normalizeProductDocument tolerates products written by older admin panels:
// stock stored as a double, and category or subCategory stored as a single id
// instead of a list.
func normalizeProductDocument(raw bson.M) (models.Product, error) {
	for _, key := range []string{"category", "subCategory"} {
		switch typed := raw[key].(type) {
		case primitive.ObjectID:
			raw[key] = []primitive.ObjectID{typed}
		case nil:
			raw[key] = []primitive.ObjectID{}
		}
	}

	switch typed := raw["stock"].(type) {
	case int32:
		raw["stock"] = int(typed)
	case int64:
		raw["stock"] = int(typed)
	case float64:
		raw["stock"] = int(typed)
	case int:
	default:
		raw["stock"] = 0
	}

	if _, ok := raw["status"].(bool); !ok {
		raw["status"] = true
	}

	data, err := bson.Marshal(raw)
	if err != nil {
		return models.Product{}, err
	}

	var p models.Product
	if err := bson.Unmarshal(data, &p); err != nil {
		return models.Product{}, err
	}

	p.InStock = p.Stock > 0
	return p, nil
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]models.Product, error) {
	products := make([]models.Product, 0)

	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}

		product, err := normalizeProductDocument(raw)
		if err != nil {
			return nil, err
		}

		products = append(products, product)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return products, nil
}
