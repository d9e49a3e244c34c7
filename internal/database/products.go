package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"petstore/internal/models"
)

type ProductStore struct {
	coll *mongo.Collection
}

func NewProductStore(db *mongo.Database) *ProductStore {
	return &ProductStore{coll: db.Collection(productsCollection)}
}

func (s *ProductStore) Insert(ctx context.Context, product *models.Product) error {
	now := time.Now()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	if product.Category == nil {
		product.Category = []primitive.ObjectID{}
	}
	if product.SubCategory == nil {
		product.SubCategory = []primitive.ObjectID{}
	}
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	product.InStock = product.Stock > 0
	return nil
}

// List pages through products newest first. A search term uses the text
// index on name and description.
func (s *ProductStore) List(ctx context.Context, query models.ProductQuery) ([]models.Product, int64, error) {
	filter := bson.M{}
	if search := strings.TrimSpace(query.Search); search != "" {
		filter["$text"] = bson.M{"$search": search}
	}
	if query.CategoryID != nil {
		filter["category"] = bson.M{"$in": []primitive.ObjectID{*query.CategoryID}}
	}
	if query.SubCategoryID != nil {
		filter["subCategory"] = bson.M{"$in": []primitive.ObjectID{*query.SubCategoryID}}
	}

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	skip := (query.Page - 1) * query.Limit
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(query.Limit)

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	products, err := decodeProducts(ctx, cursor)
	if err != nil {
		return nil, 0, fmt.Errorf("decode products: %w", err)
	}
	return products, total, nil
}

func (s *ProductStore) ListByCategory(ctx context.Context, categoryID primitive.ObjectID, limit int64) ([]models.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.coll.Find(ctx, bson.M{"category": bson.M{"$in": []primitive.ObjectID{categoryID}}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	products, err := decodeProducts(ctx, cursor)
	if err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func (s *ProductStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var raw bson.M
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&raw); err != nil {
		return nil, err
	}

	product, err := normalizeProductDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}
	return &product, nil
}

func (s *ProductStore) Update(ctx context.Context, id primitive.ObjectID, fields models.ProductFields) (models.UpdateResult, error) {
	set := bson.M{"updatedAt": time.Now()}
	if fields.Name != nil {
		set["name"] = *fields.Name
	}
	if fields.Image != nil {
		set["image"] = fields.Image
	}
	if fields.Category != nil {
		set["category"] = fields.Category
	}
	if fields.SubCategory != nil {
		set["subCategory"] = fields.SubCategory
	}
	if fields.Unit != nil {
		set["unit"] = *fields.Unit
	}
	if fields.Stock != nil {
		set["stock"] = *fields.Stock
	}
	if fields.Price != nil {
		set["price"] = *fields.Price
	}
	if fields.Description != nil {
		set["description"] = *fields.Description
	}
	if fields.Status != nil {
		set["status"] = *fields.Status
	}

	res, err := s.coll.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("update product: %w", err)
	}
	return updateResult(res), nil
}

func (s *ProductStore) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete product: %w", err)
	}
	return res.DeletedCount, nil
}

func (s *ProductStore) CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"category": categoryID})
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}
