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

type CategoryStore struct {
	coll *mongo.Collection
}

func NewCategoryStore(db *mongo.Database) *CategoryStore {
	return &CategoryStore{coll: db.Collection(categoriesCollection)}
}

func (s *CategoryStore) Insert(ctx context.Context, category *models.Category) error {
	now := time.Now()
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	category.CreatedAt = now
	category.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, category); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryStore) Update(ctx context.Context, id primitive.ObjectID, name, image string) (models.UpdateResult, error) {
	set := bson.M{"updatedAt": time.Now()}
	if name != "" {
		set["name"] = name
	}
	if image != "" {
		set["image"] = image
	}

	res, err := s.coll.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("update category: %w", err)
	}
	return updateResult(res), nil
}

func (s *CategoryStore) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete category: %w", err)
	}
	return res.DeletedCount, nil
}

type SubCategoryStore struct {
	coll *mongo.Collection
}

func NewSubCategoryStore(db *mongo.Database) *SubCategoryStore {
	return &SubCategoryStore{coll: db.Collection(subCategoriesCollection)}
}

func (s *SubCategoryStore) Insert(ctx context.Context, sub *models.SubCategory) error {
	now := time.Now()
	if sub.ID.IsZero() {
		sub.ID = primitive.NewObjectID()
	}
	sub.CreatedAt = now
	sub.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, sub); err != nil {
		return fmt.Errorf("insert subcategory: %w", err)
	}
	return nil
}

// List returns subcategories newest first with their categories expanded.
func (s *SubCategoryStore) List(ctx context.Context) ([]models.SubCategoryView, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         categoriesCollection,
			"localField":   "category",
			"foreignField": "_id",
			"as":           "category",
		}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate subcategories: %w", err)
	}
	defer cursor.Close(ctx)

	views := []models.SubCategoryView{}
	if err := cursor.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("decode subcategories: %w", err)
	}
	return views, nil
}

func (s *SubCategoryStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.SubCategory, error) {
	var sub models.SubCategory
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *SubCategoryStore) Update(ctx context.Context, id primitive.ObjectID, name, image string, categories []primitive.ObjectID) (models.UpdateResult, error) {
	set := bson.M{"updatedAt": time.Now()}
	if name != "" {
		set["name"] = name
	}
	if image != "" {
		set["image"] = image
	}
	if categories != nil {
		set["category"] = categories
	}

	res, err := s.coll.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("update subcategory: %w", err)
	}
	return updateResult(res), nil
}

func (s *SubCategoryStore) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete subcategory: %w", err)
	}
	return res.DeletedCount, nil
}

func (s *SubCategoryStore) CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"category": categoryID})
	if err != nil {
		return 0, fmt.Errorf("count subcategories: %w", err)
	}
	return n, nil
}
