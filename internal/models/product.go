package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name        string               `bson:"name" json:"name"`
	Image       StringList           `bson:"image" json:"image"`
	Category    []primitive.ObjectID `bson:"category" json:"category"`
	SubCategory []primitive.ObjectID `bson:"subCategory" json:"subCategory"`
	Unit        string               `bson:"unit" json:"unit"`
	Stock       int                  `bson:"stock" json:"stock"`
	InStock     bool                 `bson:"-" json:"inStock"`
	Price       float64              `bson:"price" json:"price"`
	Description string               `bson:"description" json:"description"`
	Status      bool                 `bson:"status" json:"status"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// ProductFields are the admin-editable parts of a product. Nil pointers and
// nil slices are left untouched on update.
type ProductFields struct {
	Name        *string
	Image       StringList
	Category    []primitive.ObjectID
	SubCategory []primitive.ObjectID
	Unit        *string
	Stock       *int
	Price       *float64
	Description *string
	Status      *bool
}

// ProductQuery filters a paginated product listing. Empty fields match all.
type ProductQuery struct {
	Search        string
	CategoryID    *primitive.ObjectID
	SubCategoryID *primitive.ObjectID
	Page          int64
	Limit         int64
}
