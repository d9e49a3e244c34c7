package handlers

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"petstore/internal/models"
)

// Stores return mongo.ErrNoDocuments when a single-document lookup misses.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.UserSummary, error)
	MarkEmailVerified(ctx context.Context, id primitive.ObjectID) (bool, error)
	RecordLogin(ctx context.Context, id primitive.ObjectID, refreshTokenHash string, at time.Time) error
	SetRefreshToken(ctx context.Context, id primitive.ObjectID, refreshTokenHash string) error
	SetPasswordResetOTP(ctx context.Context, id primitive.ObjectID, otp string, expiry time.Time) error
	ResetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update models.UserProfileUpdate) (models.UpdateResult, error)
	PushCartItem(ctx context.Context, userID, cartItemID primitive.ObjectID) error
	PullCartItem(ctx context.Context, userID, cartItemID primitive.ObjectID) error
	ClearCart(ctx context.Context, userID primitive.ObjectID) error
	PushAddress(ctx context.Context, userID, addressID primitive.ObjectID) error
}

type CartStore interface {
	Insert(ctx context.Context, item *models.CartItem) error
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.CartLine, error)
	UpdateQuantity(ctx context.Context, userID, id primitive.ObjectID, quantity int) (models.UpdateResult, error)
	Delete(ctx context.Context, userID, id primitive.ObjectID) (int64, error)
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type AddressStore interface {
	Insert(ctx context.Context, address *models.Address) error
	ListActive(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Address, error)
	Update(ctx context.Context, userID, id primitive.ObjectID, fields models.AddressFields) (models.UpdateResult, error)
	Disable(ctx context.Context, userID, id primitive.ObjectID) (models.UpdateResult, error)
}

type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) error
	// List returns orders newest first. A nil userID lists every order.
	List(ctx context.Context, userID *primitive.ObjectID) ([]models.Order, error)
	FindByOrderID(ctx context.Context, orderID string) (*models.Order, error)
	// UpdateStatus returns nil without error when no order matches.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error)
}

type CategoryStore interface {
	Insert(ctx context.Context, category *models.Category) error
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, id primitive.ObjectID, name, image string) (models.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

type SubCategoryStore interface {
	Insert(ctx context.Context, sub *models.SubCategory) error
	List(ctx context.Context) ([]models.SubCategoryView, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.SubCategory, error)
	Update(ctx context.Context, id primitive.ObjectID, name, image string, categories []primitive.ObjectID) (models.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error)
}

type ProductStore interface {
	Insert(ctx context.Context, product *models.Product) error
	List(ctx context.Context, query models.ProductQuery) ([]models.Product, int64, error)
	ListByCategory(ctx context.Context, categoryID primitive.ObjectID, limit int64) ([]models.Product, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, fields models.ProductFields) (models.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error)
}

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
