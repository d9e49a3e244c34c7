package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"

	UserStatusActive    = "Active"
	UserStatusInactive  = "Inactive"
	UserStatusSuspended = "Suspended"
)

// User represents a storefront account. Admins are users with RoleAdmin.
type User struct {
	ID                   primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name                 string               `bson:"name" json:"name"`
	Email                string               `bson:"email" json:"email"`
	Password             string               `bson:"password" json:"-"`
	Avatar               string               `bson:"avatar" json:"avatar"`
	Mobile               *int64               `bson:"mobile" json:"mobile"`
	RefreshToken         string               `bson:"refresh_token" json:"-"`
	VerifyEmail          bool                 `bson:"verify_email" json:"verify_email"`
	LastLoginDate        *time.Time           `bson:"last_login_date,omitempty" json:"last_login_date,omitempty"`
	Status               string               `bson:"status" json:"status"`
	AddressDetails       []primitive.ObjectID `bson:"address_details" json:"address_details"`
	ShoppingCart         []primitive.ObjectID `bson:"shopping_cart" json:"shopping_cart"`
	OrderHistory         []primitive.ObjectID `bson:"orderHistory" json:"orderHistory"`
	ForgotPasswordOTP    string               `bson:"forgot_password_otp,omitempty" json:"-"`
	ForgotPasswordExpiry *time.Time           `bson:"forgot_password_expiry,omitempty" json:"-"`
	Role                 string               `bson:"role" json:"role"`
	CreatedAt            time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserProfileUpdate carries the optional fields a user may change on their own
// profile. Nil or empty values are left untouched.
type UserProfileUpdate struct {
	Name     string
	Email    string
	Mobile   *int64
	Password string // bcrypt hash
	Avatar   string
}

// UserSummary is the projection attached to orders in the admin listing.
type UserSummary struct {
	ID    primitive.ObjectID `bson:"_id" json:"_id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
}
