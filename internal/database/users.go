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

type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection(usersCollection)}
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.AddressDetails == nil {
		user.AddressDetails = []primitive.ObjectID{}
	}
	if user.ShoppingCart == nil {
		user.ShoppingCart = []primitive.ObjectID{}
	}
	if user.OrderHistory == nil {
		user.OrderHistory = []primitive.ObjectID{}
	}

	if _, err := s.coll.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := s.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) FindSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.UserSummary, error) {
	if len(ids) == 0 {
		return []models.UserSummary{}, nil
	}

	opts := options.Find().SetProjection(bson.M{"name": 1, "email": 1})
	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	summaries := []models.UserSummary{}
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return summaries, nil
}

func (s *UserStore) MarkEmailVerified(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := s.set(ctx, id, bson.M{"verify_email": true})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (s *UserStore) RecordLogin(ctx context.Context, id primitive.ObjectID, refreshTokenHash string, at time.Time) error {
	_, err := s.set(ctx, id, bson.M{"refresh_token": refreshTokenHash, "last_login_date": at})
	return err
}

func (s *UserStore) SetRefreshToken(ctx context.Context, id primitive.ObjectID, refreshTokenHash string) error {
	_, err := s.set(ctx, id, bson.M{"refresh_token": refreshTokenHash})
	return err
}

func (s *UserStore) SetPasswordResetOTP(ctx context.Context, id primitive.ObjectID, otp string, expiry time.Time) error {
	_, err := s.set(ctx, id, bson.M{"forgot_password_otp": otp, "forgot_password_expiry": expiry})
	return err
}

// ResetPassword stores the new hash and burns the one-time code.
func (s *UserStore) ResetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	_, err := s.coll.UpdateByID(ctx, id, bson.M{
		"$set":   bson.M{"password": passwordHash, "updatedAt": time.Now()},
		"$unset": bson.M{"forgot_password_otp": "", "forgot_password_expiry": ""},
	})
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

func (s *UserStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, update models.UserProfileUpdate) (models.UpdateResult, error) {
	fields := bson.M{}
	if update.Name != "" {
		fields["name"] = update.Name
	}
	if update.Email != "" {
		fields["email"] = update.Email
	}
	if update.Mobile != nil {
		fields["mobile"] = *update.Mobile
	}
	if update.Password != "" {
		fields["password"] = update.Password
	}
	if update.Avatar != "" {
		fields["avatar"] = update.Avatar
	}
	return s.set(ctx, id, fields)
}

func (s *UserStore) PushCartItem(ctx context.Context, userID, cartItemID primitive.ObjectID) error {
	return s.modify(ctx, userID, bson.M{"$push": bson.M{"shopping_cart": cartItemID}})
}

func (s *UserStore) PullCartItem(ctx context.Context, userID, cartItemID primitive.ObjectID) error {
	return s.modify(ctx, userID, bson.M{"$pull": bson.M{"shopping_cart": cartItemID}})
}

func (s *UserStore) ClearCart(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.set(ctx, userID, bson.M{"shopping_cart": []primitive.ObjectID{}})
	return err
}

func (s *UserStore) PushAddress(ctx context.Context, userID, addressID primitive.ObjectID) error {
	return s.modify(ctx, userID, bson.M{"$push": bson.M{"address_details": addressID}})
}

func (s *UserStore) set(ctx context.Context, id primitive.ObjectID, fields bson.M) (models.UpdateResult, error) {
	fields["updatedAt"] = time.Now()
	res, err := s.coll.UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("update user %s: %w", id.Hex(), err)
	}
	return updateResult(res), nil
}

func (s *UserStore) modify(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	update["$set"] = bson.M{"updatedAt": time.Now()}
	if _, err := s.coll.UpdateByID(ctx, id, update); err != nil {
		return fmt.Errorf("update user %s: %w", id.Hex(), err)
	}
	return nil
}
