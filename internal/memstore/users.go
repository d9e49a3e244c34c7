package memstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"petstore/internal/models"
)

type userRow struct{ models.User }

type Users struct{ db *DB }

func (s *Users) Create(_ context.Context, user *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, row := range s.db.users {
		if row.Email == user.Email {
			return ErrDuplicateEmail
		}
	}

	now := s.db.now()
	user.ID = newID(user.ID)
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
	s.db.users = append(s.db.users, &userRow{User: cloneUser(*user)})
	return nil
}

func (s *Users) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	row := s.byID(id)
	if row == nil {
		return nil, mongo.ErrNoDocuments
	}
	u := cloneUser(row.User)
	return &u, nil
}

func (s *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, row := range s.db.users {
		if row.Email == email {
			u := cloneUser(row.User)
			return &u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *Users) FindSummaries(_ context.Context, ids []primitive.ObjectID) ([]models.UserSummary, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	out := []models.UserSummary{}
	for _, row := range s.db.users {
		if containsID(ids, row.ID) {
			out = append(out, models.UserSummary{ID: row.ID, Name: row.Name, Email: row.Email})
		}
	}
	return out, nil
}

func (s *Users) MarkEmailVerified(_ context.Context, id primitive.ObjectID) (bool, error) {
	matched := s.update(id, func(u *models.User) { u.VerifyEmail = true })
	return matched, nil
}

func (s *Users) RecordLogin(_ context.Context, id primitive.ObjectID, refreshTokenHash string, at time.Time) error {
	s.update(id, func(u *models.User) {
		u.RefreshToken = refreshTokenHash
		u.LastLoginDate = &at
	})
	return nil
}

func (s *Users) SetRefreshToken(_ context.Context, id primitive.ObjectID, refreshTokenHash string) error {
	s.update(id, func(u *models.User) { u.RefreshToken = refreshTokenHash })
	return nil
}

func (s *Users) SetPasswordResetOTP(_ context.Context, id primitive.ObjectID, otp string, expiry time.Time) error {
	s.update(id, func(u *models.User) {
		u.ForgotPasswordOTP = otp
		u.ForgotPasswordExpiry = &expiry
	})
	return nil
}

func (s *Users) ResetPassword(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	s.update(id, func(u *models.User) {
		u.Password = passwordHash
		u.ForgotPasswordOTP = ""
		u.ForgotPasswordExpiry = nil
	})
	return nil
}

func (s *Users) UpdateProfile(_ context.Context, id primitive.ObjectID, update models.UserProfileUpdate) (models.UpdateResult, error) {
	matched := s.update(id, func(u *models.User) {
		if update.Name != "" {
			u.Name = update.Name
		}
		if update.Email != "" {
			u.Email = update.Email
		}
		if update.Mobile != nil {
			m := *update.Mobile
			u.Mobile = &m
		}
		if update.Password != "" {
			u.Password = update.Password
		}
		if update.Avatar != "" {
			u.Avatar = update.Avatar
		}
	})
	return result(matched), nil
}

func (s *Users) PushCartItem(_ context.Context, userID, cartItemID primitive.ObjectID) error {
	s.update(userID, func(u *models.User) { u.ShoppingCart = append(u.ShoppingCart, cartItemID) })
	return nil
}

func (s *Users) PullCartItem(_ context.Context, userID, cartItemID primitive.ObjectID) error {
	s.update(userID, func(u *models.User) { u.ShoppingCart = removeID(u.ShoppingCart, cartItemID) })
	return nil
}

func (s *Users) ClearCart(_ context.Context, userID primitive.ObjectID) error {
	s.update(userID, func(u *models.User) { u.ShoppingCart = []primitive.ObjectID{} })
	return nil
}

func (s *Users) PushAddress(_ context.Context, userID, addressID primitive.ObjectID) error {
	s.update(userID, func(u *models.User) { u.AddressDetails = append(u.AddressDetails, addressID) })
	return nil
}

func (s *Users) update(id primitive.ObjectID, fn func(*models.User)) bool {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	row := s.byID(id)
	if row == nil {
		return false
	}
	fn(&row.User)
	row.UpdatedAt = s.db.now()
	return true
}

func (s *Users) byID(id primitive.ObjectID) *userRow {
	for _, row := range s.db.users {
		if row.ID == id {
			return row
		}
	}
	return nil
}

func cloneUser(u models.User) models.User {
	u.AddressDetails = cloneIDs(u.AddressDetails)
	u.ShoppingCart = cloneIDs(u.ShoppingCart)
	u.OrderHistory = cloneIDs(u.OrderHistory)
	return u
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func result(matched bool) models.UpdateResult {
	if !matched {
		return models.UpdateResult{}
	}
	return models.UpdateResult{MatchedCount: 1, ModifiedCount: 1}
}

// SetStatus changes an account status. Only tests and seeding need it; the
// API has no operation for it.
func (s *Users) SetStatus(id primitive.ObjectID, status string) {
	s.update(id, func(u *models.User) { u.Status = status })
}
