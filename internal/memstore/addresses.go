package memstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"petstore/internal/models"
)

type addressRow struct{ models.Address }

type Addresses struct{ db *DB }

func (s *Addresses) Insert(_ context.Context, address *models.Address) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	now := s.db.now()
	address.ID = newID(address.ID)
	address.CreatedAt = now
	address.UpdatedAt = now
	s.db.addresses = append(s.db.addresses, &addressRow{Address: *address})
	return nil
}

// ListActive returns the user's enabled addresses, newest first.
func (s *Addresses) ListActive(_ context.Context, userID primitive.ObjectID) ([]models.Address, error) {
	return s.collect(func(a models.Address) bool { return a.UserID == userID && a.Status }), nil
}

// FindByIDs resolves addresses regardless of status.
func (s *Addresses) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Address, error) {
	return s.collect(func(a models.Address) bool { return containsID(ids, a.ID) }), nil
}

func (s *Addresses) Update(_ context.Context, userID, id primitive.ObjectID, fields models.AddressFields) (models.UpdateResult, error) {
	return s.update(userID, id, fields.ApplyTo), nil
}

func (s *Addresses) Disable(_ context.Context, userID, id primitive.ObjectID) (models.UpdateResult, error) {
	return s.update(userID, id, func(a *models.Address) { a.Status = false }), nil
}

// Get returns a stored address by id, including disabled ones.
func (s *Addresses) Get(id primitive.ObjectID) (models.Address, bool) {
	list := s.collect(func(a models.Address) bool { return a.ID == id })
	if len(list) == 0 {
		return models.Address{}, false
	}
	return list[0], true
}

func (s *Addresses) update(userID, id primitive.ObjectID, fn func(*models.Address)) models.UpdateResult {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, row := range s.db.addresses {
		if row.ID == id && row.UserID == userID {
			fn(&row.Address)
			row.UpdatedAt = s.db.now()
			return result(true)
		}
	}
	return result(false)
}

func (s *Addresses) collect(match func(models.Address) bool) []models.Address {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	out := []models.Address{}
	for i := len(s.db.addresses) - 1; i >= 0; i-- {
		if a := s.db.addresses[i].Address; match(a) {
			out = append(out, a)
		}
	}
	return out
}
