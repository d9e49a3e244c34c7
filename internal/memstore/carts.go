package memstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"petstore/internal/models"
)

type cartRow struct{ models.CartItem }

type Carts struct{ db *DB }

func (s *Carts) Insert(_ context.Context, item *models.CartItem) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	now := s.db.now()
	item.ID = newID(item.ID)
	item.CreatedAt = now
	item.UpdatedAt = now
	s.db.carts = append(s.db.carts, &cartRow{CartItem: *item})
	return nil
}

// ListByUser returns rows oldest first with the product joined in.
func (s *Carts) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.CartLine, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	lines := []models.CartLine{}
	for _, row := range s.db.carts {
		if row.UserID != userID {
			continue
		}
		line := models.CartLine{
			ID:        row.ID,
			UserID:    row.UserID,
			Quantity:  row.Quantity,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		}
		if p := s.db.Products.byID(row.ProductID); p != nil {
			product := cloneProduct(p.Product)
			product.InStock = product.Stock > 0
			line.Product = &product
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *Carts) UpdateQuantity(_ context.Context, userID, id primitive.ObjectID, quantity int) (models.UpdateResult, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, row := range s.db.carts {
		if row.ID == id && row.UserID == userID {
			row.Quantity = quantity
			row.UpdatedAt = s.db.now()
			return result(true), nil
		}
	}
	return result(false), nil
}

func (s *Carts) Delete(_ context.Context, userID, id primitive.ObjectID) (int64, error) {
	return s.deleteWhere(func(row *cartRow) bool { return row.ID == id && row.UserID == userID }), nil
}

func (s *Carts) DeleteByUser(_ context.Context, userID primitive.ObjectID) (int64, error) {
	return s.deleteWhere(func(row *cartRow) bool { return row.UserID == userID }), nil
}

func (s *Carts) deleteWhere(match func(*cartRow) bool) int64 {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var deleted int64
	kept := s.db.carts[:0]
	for _, row := range s.db.carts {
		if match(row) {
			deleted++
			continue
		}
		kept = append(kept, row)
	}
	s.db.carts = kept
	return deleted
}

// Count reports how many rows exist for the user.
func (s *Carts) Count(userID primitive.ObjectID) int {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	n := 0
	for _, row := range s.db.carts {
		if row.UserID == userID {
			n++
		}
	}
	return n
}
