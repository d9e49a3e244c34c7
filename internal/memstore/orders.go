package memstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"petstore/internal/models"
)

type orderRow struct{ models.Order }

type Orders struct{ db *DB }

func (s *Orders) Insert(_ context.Context, order *models.Order) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	now := s.db.now()
	order.ID = newID(order.ID)
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	order.CreatedAt = now
	order.UpdatedAt = now
	s.db.orders = append(s.db.orders, &orderRow{Order: cloneOrder(*order)})
	return nil
}

func (s *Orders) List(_ context.Context, userID *primitive.ObjectID) ([]models.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	out := []models.Order{}
	for i := len(s.db.orders) - 1; i >= 0; i-- {
		row := s.db.orders[i]
		if userID != nil && row.UserID != *userID {
			continue
		}
		out = append(out, cloneOrder(row.Order))
	}
	return out, nil
}

func (s *Orders) FindByOrderID(_ context.Context, orderID string) (*models.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, row := range s.db.orders {
		if row.OrderID == orderID {
			o := cloneOrder(row.Order)
			return &o, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *Orders) UpdateStatus(_ context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, row := range s.db.orders {
		if row.ID == id {
			row.Status = status
			row.UpdatedAt = s.db.now()
			o := cloneOrder(row.Order)
			return &o, nil
		}
	}
	return nil, nil
}

func cloneOrder(o models.Order) models.Order {
	lines := make([]models.OrderLine, len(o.Products))
	for i, line := range o.Products {
		line.ProductDetails = models.NewProductSnapshot(line.ProductDetails.Name, line.ProductDetails.Image)
		lines[i] = line
	}
	o.Products = lines
	return o
}
