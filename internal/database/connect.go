package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"petstore/internal/models"
)

const (
	usersCollection         = "users"
	cartCollection          = "cartproducts"
	addressesCollection     = "addresses"
	ordersCollection        = "orders"
	categoriesCollection    = "categories"
	subCategoriesCollection = "subcategories"
	productsCollection      = "products"
)

func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	log.Info().Msg("MongoDB connected")
	return client, nil
}

// Health pings the primary with a short timeout.
type Health struct {
	client *mongo.Client
}

func NewHealth(client *mongo.Client) *Health {
	return &Health{client: client}
}

func (h *Health) Ping(ctx context.Context) error {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return h.client.Ping(checkCtx, readpref.Primary())
}

func updateResult(res *mongo.UpdateResult) models.UpdateResult {
	if res == nil {
		return models.UpdateResult{}
	}
	return models.UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}
}
