package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates every index the stores rely on. Each collection is
// attempted even when an earlier one fails.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	var firstErr error
	for _, ensure := range []func(context.Context, *mongo.Database) error{
		EnsureUserIndexes,
		EnsureProductIndexes,
		EnsureCartIndexes,
		EnsureAddressIndexes,
		EnsureOrderIndexes,
	} {
		if err := ensure(ctx, db); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func createIndex(ctx context.Context, db *mongo.Database, collection string, model mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	name := ""
	if model.Options != nil && model.Options.Name != nil {
		name = *model.Options.Name
	}

	log.Debug().Str("collection", collection).Str("index", name).Msg("creating index")
	if _, err := db.Collection(collection).Indexes().CreateOne(ctx, model); err != nil {
		log.Warn().Err(err).Str("collection", collection).Str("index", name).Msg("index creation failed")
		return fmt.Errorf("create index %s.%s: %w", collection, name, err)
	}
	log.Debug().Str("collection", collection).Str("index", name).Msg("index ready")
	return nil
}

func EnsureUserIndexes(ctx context.Context, db *mongo.Database) error {
	return createIndex(ctx, db, usersCollection, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	})
}

func EnsureProductIndexes(ctx context.Context, db *mongo.Database) error {
	if err := createIndex(ctx, db, productsCollection, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}},
		Options: options.Index().
			SetName("name_description_text").
			SetWeights(bson.D{{Key: "name", Value: 10}, {Key: "description", Value: 5}}),
	}); err != nil {
		return err
	}
	return createIndex(ctx, db, productsCollection, mongo.IndexModel{
		Keys:    bson.D{{Key: "category", Value: 1}, {Key: "subCategory", Value: 1}},
		Options: options.Index().SetName("category_subCategory_index"),
	})
}

func EnsureCartIndexes(ctx context.Context, db *mongo.Database) error {
	return createIndex(ctx, db, cartCollection, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetName("userId_index"),
	})
}

func EnsureAddressIndexes(ctx context.Context, db *mongo.Database) error {
	return createIndex(ctx, db, addressesCollection, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}},
		Options: options.Index().SetName("userId_status_index"),
	})
}

func EnsureOrderIndexes(ctx context.Context, db *mongo.Database) error {
	if err := createIndex(ctx, db, ordersCollection, mongo.IndexModel{
		Keys: bson.D{{Key: "orderId", Value: 1}},
		Options: options.Index().
			SetName("orderId_unique").
			SetUnique(true),
	}); err != nil {
		return err
	}
	return createIndex(ctx, db, ordersCollection, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("userId_createdAt_index"),
	})
}
