// Package memstore keeps every collection in process memory for tests. It
// reports misses with mongo.ErrNoDocuments like the Mongo stores do.
package memstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrDuplicateEmail = errors.New("memstore: duplicate email")

// DB holds the collections. The zero value is not usable; call New.
type DB struct {
	mu  sync.Mutex
	now func() time.Time

	users         []*userRow
	carts         []*cartRow
	addresses     []*addressRow
	orders        []*orderRow
	categories    []*categoryRow
	subCategories []*subCategoryRow
	products      []*productRow

	Users         *Users
	Carts         *Carts
	Addresses     *Addresses
	Orders        *Orders
	Categories    *Categories
	SubCategories *SubCategories
	Products      *Products
}

func New() *DB {
	db := &DB{now: time.Now}
	db.Users = &Users{db: db}
	db.Carts = &Carts{db: db}
	db.Addresses = &Addresses{db: db}
	db.Orders = &Orders{db: db}
	db.Categories = &Categories{db: db}
	db.SubCategories = &SubCategories{db: db}
	db.Products = &Products{db: db}
	return db
}

func newID(id primitive.ObjectID) primitive.ObjectID {
	if id.IsZero() {
		return primitive.NewObjectID()
	}
	return id
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func cloneIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	if ids == nil {
		return nil
	}
	out := make([]primitive.ObjectID, len(ids))
	copy(out, ids)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Ping always succeeds.
func (db *DB) Ping(context.Context) error { return nil }
