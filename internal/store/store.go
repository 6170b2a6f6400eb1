// Package store abstracts the record store behind a small handle that
// services receive explicitly, so none of them reads ambient database state.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
)

// ErrNotFound is returned by FindOne when no document matches the filter.
var ErrNotFound = errors.New("store: document not found")

// Store is the record-store handle. Filters and field sets use bson.M;
// UpdateOne applies set as a $set and reports how many documents matched,
// which is what lets callers do conditional (compare-and-set) updates.
type Store interface {
	Insert(ctx context.Context, collection string, doc interface{}) error
	FindOne(ctx context.Context, collection string, filter bson.M, out interface{}) error
	Find(ctx context.Context, collection string, filter bson.M, sort bson.D, out interface{}) error
	UpdateOne(ctx context.Context, collection string, filter, set bson.M) (int64, error)
	Count(ctx context.Context, collection string, filter bson.M) (int64, error)
}
