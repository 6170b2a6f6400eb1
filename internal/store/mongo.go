package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Mongo implements Store on top of a mongo database.
type Mongo struct {
	db *mongo.Database
}

// Connect opens the MongoDB connection, pings it, and returns the store plus
// a disconnect function for main's defer.
func Connect(ctx context.Context, uri, dbName string) (*Mongo, func(context.Context) error, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	log.Println("Connected to MongoDB!")
	return &Mongo{db: client.Database(dbName)}, client.Disconnect, nil
}

// EnsureIndexes creates the indexes the payment paths rely on, in particular
// the unique index on checkout_request_id.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	txnIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "checkout_request_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "payment_type", Value: 1}, {Key: "reference_id", Value: 1}, {Key: "status", Value: 1}}},
	}
	if _, err := m.db.Collection("mpesa_transactions").Indexes().CreateMany(ctx, txnIndexes); err != nil {
		return fmt.Errorf("create transaction indexes: %w", err)
	}

	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := m.db.Collection("users").Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

func (m *Mongo) Insert(ctx context.Context, collection string, doc interface{}) error {
	_, err := m.db.Collection(collection).InsertOne(ctx, doc)
	return err
}

func (m *Mongo) FindOne(ctx context.Context, collection string, filter bson.M, out interface{}) error {
	err := m.db.Collection(collection).FindOne(ctx, filter).Decode(out)
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	return err
}

func (m *Mongo) Find(ctx context.Context, collection string, filter bson.M, sort bson.D, out interface{}) error {
	opts := options.Find()
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	cur, err := m.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	return cur.All(ctx, out)
}

func (m *Mongo) UpdateOne(ctx context.Context, collection string, filter, set bson.M) (int64, error) {
	res, err := m.db.Collection(collection).UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (m *Mongo) Count(ctx context.Context, collection string, filter bson.M) (int64, error) {
	return m.db.Collection(collection).CountDocuments(ctx, filter)
}
