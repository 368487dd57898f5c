package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// KVCollection is the Mongo collection holding one document per key.
const KVCollection = "kv"

type kvDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(KVCollection)}
}

func (s *MongoStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var doc kvDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(doc.Value), true, nil
}

func (s *MongoStore) Set(ctx context.Context, key string, value []byte) error {
	doc := kvDocument{
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now().UTC(),
	}

	_, err := s.coll.ReplaceOne(
		ctx,
		bson.M{"_id": key},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}
