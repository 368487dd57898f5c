package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureStoreIndexes indexes the key-value collection by write time so stale
// collections can be spotted from the shell.
func EnsureStoreIndexes(db *mongo.Database, collection string, log *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection(collection).Indexes()

	updatedAtIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "updatedAt", Value: -1}},
		Options: options.Index().SetName("updatedAt_index"),
	}

	log.Info("EnsureStoreIndexes: creating updatedAt_index", zap.String("collection", collection))
	if _, err := indexes.CreateOne(ctx, updatedAtIndex); err != nil {
		log.Error("EnsureStoreIndexes: updatedAt index error", zap.Error(err))
		return err
	}
	log.Info("EnsureStoreIndexes: updatedAt_index created")
	return nil
}
