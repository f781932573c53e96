// File: database/repository/availability/indexes.go
package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// availabilityIndexModels declares the collection's indexes: one document
// per (userId, busy) pair, matching the ReplaceSet upsert filter.
func availabilityIndexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "busy", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *mongoAvailabilityRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, availabilityIndexModels())
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
