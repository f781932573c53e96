// File: database/repository/feedback/indexes.go
package feedbackRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// feedbackIndexModels declares the collection's indexes. The unique
// bookingId index backs one-artifact-per-booking: the Upsert filter refuses
// to overwrite a passed artifact, and this index turns the racing insert
// into a duplicate-key error instead of a second document.
func feedbackIndexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "bookingId", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *mongoFeedbackRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, feedbackIndexModels())
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
