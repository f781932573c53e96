// File: database/repository/booking/indexes.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// bookingIndexModels declares the collection's indexes: a unique id for the
// CAS transitions, plus participant lookups for ListByParticipant.
func bookingIndexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "candidateId", Value: 1}}},
		{Keys: bson.D{{Key: "professionalId", Value: 1}}},
	}
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *mongoBookingRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, bookingIndexModels())
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
