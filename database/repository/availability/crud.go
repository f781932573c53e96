// File: database/repository/availability/crud.go
package availabilityRepo

import (
	"context"
	"time"

	"monet/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoAvailabilityRepo) ReplaceSet(ctx context.Context, set models.AvailabilitySet) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"userId": set.UserID, "busy": set.Busy}
	opts := options.Replace().SetUpsert(true)
	_, err := r.coll.ReplaceOne(ctx, filter, set, opts)
	return err
}

func (r *mongoAvailabilityRepo) GetSet(ctx context.Context, userID string, busy bool) (*models.AvailabilitySet, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"userId": userID, "busy": busy}
	var set models.AvailabilitySet
	err := r.coll.FindOne(ctx, filter).Decode(&set)
	if err == mongo.ErrNoDocuments {
		// An absent document is an empty set, not an error.
		return &models.AvailabilitySet{UserID: userID, Busy: busy}, nil
	}
	if err != nil {
		return nil, err
	}
	return &set, nil
}
