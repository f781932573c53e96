// File: database/repository/feedback/crud.go
package feedbackRepo

import (
	"context"
	"time"

	"monet/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoFeedbackRepo) Upsert(ctx context.Context, artifact *models.FeedbackArtifact) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// A passed artifact is immutable; the filter refuses the overwrite.
	filter := bson.M{
		"bookingId": artifact.BookingID,
		"qcStatus":  bson.M{"$ne": models.QCStatusPassed},
	}
	opts := options.Replace().SetUpsert(true)
	res, err := r.coll.ReplaceOne(ctx, filter, artifact, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Upsert raced against an existing passed artifact.
			return false, nil
		}
		return false, err
	}
	return res.ModifiedCount == 1 || res.UpsertedCount == 1, nil
}

func (r *mongoFeedbackRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.FeedbackArtifact, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var artifact models.FeedbackArtifact
	if err := r.coll.FindOne(ctx, bson.M{"bookingId": bookingID}).Decode(&artifact); err != nil {
		return nil, err
	}
	return &artifact, nil
}

func (r *mongoFeedbackRepo) SetQCResult(ctx context.Context, bookingID string, fromStatuses []string, toStatus string, report *models.QCReport) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"bookingId": bookingID,
		"qcStatus":  bson.M{"$in": fromStatuses},
	}
	update := bson.M{"$set": bson.M{
		"qcStatus":  toStatus,
		"qcReport":  report,
		"updatedAt": time.Now().UTC(),
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}
