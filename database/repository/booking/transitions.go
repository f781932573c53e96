// File: database/repository/booking/transitions.go
package bookingRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func (r *mongoBookingRepo) TransitionStatus(ctx context.Context, id string, fromStatuses []string, toStatus string, set map[string]interface{}) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":     id,
		"status": bson.M{"$in": fromStatuses},
	}

	fields := bson.M{
		"status":    toStatus,
		"updatedAt": time.Now().UTC(),
	}
	for k, v := range set {
		fields[k] = v
	}

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": fields})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *mongoBookingRepo) SetJoinedAt(ctx context.Context, id, field string, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Only the caller's own timestamp is written, and only while the
	// booking is accepted, so concurrent joins cannot clobber each other.
	filter := bson.M{
		"id":     id,
		"status": bson.M{"$in": []string{"accepted", "completed_pending_feedback"}},
		field:    nil,
	}
	update := bson.M{"$set": bson.M{
		field:       at.UTC(),
		"updatedAt": time.Now().UTC(),
	}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *mongoBookingRepo) CompleteIfBothJoined(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Single conditional update keyed on both timestamps being non-null;
	// under concurrent joins exactly one caller modifies the document.
	filter := bson.M{
		"id":                   id,
		"status":               "accepted",
		"candidateJoinedAt":    bson.M{"$ne": nil},
		"professionalJoinedAt": bson.M{"$ne": nil},
	}
	update := bson.M{"$set": bson.M{
		"status":    "completed_pending_feedback",
		"updatedAt": time.Now().UTC(),
	}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}
