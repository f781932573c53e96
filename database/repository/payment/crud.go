// File: database/repository/payment/crud.go
package paymentRepo

import (
	"context"
	"time"

	"monet/models"

	"go.mongodb.org/mongo-driver/bson"
)

func (r *mongoPaymentRepo) InsertHold(ctx context.Context, hold *models.EscrowHold) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, hold)
	return err
}

func (r *mongoPaymentRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.EscrowHold, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var hold models.EscrowHold
	if err := r.coll.FindOne(ctx, bson.M{"bookingId": bookingID}).Decode(&hold); err != nil {
		return nil, err
	}
	return &hold, nil
}

func (r *mongoPaymentRepo) MarkReleased(ctx context.Context, bookingID, transferRef string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"bookingId": bookingID, "status": models.EscrowStatusHeld}
	update := bson.M{"$set": bson.M{
		"status":      models.EscrowStatusReleased,
		"transferRef": transferRef,
		"updatedAt":   time.Now().UTC(),
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *mongoPaymentRepo) MarkRefunded(ctx context.Context, bookingID, refundRef string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"bookingId": bookingID, "status": models.EscrowStatusHeld}
	update := bson.M{"$set": bson.M{
		"status":    models.EscrowStatusRefunded,
		"refundRef": refundRef,
		"updatedAt": time.Now().UTC(),
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *mongoPaymentRepo) SetPayoutStatus(ctx context.Context, bookingID string, fromStatuses []string, toStatus string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"bookingId":    bookingID,
		"payoutStatus": bson.M{"$in": fromStatuses},
	}
	update := bson.M{"$set": bson.M{
		"payoutStatus": toStatus,
		"updatedAt":    time.Now().UTC(),
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *mongoPaymentRepo) ListPendingPayouts(ctx context.Context) ([]models.EscrowHold, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"payoutStatus": models.PayoutStatusPending})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var holds []models.EscrowHold
	if err := cursor.All(ctx, &holds); err != nil {
		return nil, err
	}
	return holds, nil
}
