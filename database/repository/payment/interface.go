// File: database/repository/payment/interface.go
package paymentRepo

import (
	"context"
	"log"

	"monet/database"
	"monet/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// PaymentRepository persists escrow holds, one per booking. State changes
// are conditional updates so repeated settlement attempts cannot move the
// same money twice.
type PaymentRepository interface {
	InsertHold(ctx context.Context, hold *models.EscrowHold) error
	GetByBookingID(ctx context.Context, bookingID string) (*models.EscrowHold, error)

	// MarkReleased moves held -> released recording the transfer reference.
	MarkReleased(ctx context.Context, bookingID, transferRef string) (bool, error)
	// MarkRefunded moves held -> refunded recording the refund reference.
	MarkRefunded(ctx context.Context, bookingID, refundRef string) (bool, error)

	// SetPayoutStatus moves the payout state from one of fromStatuses.
	SetPayoutStatus(ctx context.Context, bookingID string, fromStatuses []string, toStatus string) (bool, error)
	// ListPendingPayouts returns bookings whose payout is marked pending,
	// for the scheduled sweep.
	ListPendingPayouts(ctx context.Context) ([]models.EscrowHold, error)
}

type mongoPaymentRepo struct {
	coll *mongo.Collection
}

// NewMongoPaymentRepo constructs a new MongoDB PaymentRepository.
func NewMongoPaymentRepo() PaymentRepository {
	db := database.MongoClient.Database("monet")
	repo := &mongoPaymentRepo{coll: db.Collection("escrow_holds")}
	if err := repo.ensureIndexes(); err != nil {
		log.Printf("failed to create escrow hold indexes: %v", err)
	}
	return repo
}
