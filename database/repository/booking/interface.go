// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"log"
	"time"

	"monet/database"
	"monet/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// BookingRepository persists bookings and performs the conditional updates
// that serialize each booking's state machine. Every transition method is a
// compare-and-set keyed on the expected current status; the boolean result
// reports whether this caller won the transition.
type BookingRepository interface {
	Insert(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListByParticipant(ctx context.Context, userID string) ([]models.Booking, error)

	// TransitionStatus moves id from one of fromStatuses to toStatus,
	// applying extra field updates atomically with the status change.
	TransitionStatus(ctx context.Context, id string, fromStatuses []string, toStatus string, set map[string]interface{}) (bool, error)

	// SetJoinedAt records one party's join timestamp while the booking is
	// still accepted. It never clears the other party's timestamp.
	SetJoinedAt(ctx context.Context, id, field string, at time.Time) (bool, error)

	// CompleteIfBothJoined flips accepted -> completed_pending_feedback iff
	// both join timestamps are non-null. Under concurrent joins exactly one
	// caller observes true.
	CompleteIfBothJoined(ctx context.Context, id string) (bool, error)
}

// Join timestamp field names used with SetJoinedAt.
const (
	FieldCandidateJoinedAt    = "candidateJoinedAt"
	FieldProfessionalJoinedAt = "professionalJoinedAt"
)

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoDB BookingRepository.
func NewMongoBookingRepo() BookingRepository {
	db := database.MongoClient.Database("monet")
	repo := &mongoBookingRepo{coll: db.Collection("bookings")}
	if err := repo.ensureIndexes(); err != nil {
		log.Printf("failed to create booking indexes: %v", err)
	}
	return repo
}
