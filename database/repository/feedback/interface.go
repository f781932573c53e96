// File: database/repository/feedback/interface.go
package feedbackRepo

import (
	"context"
	"log"

	"monet/database"
	"monet/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// FeedbackRepository persists feedback artifacts, one per booking. The QC
// status field is mutated only through conditional updates so concurrent
// rechecks settle on exactly one verdict application.
type FeedbackRepository interface {
	// Upsert overwrites the artifact unless QC has already passed.
	Upsert(ctx context.Context, artifact *models.FeedbackArtifact) (bool, error)
	GetByBookingID(ctx context.Context, bookingID string) (*models.FeedbackArtifact, error)

	// SetQCResult moves qcStatus from one of fromStatuses, writing the new
	// status and report atomically.
	SetQCResult(ctx context.Context, bookingID string, fromStatuses []string, toStatus string, report *models.QCReport) (bool, error)
}

type mongoFeedbackRepo struct {
	coll *mongo.Collection
}

// NewMongoFeedbackRepo constructs a new MongoDB FeedbackRepository.
func NewMongoFeedbackRepo() FeedbackRepository {
	db := database.MongoClient.Database("monet")
	repo := &mongoFeedbackRepo{coll: db.Collection("feedback")}
	if err := repo.ensureIndexes(); err != nil {
		log.Printf("failed to create feedback indexes: %v", err)
	}
	return repo
}
