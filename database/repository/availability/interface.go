// File: database/repository/availability/interface.go
package availabilityRepo

import (
	"context"
	"log"

	"monet/database"
	"monet/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// AvailabilityRepository persists one document per (userID, busy) pair so a
// resubmission fully supersedes the old set and no stale overlap survives.
type AvailabilityRepository interface {
	ReplaceSet(ctx context.Context, set models.AvailabilitySet) error
	GetSet(ctx context.Context, userID string, busy bool) (*models.AvailabilitySet, error)
}

type mongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo constructs a new MongoDB AvailabilityRepository.
func NewMongoAvailabilityRepo() AvailabilityRepository {
	db := database.MongoClient.Database("monet")
	repo := &mongoAvailabilityRepo{coll: db.Collection("availability")}
	if err := repo.ensureIndexes(); err != nil {
		log.Printf("failed to create availability indexes: %v", err)
	}
	return repo
}
