// File: database/repository/payee/interface.go
package payeeRepo

import (
	"context"
	"log"

	"monet/database"
	"monet/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// PayeeRepository stores professionals' payable destinations.
type PayeeRepository interface {
	Upsert(ctx context.Context, profile *models.PayoutProfile) error
	GetByProfessionalID(ctx context.Context, professionalID string) (*models.PayoutProfile, error)
}

type mongoPayeeRepo struct {
	coll *mongo.Collection
}

// NewMongoPayeeRepo constructs a new MongoDB PayeeRepository.
func NewMongoPayeeRepo() PayeeRepository {
	db := database.MongoClient.Database("monet")
	repo := &mongoPayeeRepo{coll: db.Collection("payout_profiles")}
	if err := repo.ensureIndexes(); err != nil {
		log.Printf("failed to create payout profile indexes: %v", err)
	}
	return repo
}
