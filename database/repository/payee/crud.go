// File: database/repository/payee/crud.go
package payeeRepo

import (
	"context"
	"time"

	"monet/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoPayeeRepo) Upsert(ctx context.Context, profile *models.PayoutProfile) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	profile.UpdatedAt = time.Now().UTC()
	filter := bson.M{"professionalId": profile.ProfessionalID}
	opts := options.Replace().SetUpsert(true)
	_, err := r.coll.ReplaceOne(ctx, filter, profile, opts)
	return err
}

func (r *mongoPayeeRepo) GetByProfessionalID(ctx context.Context, professionalID string) (*models.PayoutProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var profile models.PayoutProfile
	if err := r.coll.FindOne(ctx, bson.M{"professionalId": professionalID}).Decode(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
