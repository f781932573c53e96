// File: database/repository/payee/indexes.go
package payeeRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// payeeIndexModels declares the collection's indexes: one payout profile
// per professional, matching the Upsert filter.
func payeeIndexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "professionalId", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *mongoPayeeRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, payeeIndexModels())
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
