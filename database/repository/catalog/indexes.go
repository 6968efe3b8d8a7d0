package catalogRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the catalog collections.
func (r *mongoCatalogRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	typeIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "active", Value: 1}},
			Options: options.Index().SetName("org_active_idx"),
		},
	}
	if _, err := r.types.Indexes().CreateMany(ctx, typeIndexes); err != nil {
		return fmt.Errorf("failed to create appointment type indexes: %w", err)
	}

	sessionIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "start_time", Value: 1}},
			Options: options.Index().SetName("org_start_idx"),
		},
	}
	if _, err := r.sessions.Indexes().CreateMany(ctx, sessionIndexes); err != nil {
		return fmt.Errorf("failed to create class session indexes: %w", err)
	}

	return nil
}
