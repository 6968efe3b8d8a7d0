package rulesRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the scheduling
// configuration collections.
func (r *mongoRuleRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ruleIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "staff_id", Value: 1}, {Key: "day_of_week", Value: 1}},
			Options: options.Index().SetName("org_staff_day_idx"),
		},
	}
	if _, err := r.rules.Indexes().CreateMany(ctx, ruleIndexes); err != nil {
		return fmt.Errorf("failed to create rule indexes: %w", err)
	}

	overrideIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "staff_id", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("org_staff_date_idx"),
		},
	}
	if _, err := r.overrides.Indexes().CreateMany(ctx, overrideIndexes); err != nil {
		return fmt.Errorf("failed to create override indexes: %w", err)
	}

	holidayIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "start_date", Value: 1}, {Key: "end_date", Value: 1}},
			Options: options.Index().SetName("org_range_idx"),
		},
	}
	if _, err := r.holidays.Indexes().CreateMany(ctx, holidayIndexes); err != nil {
		return fmt.Errorf("failed to create holiday indexes: %w", err)
	}

	connectionIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "staff_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("org_staff_idx"),
		},
	}
	if _, err := r.connections.Indexes().CreateMany(ctx, connectionIndexes); err != nil {
		return fmt.Errorf("failed to create calendar connection indexes: %w", err)
	}

	return nil
}
