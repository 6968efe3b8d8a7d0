package bookingsRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the bookings and
// slot_claims collections. The unique claim index is the constraint-level
// backstop for the double-booking invariant.
func (r *mongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	bookingIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "staff_id", Value: 1}, {Key: "blocked_start", Value: 1}, {Key: "blocked_end", Value: 1}},
			Options: options.Index().SetName("org_staff_blocked_idx"),
		},
		{
			Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "session_id", Value: 1}, {Key: "status", Value: 1}, {Key: "requested_at", Value: 1}},
			Options: options.Index().SetName("org_session_status_idx"),
		},
	}
	if _, err := r.bookings.Indexes().CreateMany(ctx, bookingIndexes); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}

	claimIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "staff_id", Value: 1}, {Key: "start_time", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_staff_start"),
		},
	}
	if _, err := r.claims.Indexes().CreateMany(ctx, claimIndexes); err != nil {
		return fmt.Errorf("failed to create slot claim indexes: %w", err)
	}

	return nil
}
