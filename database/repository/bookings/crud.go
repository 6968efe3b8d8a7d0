package bookingsRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"gymflow/models"
)

func (r *mongoBookingRepo) Insert(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	booking.SyncBlockedWindow()
	booking.CreatedAt = time.Now().UTC()
	_, err := r.bookings.InsertOne(ctx, booking)
	return err
}

func (r *mongoBookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	booking.SyncBlockedWindow()
	booking.UpdatedAt = time.Now().UTC()
	filter := bson.M{"id": booking.ID, "organization_id": booking.OrganizationID}
	res, err := r.bookings.ReplaceOne(ctx, filter, booking)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoBookingRepo) GetByID(ctx context.Context, orgID, id string) (*models.Booking, error) {
	var booking models.Booking
	err := r.bookings.FindOne(ctx, bson.M{"id": id, "organization_id": orgID}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *mongoBookingRepo) ClaimSlot(ctx context.Context, orgID, staffID string, start time.Time, bookingID string) error {
	claim := bson.M{
		"organization_id": orgID,
		"staff_id":        staffID,
		"start_time":      start,
		"booking_id":      bookingID,
		"created_at":      time.Now().UTC(),
	}
	_, err := r.claims.InsertOne(ctx, claim)
	if mongo.IsDuplicateKeyError(err) {
		return ErrSlotTaken
	}
	return err
}

func (r *mongoBookingRepo) ReleaseClaim(ctx context.Context, orgID, staffID string, start time.Time) error {
	filter := bson.M{"organization_id": orgID, "staff_id": staffID, "start_time": start}
	_, err := r.claims.DeleteOne(ctx, filter)
	return err
}
