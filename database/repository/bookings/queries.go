package bookingsRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gymflow/models"
)

func (r *mongoBookingRepo) ListBlockingForStaff(ctx context.Context, orgID, staffID string, from, to time.Time, excludeID string) ([]models.Booking, error) {
	filter := bson.M{
		"organization_id": orgID,
		"staff_id":        staffID,
		"status":          bson.M{"$in": []string{models.BookingStatusConfirmed, models.BookingStatusCheckedIn}},
		"blocked_start":   bson.M{"$lt": to},
		"blocked_end":     bson.M{"$gt": from},
	}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	return r.findBookings(ctx, filter, options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}}))
}

func (r *mongoBookingRepo) ListBlockingForClient(ctx context.Context, orgID, clientID string, from, to time.Time, excludeID string) ([]models.Booking, error) {
	filter := bson.M{
		"organization_id": orgID,
		"client_id":       clientID,
		"status":          bson.M{"$in": []string{models.BookingStatusConfirmed, models.BookingStatusCheckedIn}},
		"start_time":      bson.M{"$lt": to},
		"end_time":        bson.M{"$gt": from},
	}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	return r.findBookings(ctx, filter, options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}}))
}

func (r *mongoBookingRepo) ListForStaffRange(ctx context.Context, orgID, staffID string, from, to time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"organization_id": orgID,
		"staff_id":        staffID,
		"start_time":      bson.M{"$gte": from, "$lt": to},
	}
	return r.findBookings(ctx, filter, options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}}))
}

func (r *mongoBookingRepo) ListBySession(ctx context.Context, orgID, sessionID string, statuses ...string) ([]models.Booking, error) {
	filter := bson.M{
		"organization_id": orgID,
		"session_id":      sessionID,
	}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	return r.findBookings(ctx, filter, options.Find().SetSort(bson.D{{Key: "requested_at", Value: 1}}))
}

func (r *mongoBookingRepo) ListWaitlist(ctx context.Context, orgID, sessionID string) ([]models.Booking, error) {
	return r.ListBySession(ctx, orgID, sessionID, models.BookingStatusWaitlisted)
}

func (r *mongoBookingRepo) findBookings(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Booking, error) {
	cursor, err := r.bookings.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}
