package bookingsRepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"gymflow/database"
	"gymflow/models"
	"gymflow/utils"
)

// ErrSlotTaken is returned when a slot claim hits the unique index, i.e. a
// concurrent booking already holds the same staff/start tuple.
var ErrSlotTaken = errors.New("slot already claimed")

// ErrNotFound is returned when a scoped booking does not exist.
var ErrNotFound = errors.New("booking not found")

// BookingRepository is the persistence port for bookings, the waitlist and
// slot claims. The commit paths run inside WithTransaction so the
// re-check-then-write sequence is atomic against concurrent requests.
type BookingRepository interface {
	// WithTransaction runs fn inside a single MongoDB transaction. Every
	// repository call made with the ctx passed to fn joins that transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	Insert(ctx context.Context, booking *models.Booking) error
	Update(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, orgID, id string) (*models.Booking, error)

	// ListBlockingForStaff returns confirmed and checked-in bookings whose
	// buffered interval intersects [from, to). excludeID skips one booking,
	// used by reschedule to ignore the booking's own current interval.
	ListBlockingForStaff(ctx context.Context, orgID, staffID string, from, to time.Time, excludeID string) ([]models.Booking, error)

	// ListBlockingForClient returns confirmed and checked-in bookings held
	// by a client that intersect [from, to). Used to stop one client from
	// holding two overlapping reservations.
	ListBlockingForClient(ctx context.Context, orgID, clientID string, from, to time.Time, excludeID string) ([]models.Booking, error)

	ListForStaffRange(ctx context.Context, orgID, staffID string, from, to time.Time) ([]models.Booking, error)
	ListBySession(ctx context.Context, orgID, sessionID string, statuses ...string) ([]models.Booking, error)
	// ListWaitlist returns waitlisted entries for a session ordered by
	// request time, earliest first.
	ListWaitlist(ctx context.Context, orgID, sessionID string) ([]models.Booking, error)

	// ClaimSlot asserts exclusive ownership of a 1:1 staff/start tuple via a
	// unique index; a duplicate maps to ErrSlotTaken.
	ClaimSlot(ctx context.Context, orgID, staffID string, start time.Time, bookingID string) error
	ReleaseClaim(ctx context.Context, orgID, staffID string, start time.Time) error
}

type mongoBookingRepo struct {
	bookings *mongo.Collection
	claims   *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoDB BookingRepository and
// ensures its indexes exist.
func NewMongoBookingRepo() BookingRepository {
	db := database.DB()
	repo := &mongoBookingRepo{
		bookings: db.Collection("bookings"),
		claims:   db.Collection("slot_claims"),
	}
	if err := repo.EnsureIndexes(); err != nil {
		utils.GetLogger().Warn("booking repo index creation failed", zap.Error(err))
	}
	return repo
}
