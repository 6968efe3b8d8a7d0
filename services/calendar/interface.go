package calendar

import (
	"context"
	"errors"
	"time"

	"gymflow/models"
)

// ErrNotConnected is returned when the staff member has no linked external
// calendar. Callers treat it as "no busy intervals" without logging.
var ErrNotConnected = errors.New("no external calendar connected")

// BusySource fetches blocking intervals from an external calendar for one
// staff member. Implementations may time out or fail; the booking engine
// fails open on any error, so a degraded source can never block bookings.
type BusySource interface {
	FetchBusyIntervals(ctx context.Context, orgID, staffID string, from, to time.Time) ([]models.BusyInterval, error)
}
