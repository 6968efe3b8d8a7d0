package notification

import (
	"context"

	"gymflow/models"
)

// Dispatcher is the fire-and-forget notification trigger invoked after
// booking mutations. The engine never waits for or depends on delivery;
// implementations must swallow their own failures.
type Dispatcher interface {
	BookingConfirmed(ctx context.Context, booking *models.Booking)
	BookingWaitlisted(ctx context.Context, booking *models.Booking, position int)
	BookingRescheduled(ctx context.Context, booking *models.Booking)
	BookingCancelled(ctx context.Context, booking *models.Booking)
	BookingPromoted(ctx context.Context, booking *models.Booking)
}
