package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gymflow/models"
	"gymflow/utils"
)

// CancelBooking marks a booking cancelled and frees whatever it held: the
// staff slot claim for 1:1 bookings, a session seat for class bookings. A
// freed seat is immediately offered to the waitlist. Cancelling an already
// cancelled booking is a no-op reported through AlreadyCancelled.
func (e *DefaultEngine) CancelBooking(ctx context.Context, orgCtx models.OrganizationContext, bookingID string) (*models.BookingResult, error) {
	booking, err := e.Bookings.GetByID(ctx, orgCtx.OrganizationID, bookingID)
	if err != nil {
		return nil, NewNotFound("booking %s not found", bookingID)
	}
	if err := authorizeBookingAccess(orgCtx, booking); err != nil {
		return nil, err
	}

	alreadyCancelled := false
	wasWaitlisted := false
	err = e.Bookings.WithTransaction(ctx, func(sc context.Context) error {
		current, err := e.Bookings.GetByID(sc, orgCtx.OrganizationID, bookingID)
		if err != nil {
			return err
		}
		if current.Status == models.BookingStatusCancelled {
			alreadyCancelled = true
			booking = current
			return nil
		}
		wasWaitlisted = current.Status == models.BookingStatusWaitlisted

		current.Status = models.BookingStatusCancelled
		current.CancelledAt = time.Now().UTC()
		current.UpdatedAt = current.CancelledAt
		if err := e.Bookings.Update(sc, current); err != nil {
			return err
		}
		if current.StaffID != "" {
			if err := e.Bookings.ReleaseClaim(sc, orgCtx.OrganizationID, current.StaffID, current.StartTime); err != nil {
				return err
			}
		}
		if current.SessionID != "" && !wasWaitlisted {
			if err := e.Catalog.ReleaseSeat(sc, orgCtx.OrganizationID, current.SessionID); err != nil {
				return err
			}
		}
		booking = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	if alreadyCancelled {
		return &models.BookingResult{Booking: booking, AlreadyCancelled: true}, nil
	}

	utils.GetLogger().Info("booking cancelled",
		zap.String("bookingID", booking.ID),
		zap.String("clientID", booking.ClientID))
	e.Cache.Bump(ctx, orgCtx.OrganizationID, booking.StaffID)
	if e.Notifier != nil {
		e.Notifier.BookingCancelled(ctx, booking)
	}

	// A cancelled waitlist entry frees no seat; anything else on a session
	// might have.
	if booking.SessionID != "" && !wasWaitlisted {
		if _, err := e.promoteNext(ctx, orgCtx.OrganizationID, booking.SessionID); err != nil {
			utils.GetLogger().Error("waitlist promotion failed after cancellation",
				zap.String("sessionID", booking.SessionID), zap.Error(err))
		}
	}
	return &models.BookingResult{Booking: booking}, nil
}

// authorizeBookingAccess lets staff and admins act on any booking in the
// organization, clients only on their own.
func authorizeBookingAccess(orgCtx models.OrganizationContext, booking *models.Booking) error {
	if orgCtx.CanManageBookings() {
		return nil
	}
	if booking.ClientID != orgCtx.UserID {
		return NewUnauthorized("booking %s does not belong to this client", booking.ID)
	}
	return nil
}
