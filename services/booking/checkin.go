package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gymflow/models"
	"gymflow/utils"
)

// CheckIn marks a confirmed booking as attended. Staff and admins only.
func (e *DefaultEngine) CheckIn(ctx context.Context, orgCtx models.OrganizationContext, bookingID string) (*models.BookingResult, error) {
	if !orgCtx.CanManageBookings() {
		return nil, NewUnauthorized("check-in requires a staff or admin role")
	}

	var booking *models.Booking
	err := e.Bookings.WithTransaction(ctx, func(sc context.Context) error {
		current, err := e.Bookings.GetByID(sc, orgCtx.OrganizationID, bookingID)
		if err != nil {
			return NewNotFound("booking %s not found", bookingID)
		}
		if current.Status != models.BookingStatusConfirmed {
			return NewInvalidInput("booking %s is %s, only confirmed bookings can check in", current.ID, current.Status)
		}
		current.Status = models.BookingStatusCheckedIn
		current.CheckedInAt = time.Now().UTC()
		current.UpdatedAt = current.CheckedInAt
		if err := e.Bookings.Update(sc, current); err != nil {
			return err
		}
		booking = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.GetLogger().Info("booking checked in", zap.String("bookingID", booking.ID))
	return &models.BookingResult{Booking: booking}, nil
}

// CompleteBooking closes out a checked-in booking once the appointment has
// been delivered. Staff and admins only.
func (e *DefaultEngine) CompleteBooking(ctx context.Context, orgCtx models.OrganizationContext, bookingID string) (*models.BookingResult, error) {
	if !orgCtx.CanManageBookings() {
		return nil, NewUnauthorized("completion requires a staff or admin role")
	}

	var booking *models.Booking
	err := e.Bookings.WithTransaction(ctx, func(sc context.Context) error {
		current, err := e.Bookings.GetByID(sc, orgCtx.OrganizationID, bookingID)
		if err != nil {
			return NewNotFound("booking %s not found", bookingID)
		}
		if current.Status != models.BookingStatusCheckedIn {
			return NewInvalidInput("booking %s is %s, only checked-in bookings can complete", current.ID, current.Status)
		}
		current.Status = models.BookingStatusCompleted
		current.UpdatedAt = time.Now().UTC()
		if err := e.Bookings.Update(sc, current); err != nil {
			return err
		}
		booking = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.GetLogger().Info("booking completed", zap.String("bookingID", booking.ID))
	return &models.BookingResult{Booking: booking}, nil
}
