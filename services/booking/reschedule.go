package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	bookingsRepo "gymflow/database/repository/bookings"
	"gymflow/models"
	"gymflow/utils"
)

// RescheduleBooking moves a 1:1 booking to a new interval. The booking keeps
// its identity and history; only the times change. Its current slot does not
// count against itself when the new interval is checked, so shifting a
// booking within its own span works.
func (e *DefaultEngine) RescheduleBooking(ctx context.Context, orgCtx models.OrganizationContext, req RescheduleRequest) (*models.BookingResult, error) {
	if req.BookingID == "" {
		return nil, NewInvalidInput("booking_id is required")
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return nil, NewInvalidInput("start_time and end_time are required")
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, NewInvalidInput("end_time must be after start_time")
	}

	booking, err := e.Bookings.GetByID(ctx, orgCtx.OrganizationID, req.BookingID)
	if err != nil {
		return nil, NewNotFound("booking %s not found", req.BookingID)
	}
	if err := authorizeBookingAccess(orgCtx, booking); err != nil {
		return nil, err
	}
	if booking.SessionID != "" {
		return nil, NewInvalidInput("session bookings cannot be rescheduled, cancel and re-book instead")
	}

	apptBufferAfter := 0
	if booking.AppointmentTypeID != "" {
		at, err := e.Catalog.GetAppointmentType(ctx, orgCtx.OrganizationID, booking.AppointmentTypeID)
		if err == nil {
			if req.EndTime.Sub(req.StartTime) != time.Duration(at.DurationMinutes)*time.Minute {
				return nil, NewInvalidInput("interval does not match the %d minute appointment type", at.DurationMinutes)
			}
			apptBufferAfter = at.BufferAfter
		}
	}

	start := req.StartTime.UTC()
	end := req.EndTime.UTC()
	err = e.Bookings.WithTransaction(ctx, func(sc context.Context) error {
		current, err := e.Bookings.GetByID(sc, orgCtx.OrganizationID, req.BookingID)
		if err != nil {
			return err
		}
		if !current.Blocks() {
			return NewInvalidInput("booking %s is %s and cannot be rescheduled", current.ID, current.Status)
		}

		bufferBefore, bufferAfter, err := e.checkSlotFree(sc, orgCtx.OrganizationID, current.StaffID, start, end, apptBufferAfter, current.ID)
		if err != nil {
			return err
		}
		if err := e.checkClientFree(sc, orgCtx.OrganizationID, current.ClientID, start, end, current.ID); err != nil {
			return err
		}

		if !start.Equal(current.StartTime) {
			if err := e.Bookings.ClaimSlot(sc, orgCtx.OrganizationID, current.StaffID, start, current.ID); err != nil {
				if errors.Is(err, bookingsRepo.ErrSlotTaken) {
					return NewSlotConflict("slot %s was just taken", start.Format(time.RFC3339))
				}
				return err
			}
			if err := e.Bookings.ReleaseClaim(sc, orgCtx.OrganizationID, current.StaffID, current.StartTime); err != nil {
				return err
			}
		}

		current.StartTime = start
		current.EndTime = end
		current.BufferBefore = bufferBefore
		current.BufferAfter = bufferAfter
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

	utils.GetLogger().Info("booking rescheduled",
		zap.String("bookingID", booking.ID),
		zap.Time("start", booking.StartTime))
	e.Cache.Bump(ctx, orgCtx.OrganizationID, booking.StaffID)
	if e.Notifier != nil {
		e.Notifier.BookingRescheduled(ctx, booking)
	}
	return &models.BookingResult{Booking: booking}, nil
}
