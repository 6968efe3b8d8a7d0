package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingsRepo "gymflow/database/repository/bookings"
	catalogRepo "gymflow/database/repository/catalog"
	"gymflow/models"
	"gymflow/utils"
)

// BookSlot commits a reservation: a 1:1 staff slot when StaffID is set, a
// class seat when SessionID is set. The write happens inside a transaction,
// concurrent attempts on the same slot resolve to exactly one winner.
func (e *DefaultEngine) BookSlot(ctx context.Context, orgCtx models.OrganizationContext, req BookSlotRequest) (*models.BookingResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if result, ok := e.replayIdempotent(ctx, orgCtx.OrganizationID, req.IdempotencyKey); ok {
		return result, nil
	}

	var result *models.BookingResult
	var err error
	if req.SessionID != "" {
		result, err = e.bookSessionSeat(ctx, orgCtx.OrganizationID, req)
	} else {
		result, err = e.bookStaffSlot(ctx, orgCtx.OrganizationID, req)
	}
	if err != nil {
		return nil, err
	}

	e.rememberIdempotent(ctx, orgCtx.OrganizationID, req.IdempotencyKey, result.Booking.ID)
	e.Cache.Bump(ctx, orgCtx.OrganizationID, result.Booking.StaffID)
	if e.Notifier != nil {
		if result.Booking.Status == models.BookingStatusWaitlisted {
			e.Notifier.BookingWaitlisted(ctx, result.Booking, result.WaitlistPosition)
		} else {
			e.Notifier.BookingConfirmed(ctx, result.Booking)
		}
	}
	return result, nil
}

func (e *DefaultEngine) bookStaffSlot(ctx context.Context, orgID string, req BookSlotRequest) (*models.BookingResult, error) {
	start := req.StartTime.UTC()
	end := req.EndTime.UTC()

	apptBufferAfter := 0
	if req.AppointmentTypeID != "" {
		at, err := e.Catalog.GetAppointmentType(ctx, orgID, req.AppointmentTypeID)
		if err != nil {
			return nil, NewNotFound("appointment type %s not found", req.AppointmentTypeID)
		}
		if !at.Active {
			return nil, NewInvalidInput("appointment type %s is inactive", req.AppointmentTypeID)
		}
		if end.Sub(start) != time.Duration(at.DurationMinutes)*time.Minute {
			return nil, NewInvalidInput("interval does not match the %d minute appointment type", at.DurationMinutes)
		}
		apptBufferAfter = at.BufferAfter
	}

	now := time.Now().UTC()
	booking := &models.Booking{
		ID:                uuid.New().String(),
		OrganizationID:    orgID,
		StaffID:           req.StaffID,
		AppointmentTypeID: req.AppointmentTypeID,
		ClientID:          req.ClientID,
		ClientName:        req.ClientName,
		StartTime:         start,
		EndTime:           end,
		Status:            models.BookingStatusConfirmed,
		Notes:             req.Notes,
		RequestedAt:       now,
		CreatedAt:         now,
	}

	err := e.Bookings.WithTransaction(ctx, func(sc context.Context) error {
		bufferBefore, bufferAfter, err := e.checkSlotFree(sc, orgID, req.StaffID, start, end, apptBufferAfter, "")
		if err != nil {
			return err
		}
		if err := e.checkClientFree(sc, orgID, req.ClientID, start, end, ""); err != nil {
			return err
		}
		if err := e.Bookings.ClaimSlot(sc, orgID, req.StaffID, start, booking.ID); err != nil {
			if errors.Is(err, bookingsRepo.ErrSlotTaken) {
				return NewSlotConflict("slot %s was just taken", start.Format(time.RFC3339))
			}
			return err
		}
		booking.BufferBefore = bufferBefore
		booking.BufferAfter = bufferAfter
		return e.Bookings.Insert(sc, booking)
	})
	if err != nil {
		return nil, err
	}
	utils.GetLogger().Info("slot booked",
		zap.String("bookingID", booking.ID),
		zap.String("staffID", booking.StaffID),
		zap.Time("start", booking.StartTime))
	return &models.BookingResult{Booking: booking}, nil
}

func (e *DefaultEngine) bookSessionSeat(ctx context.Context, orgID string, req BookSlotRequest) (*models.BookingResult, error) {
	session, err := e.Catalog.GetSession(ctx, orgID, req.SessionID)
	if err != nil {
		return nil, NewNotFound("session %s not found", req.SessionID)
	}
	if session.Cancelled {
		return nil, NewSlotConflict("session %s is cancelled", session.ID)
	}

	booking := &models.Booking{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		SessionID:      session.ID,
		ClientID:       req.ClientID,
		ClientName:     req.ClientName,
		StartTime:      session.StartTime,
		EndTime:        session.EndTime,
		Notes:          req.Notes,
	}

	position := 0
	err = e.Bookings.WithTransaction(ctx, func(sc context.Context) error {
		position = 0
		if already, err := e.clientHoldsSeat(sc, orgID, session.ID, req.ClientID); err != nil {
			return err
		} else if already {
			return NewSlotConflict("client %s already holds a place in session %s", req.ClientID, session.ID)
		}

		// RequestedAt is the waitlist ordering key; captured here so it
		// and the position are assigned in commit order.
		now := time.Now().UTC()
		booking.RequestedAt = now
		booking.CreatedAt = now

		// The conditional seat reservation on the session document is
		// the capacity gate; losing the race for the last seat lands on
		// the waitlist.
		err := e.Catalog.ReserveSeat(sc, orgID, session.ID)
		switch {
		case err == nil:
			if err := e.checkClientFree(sc, orgID, req.ClientID, session.StartTime, session.EndTime, ""); err != nil {
				if rerr := e.Catalog.ReleaseSeat(sc, orgID, session.ID); rerr != nil {
					return rerr
				}
				return err
			}
			booking.Status = models.BookingStatusConfirmed
		case errors.Is(err, catalogRepo.ErrSessionFull):
			booking.Status = models.BookingStatusWaitlisted
			if position, err = e.waitlistPosition(sc, orgID, session.ID, booking.RequestedAt); err != nil {
				return err
			}
		default:
			return err
		}
		return e.Bookings.Insert(sc, booking)
	})
	if err != nil {
		return nil, err
	}
	utils.GetLogger().Info("session seat booked",
		zap.String("bookingID", booking.ID),
		zap.String("sessionID", session.ID),
		zap.String("status", booking.Status))
	return &models.BookingResult{Booking: booking, WaitlistPosition: position}, nil
}

func (e *DefaultEngine) clientHoldsSeat(ctx context.Context, orgID, sessionID, clientID string) (bool, error) {
	active, err := e.Bookings.ListBySession(ctx, orgID, sessionID,
		models.BookingStatusConfirmed, models.BookingStatusCheckedIn, models.BookingStatusWaitlisted)
	if err != nil {
		return false, err
	}
	for _, b := range active {
		if b.ClientID == clientID {
			return true, nil
		}
	}
	return false, nil
}

// replayIdempotent returns the prior outcome of a request key.
func (e *DefaultEngine) replayIdempotent(ctx context.Context, orgID, key string) (*models.BookingResult, bool) {
	if key == "" || e.Idempotency == nil {
		return nil, false
	}
	bookingID, ok := e.Idempotency.Lookup(ctx, orgID, key)
	if !ok {
		return nil, false
	}
	booking, err := e.Bookings.GetByID(ctx, orgID, bookingID)
	if err != nil {
		return nil, false
	}
	result := &models.BookingResult{Booking: booking}
	if booking.Status == models.BookingStatusWaitlisted {
		if pos, err := e.waitlistPosition(ctx, orgID, booking.SessionID, booking.RequestedAt); err == nil {
			result.WaitlistPosition = pos
		}
	}
	return result, true
}

func (e *DefaultEngine) rememberIdempotent(ctx context.Context, orgID, key, bookingID string) {
	if key == "" || e.Idempotency == nil {
		return
	}
	e.Idempotency.Remember(ctx, orgID, key, bookingID)
}
