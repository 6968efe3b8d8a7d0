package booking

import (
	"context"
	"time"

	"gymflow/models"
)

// ListStaffBookings returns every booking that touches a staff member's
// calendar in [from, to), any status, newest first within the range. Staff
// and admins only.
func (e *DefaultEngine) ListStaffBookings(ctx context.Context, orgCtx models.OrganizationContext, staffID string, from, to time.Time) ([]models.Booking, error) {
	if !orgCtx.CanManageBookings() {
		return nil, NewUnauthorized("listing staff bookings requires a staff or admin role")
	}
	if staffID == "" {
		return nil, NewInvalidInput("staff_id is required")
	}
	if !to.After(from) {
		return nil, NewInvalidInput("to must be after from")
	}
	return e.Bookings.ListForStaffRange(ctx, orgCtx.OrganizationID, staffID, from, to)
}

// SessionRoster returns a session with its confirmed attendees and the
// waitlist in promotion order.
func (e *DefaultEngine) SessionRoster(ctx context.Context, orgCtx models.OrganizationContext, sessionID string) (*Roster, error) {
	if !orgCtx.CanManageBookings() {
		return nil, NewUnauthorized("session rosters require a staff or admin role")
	}
	session, err := e.Catalog.GetSession(ctx, orgCtx.OrganizationID, sessionID)
	if err != nil {
		return nil, NewNotFound("session %s not found", sessionID)
	}
	confirmed, err := e.Bookings.ListBySession(ctx, orgCtx.OrganizationID, sessionID,
		models.BookingStatusConfirmed, models.BookingStatusCheckedIn)
	if err != nil {
		return nil, err
	}
	waitlist, err := e.Bookings.ListWaitlist(ctx, orgCtx.OrganizationID, sessionID)
	if err != nil {
		return nil, err
	}
	return &Roster{Session: session, Confirmed: confirmed, Waitlist: waitlist}, nil
}
