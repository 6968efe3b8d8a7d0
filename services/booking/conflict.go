package booking

import (
	"context"
	"time"

	"gymflow/models"
)

// IsSlotAvailable reports whether a 1:1 slot could be booked right now. It
// applies the same checks as BookSlot minus the transaction, so a true
// result can still lose a race at booking time.
func (e *DefaultEngine) IsSlotAvailable(ctx context.Context, orgCtx models.OrganizationContext, staffID string, start, end time.Time) (bool, error) {
	if staffID == "" {
		return false, NewInvalidInput("staff_id is required")
	}
	if !end.After(start) {
		return false, NewInvalidInput("end_time must be after start_time")
	}
	_, _, err := e.checkSlotFree(ctx, orgCtx.OrganizationID, staffID, start, end, 0, "")
	if err != nil {
		if IsConflict(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// checkSlotFree verifies that [start, end) sits inside a working window and
// that its buffered span collides with no blocking booking or external busy
// interval. It returns the effective buffers so a booking can capture them.
// excludeBookingID exempts a booking being rescheduled from the overlap
// check.
func (e *DefaultEngine) checkSlotFree(ctx context.Context, orgID, staffID string, start, end time.Time, apptBufferAfter int, excludeBookingID string) (int, int, error) {
	w, err := e.containingWindow(ctx, orgID, staffID, start, end, apptBufferAfter)
	if err != nil {
		return 0, 0, err
	}

	bufferAfter := w.bufferAfter
	if apptBufferAfter > 0 {
		bufferAfter = apptBufferAfter
	}
	blockedStart := start.Add(-time.Duration(w.bufferBefore) * time.Minute)
	blockedEnd := end.Add(time.Duration(bufferAfter) * time.Minute)

	busy, err := e.bookedIntervals(ctx, orgID, staffID, blockedStart, blockedEnd, excludeBookingID)
	if err != nil {
		return 0, 0, err
	}
	busy = append(busy, e.externalBusy(ctx, orgID, staffID, blockedStart, blockedEnd)...)
	for _, interval := range busy {
		if interval.Overlaps(blockedStart, blockedEnd) {
			return 0, 0, NewSlotConflict("slot %s is no longer available", start.Format(time.RFC3339))
		}
	}
	return w.bufferBefore, bufferAfter, nil
}

// containingWindow finds the working window that fully holds the buffered
// slot. Windows from the surrounding local dates are considered because a
// rule timezone can shift them across the UTC date line.
func (e *DefaultEngine) containingWindow(ctx context.Context, orgID, staffID string, start, end time.Time, apptBufferAfter int) (*window, error) {
	startUTC := start.UTC()
	fromDate := startUTC.Add(-24 * time.Hour).Format("2006-01-02")
	toDate := startUTC.Add(24 * time.Hour).Format("2006-01-02")

	rules, err := e.Rules.ListRulesForStaff(ctx, orgID, staffID)
	if err != nil {
		return nil, err
	}
	overrides, err := e.Rules.ListOverrides(ctx, orgID, staffID, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	holidays, err := e.Rules.ListHolidays(ctx, orgID, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	for date := fromDate; date <= toDate; date = nextDate(date) {
		windows, err := resolveDayWindows(date, staffID, rules, overrides, holidays)
		if err != nil {
			return nil, err
		}
		for i := range windows {
			w := windows[i]
			bufferAfter := w.bufferAfter
			if apptBufferAfter > 0 {
				bufferAfter = apptBufferAfter
			}
			if w.contains(start, end, w.bufferBefore, bufferAfter) {
				return &w, nil
			}
		}
	}
	return nil, NewSlotConflict("slot %s is outside working hours", start.Format(time.RFC3339))
}

// checkClientFree rejects a second booking for the same client over an
// overlapping interval. Buffers do not apply here; only the exercise time
// itself counts.
func (e *DefaultEngine) checkClientFree(ctx context.Context, orgID, clientID string, start, end time.Time, excludeBookingID string) error {
	existing, err := e.Bookings.ListBlockingForClient(ctx, orgID, clientID, start, end, excludeBookingID)
	if err != nil {
		return err
	}
	for _, b := range existing {
		if start.Before(b.EndTime) && b.StartTime.Before(end) {
			return NewSlotConflict("client already has a booking from %s to %s",
				b.StartTime.Format(time.RFC3339), b.EndTime.Format(time.RFC3339))
		}
	}
	return nil
}
