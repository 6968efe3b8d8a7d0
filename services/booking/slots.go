package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gymflow/models"
	"gymflow/services/calendar"
	"gymflow/utils"
)

// GetAvailability computes bookable slots for the queried date range. Slots
// are ordered staff-major, then chronologically. External calendar outages
// degrade to internal-only availability rather than failing the query.
func (e *DefaultEngine) GetAvailability(ctx context.Context, orgCtx models.OrganizationContext, query AvailabilityQuery) ([]models.Slot, error) {
	fromDate, toDate, err := query.dates()
	if err != nil {
		return nil, err
	}

	duration, apptBufferAfter, err := e.resolveDuration(ctx, orgCtx.OrganizationID, query)
	if err != nil {
		return nil, err
	}

	staffIDs := []string{query.StaffID}
	if query.StaffID == "" {
		staffIDs, err = e.Rules.ListStaffWithRules(ctx, orgCtx.OrganizationID)
		if err != nil {
			return nil, err
		}
	}

	slots := []models.Slot{}
	for _, staffID := range staffIDs {
		staffSlots, err := e.staffSlots(ctx, orgCtx.OrganizationID, staffID, fromDate, toDate, duration, apptBufferAfter, query.AppointmentTypeID)
		if err != nil {
			return nil, err
		}
		slots = append(slots, staffSlots...)
		if query.Limit > 0 && len(slots) >= query.Limit {
			return slots[:query.Limit], nil
		}
	}
	return slots, nil
}

// resolveDuration picks the slot length: an explicit duration wins, then the
// appointment type, then the system default. The appointment type also
// contributes its trailing buffer.
func (e *DefaultEngine) resolveDuration(ctx context.Context, orgID string, query AvailabilityQuery) (time.Duration, int, error) {
	apptBufferAfter := 0
	minutes := query.DurationMinutes
	if query.AppointmentTypeID != "" {
		at, err := e.Catalog.GetAppointmentType(ctx, orgID, query.AppointmentTypeID)
		if err != nil {
			return 0, 0, NewNotFound("appointment type %s not found", query.AppointmentTypeID)
		}
		if !at.Active {
			return 0, 0, NewInvalidInput("appointment type %s is inactive", query.AppointmentTypeID)
		}
		if minutes == 0 {
			minutes = at.DurationMinutes
		}
		apptBufferAfter = at.BufferAfter
	}
	if minutes <= 0 {
		minutes = DefaultSlotMinutes
	}
	return time.Duration(minutes) * time.Minute, apptBufferAfter, nil
}

func (e *DefaultEngine) staffSlots(ctx context.Context, orgID, staffID, fromDate, toDate string, duration time.Duration, apptBufferAfter int, appointmentTypeID string) ([]models.Slot, error) {
	cacheKey := ""
	if e.Cache.enabled() {
		version := e.Cache.version(ctx, orgID, staffID)
		cacheKey = e.Cache.slotKey(orgID, staffID, version, fromDate, toDate, int(duration/time.Minute), appointmentTypeID)
		if cached, ok := e.Cache.get(ctx, cacheKey); ok {
			return cached, nil
		}
	}

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

	// Generous UTC margin around the local-date range so timezone offsets
	// cannot push a window outside the busy-interval fetch.
	rangeStart, err := time.Parse("2006-01-02", fromDate)
	if err != nil {
		return nil, NewInvalidInput("invalid date %q", fromDate)
	}
	rangeEnd, err := time.Parse("2006-01-02", toDate)
	if err != nil {
		return nil, NewInvalidInput("invalid date %q", toDate)
	}
	rangeStart = rangeStart.Add(-24 * time.Hour)
	rangeEnd = rangeEnd.Add(48 * time.Hour)

	busy, err := e.bookedIntervals(ctx, orgID, staffID, rangeStart, rangeEnd, "")
	if err != nil {
		return nil, err
	}
	busy = append(busy, e.externalBusy(ctx, orgID, staffID, rangeStart, rangeEnd)...)

	now := time.Now().UTC()
	slots := []models.Slot{}
	for date := fromDate; date <= toDate; date = nextDate(date) {
		windows, err := resolveDayWindows(date, staffID, rules, overrides, holidays)
		if err != nil {
			return nil, err
		}
		windows = subtractBusy(windows, busy)
		for _, w := range windows {
			slots = append(slots, walkWindow(w, staffID, duration, apptBufferAfter, now)...)
		}
	}

	if cacheKey != "" {
		e.Cache.set(ctx, cacheKey, slots)
	}
	return slots, nil
}

// walkWindow emits fixed-length slots across a free window. The cursor
// advances by the full blocked span (lead buffer + duration + trailing
// buffer) so consecutive slots never share buffer time.
func walkWindow(w window, staffID string, duration time.Duration, apptBufferAfter int, now time.Time) []models.Slot {
	bufferAfter := w.bufferAfter
	if apptBufferAfter > 0 {
		bufferAfter = apptBufferAfter
	}
	before := time.Duration(w.bufferBefore) * time.Minute
	step := before + duration + time.Duration(bufferAfter)*time.Minute

	var slots []models.Slot
	for cursor := w.start; !cursor.Add(step).After(w.end); cursor = cursor.Add(step) {
		start := cursor.Add(before)
		if start.Before(now) {
			continue
		}
		slots = append(slots, models.Slot{
			StaffID: staffID,
			Start:   start,
			End:     start.Add(duration),
		})
	}
	return slots
}

// bookedIntervals maps blocking bookings to their buffered busy intervals.
func (e *DefaultEngine) bookedIntervals(ctx context.Context, orgID, staffID string, from, to time.Time, excludeID string) ([]models.BusyInterval, error) {
	bookings, err := e.Bookings.ListBlockingForStaff(ctx, orgID, staffID, from, to, excludeID)
	if err != nil {
		return nil, err
	}
	intervals := make([]models.BusyInterval, 0, len(bookings))
	for _, b := range bookings {
		intervals = append(intervals, models.BusyInterval{Start: b.BlockedStart, End: b.BlockedEnd})
	}
	return intervals, nil
}

// externalBusy fetches busy intervals from a connected calendar. Failures
// and timeouts log a warning and return nothing so availability stays up
// when the provider is down.
func (e *DefaultEngine) externalBusy(ctx context.Context, orgID, staffID string, from, to time.Time) []models.BusyInterval {
	if e.BusySource == nil {
		return nil
	}
	fetchCtx, cancel := context.WithTimeout(ctx, e.busyFetchTimeout())
	defer cancel()

	busy, err := e.BusySource.FetchBusyIntervals(fetchCtx, orgID, staffID, from, to)
	if err != nil {
		if err != calendar.ErrNotConnected {
			utils.GetLogger().Warn("external busy fetch failed, continuing without it",
				zap.String("staffID", staffID), zap.Error(err))
		}
		return nil
	}
	return busy
}

func nextDate(date string) string {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date + "~" // stops the loop
	}
	return day.Add(24 * time.Hour).Format("2006-01-02")
}
