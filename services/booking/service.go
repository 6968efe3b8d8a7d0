package booking

import (
	"context"
	"time"

	bookingsRepo "gymflow/database/repository/bookings"
	catalogRepo "gymflow/database/repository/catalog"
	rulesRepo "gymflow/database/repository/rules"
	"gymflow/models"
	"gymflow/services/calendar"
	"gymflow/services/notification"
)

// Default slot duration when neither the query nor an appointment type
// specifies one.
const DefaultSlotMinutes = 30

// Engine is the booking/availability core. Read operations are idempotent;
// mutating operations each commit atomically and are not idempotent unless
// the caller supplies an idempotency key.
type Engine interface {
	GetAvailability(ctx context.Context, orgCtx models.OrganizationContext, query AvailabilityQuery) ([]models.Slot, error)
	IsSlotAvailable(ctx context.Context, orgCtx models.OrganizationContext, staffID string, start, end time.Time) (bool, error)

	BookSlot(ctx context.Context, orgCtx models.OrganizationContext, req BookSlotRequest) (*models.BookingResult, error)
	RescheduleBooking(ctx context.Context, orgCtx models.OrganizationContext, req RescheduleRequest) (*models.BookingResult, error)
	CancelBooking(ctx context.Context, orgCtx models.OrganizationContext, bookingID string) (*models.BookingResult, error)
	CheckIn(ctx context.Context, orgCtx models.OrganizationContext, bookingID string) (*models.BookingResult, error)
	CompleteBooking(ctx context.Context, orgCtx models.OrganizationContext, bookingID string) (*models.BookingResult, error)

	ListStaffBookings(ctx context.Context, orgCtx models.OrganizationContext, staffID string, from, to time.Time) ([]models.Booking, error)
	SessionRoster(ctx context.Context, orgCtx models.OrganizationContext, sessionID string) (*Roster, error)
}

// DefaultEngine is the production implementation.
type DefaultEngine struct {
	Rules    rulesRepo.RuleRepository
	Catalog  catalogRepo.CatalogRepository
	Bookings bookingsRepo.BookingRepository
	// BusySource is optional; nil means no external calendar integration.
	BusySource calendar.BusySource
	Notifier   notification.Dispatcher
	// Cache is optional; nil disables availability caching.
	Cache *AvailabilityCache
	// Idempotency is optional; nil disables request deduplication.
	Idempotency IdempotencyStore
	// BusyFetchTimeout bounds external busy-time fetches. Zero means a
	// 2.5s default.
	BusyFetchTimeout time.Duration
}

// AvailabilityQuery selects the date range and staff pool for slot
// generation. Either Date or FromDate/ToDate must be set.
type AvailabilityQuery struct {
	Date              string // "2006-01-02"
	FromDate          string
	ToDate            string
	StaffID           string // empty = all staff with rules in the org
	AppointmentTypeID string
	DurationMinutes   int // 0 = appointment type duration, else system default
	Limit             int // 0 = unlimited
}

// BookSlotRequest carries the validated parameters of a booking attempt.
// Exactly one of StaffID (1:1 slot) or SessionID (class seat) is set.
type BookSlotRequest struct {
	StaffID           string
	SessionID         string
	AppointmentTypeID string
	StartTime         time.Time
	EndTime           time.Time
	ClientID          string
	ClientName        string
	Notes             string
	// IdempotencyKey deduplicates retries of the same logical request.
	// Empty disables deduplication.
	IdempotencyKey string
}

// RescheduleRequest moves an existing booking to a new interval while
// preserving its identity.
type RescheduleRequest struct {
	BookingID string
	StartTime time.Time
	EndTime   time.Time
}

// Roster is the confirmed attendee list and ordered waitlist of a class
// session.
type Roster struct {
	Session   *models.ClassSession `json:"session"`
	Confirmed []models.Booking     `json:"confirmed"`
	Waitlist  []models.Booking     `json:"waitlist"`
}

func (q AvailabilityQuery) dates() (string, string, error) {
	if q.Date != "" {
		return q.Date, q.Date, nil
	}
	if q.FromDate == "" || q.ToDate == "" {
		return "", "", NewInvalidInput("either date or from/to range is required")
	}
	if q.ToDate < q.FromDate {
		return "", "", NewInvalidInput("to date %s precedes from date %s", q.ToDate, q.FromDate)
	}
	return q.FromDate, q.ToDate, nil
}

func (r BookSlotRequest) validate() error {
	if r.StaffID == "" && r.SessionID == "" {
		return NewInvalidInput("either staff_id or session_id is required")
	}
	if r.StaffID != "" && r.SessionID != "" {
		return NewInvalidInput("staff_id and session_id are mutually exclusive")
	}
	if r.ClientID == "" {
		return NewInvalidInput("client_id is required")
	}
	if r.StaffID != "" {
		if r.StartTime.IsZero() || r.EndTime.IsZero() {
			return NewInvalidInput("start_time and end_time are required")
		}
		if !r.EndTime.After(r.StartTime) {
			return NewInvalidInput("end_time must be after start_time")
		}
	}
	return nil
}

func (e *DefaultEngine) busyFetchTimeout() time.Duration {
	if e.BusyFetchTimeout > 0 {
		return e.BusyFetchTimeout
	}
	return 2500 * time.Millisecond
}
