package models

import "time"

// Booking statuses. Transitions are one-directional; a cancelled booking is
// never reactivated in place, re-booking creates a new record.
const (
	BookingStatusConfirmed  = "confirmed"
	BookingStatusWaitlisted = "waitlisted"
	BookingStatusCancelled  = "cancelled"
	BookingStatusCheckedIn  = "checked_in"
	BookingStatusCompleted  = "completed"
)

// Booking is a committed reservation, either a 1:1 staff slot or a seat in a
// capacity-based class session (SessionID set). Cancellation is a status
// change, bookings are never hard-deleted.
type Booking struct {
	ID                string    `bson:"id" json:"id"`
	OrganizationID    string    `bson:"organization_id" json:"organization_id"`
	StaffID           string    `bson:"staff_id,omitempty" json:"staff_id,omitempty"`
	SessionID         string    `bson:"session_id,omitempty" json:"session_id,omitempty"`
	AppointmentTypeID string    `bson:"appointment_type_id,omitempty" json:"appointment_type_id,omitempty"`
	ClientID          string    `bson:"client_id" json:"client_id"`
	ClientName        string    `bson:"client_name,omitempty" json:"client_name,omitempty"`
	StartTime         time.Time `bson:"start_time" json:"start_time"`       // UTC
	EndTime           time.Time `bson:"end_time" json:"end_time"`           // UTC
	BufferBefore      int       `bson:"buffer_before" json:"buffer_before"` // minutes, captured at commit
	BufferAfter       int       `bson:"buffer_after" json:"buffer_after"`   // minutes, captured at commit
	Status            string    `bson:"status" json:"status"`
	// Denormalized buffered interval, kept in sync with times and buffers
	// so overlap queries stay index-friendly.
	BlockedStart time.Time `bson:"blocked_start" json:"-"`
	BlockedEnd   time.Time `bson:"blocked_end" json:"-"`
	Notes        string    `bson:"notes,omitempty" json:"notes,omitempty"`
	RequestedAt  time.Time `bson:"requested_at" json:"requested_at"` // waitlist ordering key
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	CancelledAt  time.Time `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`
	CheckedInAt  time.Time `bson:"checked_in_at,omitempty" json:"checked_in_at,omitempty"`
}

// SyncBlockedWindow recomputes the denormalized buffered interval from the
// booking times and buffers. Must be called before any insert or time update.
func (b *Booking) SyncBlockedWindow() {
	b.BlockedStart = b.StartTime.Add(-time.Duration(b.BufferBefore) * time.Minute)
	b.BlockedEnd = b.EndTime.Add(time.Duration(b.BufferAfter) * time.Minute)
}

// Blocks reports whether the booking's status makes it occupy staff time.
func (b Booking) Blocks() bool {
	return b.Status == BookingStatusConfirmed || b.Status == BookingStatusCheckedIn
}

// BookingResult is what the transaction manager hands back to callers.
// WaitlistPosition is the 1-based rank, set only for waitlisted results.
type BookingResult struct {
	Booking          *Booking `json:"booking"`
	WaitlistPosition int      `json:"waitlist_position,omitempty"`
	AlreadyCancelled bool     `json:"already_cancelled,omitempty"`
}
