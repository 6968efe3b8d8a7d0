package models

import "time"

// Slot is a candidate bookable interval for one staff member. It is
// advisory only: nothing is reserved until the booking transaction commits.
type Slot struct {
	StaffID string    `json:"staff_id"`
	Start   time.Time `json:"start"` // UTC
	End     time.Time `json:"end"`   // UTC
}

// BusyInterval is an ephemeral blocking interval, produced either from an
// existing booking (buffers included) or from an external calendar. Never
// persisted.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether two intervals share any time. Touching
// endpoints do not overlap.
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && start.Before(b.End)
}
