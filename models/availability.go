package models

import "time"

// AvailabilityRule is a recurring weekly working window for one staff member.
// Times are minutes from midnight in the rule's timezone.
type AvailabilityRule struct {
	ID             string    `bson:"id" json:"id"`
	OrganizationID string    `bson:"organization_id" json:"organization_id"`
	StaffID        string    `bson:"staff_id" json:"staff_id"`
	DayOfWeek      int       `bson:"day_of_week" json:"day_of_week"` // 0 = Sunday .. 6 = Saturday
	StartMinute    int       `bson:"start_minute" json:"start_minute"`
	EndMinute      int       `bson:"end_minute" json:"end_minute"`
	Timezone       string    `bson:"timezone" json:"timezone"` // IANA name, e.g. "Europe/London"
	Enabled        bool      `bson:"enabled" json:"enabled"`
	BufferBefore   int       `bson:"buffer_before" json:"buffer_before"` // minutes
	BufferAfter    int       `bson:"buffer_after" json:"buffer_after"`   // minutes
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// AvailabilityOverride replaces or blocks a staff member's recurring rule on
// one specific date. A nil StartMinute/EndMinute leaves the corresponding
// boundary of the day's window untouched. Available=false with no times
// blocks the whole date.
type AvailabilityOverride struct {
	ID             string    `bson:"id" json:"id"`
	OrganizationID string    `bson:"organization_id" json:"organization_id"`
	StaffID        string    `bson:"staff_id" json:"staff_id"`
	Date           string    `bson:"date" json:"date"` // "2006-01-02", staff-local
	StartMinute    *int      `bson:"start_minute,omitempty" json:"start_minute,omitempty"`
	EndMinute      *int      `bson:"end_minute,omitempty" json:"end_minute,omitempty"`
	Available      bool      `bson:"available" json:"available"`
	Reason         string    `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}

// Holiday is an organization-wide (empty StaffID) or staff-specific
// non-available date range, inclusive of both endpoints.
type Holiday struct {
	ID             string    `bson:"id" json:"id"`
	OrganizationID string    `bson:"organization_id" json:"organization_id"`
	StaffID        string    `bson:"staff_id,omitempty" json:"staff_id,omitempty"`
	Name           string    `bson:"name" json:"name"`
	StartDate      string    `bson:"start_date" json:"start_date"` // "2006-01-02"
	EndDate        string    `bson:"end_date" json:"end_date"`     // "2006-01-02"
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}

// CoversDate reports whether the holiday covers the given "2006-01-02" date
// for the given staff member.
func (h Holiday) CoversDate(staffID, date string) bool {
	if h.StaffID != "" && h.StaffID != staffID {
		return false
	}
	return h.StartDate <= date && date <= h.EndDate
}
