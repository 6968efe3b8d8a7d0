package models

import "time"

// CalendarConnection stores a staff member's external calendar link. The
// serialized OAuth token is opaque to the engine; only the busy-time
// adapter deserializes it.
type CalendarConnection struct {
	StaffID        string    `bson:"staff_id" json:"staff_id"`
	OrganizationID string    `bson:"organization_id" json:"organization_id"`
	Provider       string    `bson:"provider" json:"provider"` // "google"
	CalendarID     string    `bson:"calendar_id" json:"calendar_id"`
	TokenJSON      string    `bson:"token_json" json:"-"`
	ConnectedAt    time.Time `bson:"connected_at" json:"connected_at"`
}
