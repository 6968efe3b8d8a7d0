package models

import "time"

// AppointmentType defines the default slot length and trailing buffer for a
// bookable service, e.g. "PT Session 30min".
type AppointmentType struct {
	ID              string    `bson:"id" json:"id"`
	OrganizationID  string    `bson:"organization_id" json:"organization_id"`
	Name            string    `bson:"name" json:"name"`
	DurationMinutes int       `bson:"duration_minutes" json:"duration_minutes"`
	BufferAfter     int       `bson:"buffer_after" json:"buffer_after"` // minutes
	Active          bool      `bson:"active" json:"active"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// ClassSession is a capacity-based booking target (a class) allowing
// multiple attendees up to MaxCapacity. SeatsTaken is maintained by
// conditional updates on this document inside the booking transaction;
// concurrent claims on the last seat conflict here instead of both
// committing.
type ClassSession struct {
	ID             string    `bson:"id" json:"id"`
	OrganizationID string    `bson:"organization_id" json:"organization_id"`
	Name           string    `bson:"name" json:"name"`
	StaffID        string    `bson:"staff_id,omitempty" json:"staff_id,omitempty"`
	MaxCapacity    int       `bson:"max_capacity" json:"max_capacity"`
	SeatsTaken     int       `bson:"seats_taken" json:"seats_taken"`
	StartTime      time.Time `bson:"start_time" json:"start_time"`
	EndTime        time.Time `bson:"end_time" json:"end_time"`
	Cancelled      bool      `bson:"cancelled" json:"cancelled"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}
