package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHolidayCoversDate(t *testing.T) {
	orgWide := Holiday{StartDate: "2030-12-24", EndDate: "2030-12-26"}
	assert.True(t, orgWide.CoversDate("s1", "2030-12-24"))
	assert.True(t, orgWide.CoversDate("s1", "2030-12-26"))
	assert.False(t, orgWide.CoversDate("s1", "2030-12-27"))

	personal := Holiday{StaffID: "s1", StartDate: "2030-07-01", EndDate: "2030-07-14"}
	assert.True(t, personal.CoversDate("s1", "2030-07-07"))
	assert.False(t, personal.CoversDate("s2", "2030-07-07"))
}

func TestBusyIntervalOverlaps(t *testing.T) {
	busy := BusyInterval{
		Start: time.Date(2030, 6, 3, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2030, 6, 3, 11, 0, 0, 0, time.UTC),
	}

	assert.True(t, busy.Overlaps(
		time.Date(2030, 6, 3, 10, 30, 0, 0, time.UTC),
		time.Date(2030, 6, 3, 11, 30, 0, 0, time.UTC)))

	// Touching endpoints do not overlap.
	assert.False(t, busy.Overlaps(
		time.Date(2030, 6, 3, 11, 0, 0, 0, time.UTC),
		time.Date(2030, 6, 3, 11, 30, 0, 0, time.UTC)))
}

func TestSyncBlockedWindow(t *testing.T) {
	b := Booking{
		StartTime:    time.Date(2030, 6, 3, 9, 0, 0, 0, time.UTC),
		EndTime:      time.Date(2030, 6, 3, 9, 30, 0, 0, time.UTC),
		BufferBefore: 5,
		BufferAfter:  15,
	}
	b.SyncBlockedWindow()
	assert.Equal(t, time.Date(2030, 6, 3, 8, 55, 0, 0, time.UTC), b.BlockedStart)
	assert.Equal(t, time.Date(2030, 6, 3, 9, 45, 0, 0, time.UTC), b.BlockedEnd)
}

func TestBookingBlocks(t *testing.T) {
	assert.True(t, Booking{Status: BookingStatusConfirmed}.Blocks())
	assert.True(t, Booking{Status: BookingStatusCheckedIn}.Blocks())
	assert.False(t, Booking{Status: BookingStatusWaitlisted}.Blocks())
	assert.False(t, Booking{Status: BookingStatusCancelled}.Blocks())
}
