package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymflow/models"
)

func slotStarts(slots []models.Slot) []time.Time {
	starts := make([]time.Time, len(slots))
	for i, s := range slots {
		starts[i] = s.Start
	}
	return starts
}

func TestWalkWindowSpacingWithTrailingBuffer(t *testing.T) {
	w := window{start: mondayAt(9, 0), end: mondayAt(12, 0)}

	// 30 minute slots with a 15 minute trailing buffer advance in 45
	// minute steps.
	slots := walkWindow(w, "s1", 30*time.Minute, 15, time.Time{})
	assert.Equal(t, []time.Time{
		mondayAt(9, 0), mondayAt(9, 45), mondayAt(10, 30), mondayAt(11, 15),
	}, slotStarts(slots))
}

func TestWalkWindowRuleBuffers(t *testing.T) {
	w := window{start: mondayAt(9, 0), end: mondayAt(12, 0), bufferBefore: 5, bufferAfter: 10}

	slots := walkWindow(w, "s1", 30*time.Minute, 0, time.Time{})
	require.NotEmpty(t, slots)
	// Lead buffer shifts the first start past the window opening.
	assert.Equal(t, mondayAt(9, 5), slots[0].Start)
	assert.Equal(t, mondayAt(9, 50), slots[1].Start)
}

func TestWalkWindowTooShort(t *testing.T) {
	w := window{start: mondayAt(9, 0), end: mondayAt(9, 20)}
	slots := walkWindow(w, "s1", 30*time.Minute, 0, time.Time{})
	assert.Empty(t, slots)
}

func TestGetAvailabilitySingleDay(t *testing.T) {
	engine, rules, _, _, _ := newTestEngine()
	addMondayRule(rules, "s1", 9*60, 12*60, 0, 0)

	slots, err := engine.GetAvailability(context.Background(), clientCtx("c1"), AvailabilityQuery{
		Date: testMonday, StaffID: "s1",
	})
	require.NoError(t, err)
	require.Len(t, slots, 6)
	assert.Equal(t, mondayAt(9, 0), slots[0].Start)
	assert.Equal(t, mondayAt(11, 30), slots[5].Start)
}

func TestGetAvailabilityExcludesExistingBookings(t *testing.T) {
	engine, rules, _, _, _ := newTestEngine()
	addMondayRule(rules, "s1", 9*60, 12*60, 0, 0)

	_, err := engine.BookSlot(context.Background(), clientCtx("c1"), BookSlotRequest{
		StaffID: "s1", StartTime: mondayAt(9, 0), EndTime: mondayAt(9, 30), ClientID: "c1",
	})
	require.NoError(t, err)

	slots, err := engine.GetAvailability(context.Background(), clientCtx("c2"), AvailabilityQuery{
		Date: testMonday, StaffID: "s1",
	})
	require.NoError(t, err)
	require.Len(t, slots, 5)
	assert.Equal(t, mondayAt(9, 30), slots[0].Start)
}

func TestGetAvailabilityFailsOpenOnAdapterError(t *testing.T) {
	engine, rules, _, _, _ := newTestEngine()
	addMondayRule(rules, "s1", 9*60, 12*60, 0, 0)
	engine.BusySource = &fakeBusySource{err: errors.New("provider down")}

	slots, err := engine.GetAvailability(context.Background(), clientCtx("c1"), AvailabilityQuery{
		Date: testMonday, StaffID: "s1",
	})
	require.NoError(t, err)
	assert.Len(t, slots, 6)
}

func TestGetAvailabilitySubtractsExternalBusy(t *testing.T) {
	engine, rules, _, _, _ := newTestEngine()
	addMondayRule(rules, "s1", 9*60, 12*60, 0, 0)
	engine.BusySource = &fakeBusySource{intervals: []models.BusyInterval{
		{Start: mondayAt(10, 0), End: mondayAt(11, 0)},
	}}

	slots, err := engine.GetAvailability(context.Background(), clientCtx("c1"), AvailabilityQuery{
		Date: testMonday, StaffID: "s1",
	})
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		mondayAt(9, 0), mondayAt(9, 30), mondayAt(11, 0), mondayAt(11, 30),
	}, slotStarts(slots))
}

func TestGetAvailabilityLimit(t *testing.T) {
	engine, rules, _, _, _ := newTestEngine()
	addMondayRule(rules, "s1", 9*60, 12*60, 0, 0)

	slots, err := engine.GetAvailability(context.Background(), clientCtx("c1"), AvailabilityQuery{
		Date: testMonday, StaffID: "s1", Limit: 2,
	})
	require.NoError(t, err)
	assert.Len(t, slots, 2)
}

func TestGetAvailabilityMultiStaffOrdering(t *testing.T) {
	engine, rules, _, _, _ := newTestEngine()
	addMondayRule(rules, "s1", 9*60, 10*60, 0, 0)
	addMondayRule(rules, "s2", 9*60, 10*60, 0, 0)

	slots, err := engine.GetAvailability(context.Background(), clientCtx("c1"), AvailabilityQuery{
		Date: testMonday,
	})
	require.NoError(t, err)
	require.Len(t, slots, 4)
	// Staff-major: all of s1's slots precede s2's.
	assert.Equal(t, "s1", slots[0].StaffID)
	assert.Equal(t, "s1", slots[1].StaffID)
	assert.Equal(t, "s2", slots[2].StaffID)
	assert.Equal(t, "s2", slots[3].StaffID)
}

func TestGetAvailabilityAppointmentType(t *testing.T) {
	engine, rules, catalog, _, _ := newTestEngine()
	addMondayRule(rules, "s1", 9*60, 12*60, 0, 0)
	require.NoError(t, catalog.CreateAppointmentType(context.Background(), &models.AppointmentType{
		ID: "pt30", OrganizationID: testOrg, Name: "PT 30", DurationMinutes: 30, BufferAfter: 15, Active: true,
	}))

	slots, err := engine.GetAvailability(context.Background(), clientCtx("c1"), AvailabilityQuery{
		Date: testMonday, StaffID: "s1", AppointmentTypeID: "pt30",
	})
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		mondayAt(9, 0), mondayAt(9, 45), mondayAt(10, 30), mondayAt(11, 15),
	}, slotStarts(slots))
}

func TestGetAvailabilityInactiveAppointmentType(t *testing.T) {
	engine, rules, catalog, _, _ := newTestEngine()
	addMondayRule(rules, "s1", 9*60, 12*60, 0, 0)
	require.NoError(t, catalog.CreateAppointmentType(context.Background(), &models.AppointmentType{
		ID: "old", OrganizationID: testOrg, Name: "Retired", DurationMinutes: 30, Active: false,
	}))

	_, err := engine.GetAvailability(context.Background(), clientCtx("c1"), AvailabilityQuery{
		Date: testMonday, StaffID: "s1", AppointmentTypeID: "old",
	})
	assert.Equal(t, CodeInvalidInput, CodeOf(err))
}

func TestGetAvailabilityDateRange(t *testing.T) {
	engine, rules, _, _, _ := newTestEngine()
	addMondayRule(rules, "s1", 9*60, 10*60, 0, 0)

	// Monday through Wednesday; only Monday has a rule.
	slots, err := engine.GetAvailability(context.Background(), clientCtx("c1"), AvailabilityQuery{
		FromDate: testMonday, ToDate: "2030-06-05", StaffID: "s1",
	})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	for _, s := range slots {
		assert.Equal(t, time.June, s.Start.Month())
		assert.Equal(t, 3, s.Start.Day())
	}
}

func TestGetAvailabilityQueryValidation(t *testing.T) {
	engine, _, _, _, _ := newTestEngine()

	_, err := engine.GetAvailability(context.Background(), clientCtx("c1"), AvailabilityQuery{})
	assert.Equal(t, CodeInvalidInput, CodeOf(err))

	_, err = engine.GetAvailability(context.Background(), clientCtx("c1"), AvailabilityQuery{
		FromDate: "2030-06-05", ToDate: testMonday,
	})
	assert.Equal(t, CodeInvalidInput, CodeOf(err))
}
