package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gymflow/services/booking"
)

type bookSlotInput struct {
	StaffID           string    `json:"staff_id"`
	SessionID         string    `json:"session_id"`
	AppointmentTypeID string    `json:"appointment_type_id"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	ClientID          string    `json:"client_id"`
	ClientName        string    `json:"client_name"`
	Notes             string    `json:"notes"`
}

// CreateBooking books a 1:1 slot or a class seat.
// POST /api/bookings
func CreateBooking(c *gin.Context) {
	orgCtx, ok := orgContext(c)
	if !ok {
		return
	}
	var input bookSlotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	// Clients book for themselves regardless of the posted client id.
	clientID := input.ClientID
	if !orgCtx.CanManageBookings() {
		clientID = orgCtx.UserID
	}

	result, err := Engine.BookSlot(c.Request.Context(), orgCtx, booking.BookSlotRequest{
		StaffID:           input.StaffID,
		SessionID:         input.SessionID,
		AppointmentTypeID: input.AppointmentTypeID,
		StartTime:         input.StartTime,
		EndTime:           input.EndTime,
		ClientID:          clientID,
		ClientName:        input.ClientName,
		Notes:             input.Notes,
		IdempotencyKey:    c.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// RescheduleBooking moves a booking to a new interval.
// PUT /api/bookings/:id/reschedule
func RescheduleBooking(c *gin.Context) {
	orgCtx, ok := orgContext(c)
	if !ok {
		return
	}
	var input struct {
		StartTime time.Time `json:"start_time"`
		EndTime   time.Time `json:"end_time"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := Engine.RescheduleBooking(c.Request.Context(), orgCtx, booking.RescheduleRequest{
		BookingID: c.Param("id"),
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CancelBooking cancels a booking. Repeating the call is a no-op.
// DELETE /api/bookings/:id
func CancelBooking(c *gin.Context) {
	orgCtx, ok := orgContext(c)
	if !ok {
		return
	}
	result, err := Engine.CancelBooking(c.Request.Context(), orgCtx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CheckInBooking marks attendance for a confirmed booking.
// POST /api/bookings/:id/checkin
func CheckInBooking(c *gin.Context) {
	orgCtx, ok := orgContext(c)
	if !ok {
		return
	}
	result, err := Engine.CheckIn(c.Request.Context(), orgCtx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CompleteBooking closes out a checked-in booking.
// POST /api/bookings/:id/complete
func CompleteBooking(c *gin.Context) {
	orgCtx, ok := orgContext(c)
	if !ok {
		return
	}
	result, err := Engine.CompleteBooking(c.Request.Context(), orgCtx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListStaffBookings returns a staff member's bookings in a time range.
// GET /api/bookings/staff/:staffID?from=...&to=...
func ListStaffBookings(c *gin.Context) {
	orgCtx, ok := orgContext(c)
	if !ok {
		return
	}
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be RFC3339"})
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be RFC3339"})
		return
	}

	bookings, err := Engine.ListStaffBookings(c.Request.Context(), orgCtx, c.Param("staffID"), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
}

// GetSessionRoster returns a session with attendees and the ordered waitlist.
// GET /api/bookings/sessions/:sessionID/roster
func GetSessionRoster(c *gin.Context) {
	orgCtx, ok := orgContext(c)
	if !ok {
		return
	}
	roster, err := Engine.SessionRoster(c.Request.Context(), orgCtx, c.Param("sessionID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, roster)
}
