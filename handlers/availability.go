package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"gymflow/services/booking"
)

// GetAvailability returns bookable slots for a date or date range.
// GET /api/availability?date=2026-09-07&staff_id=...&appointment_type_id=...
func GetAvailability(c *gin.Context) {
	orgCtx, ok := orgContext(c)
	if !ok {
		return
	}

	query := booking.AvailabilityQuery{
		Date:              c.Query("date"),
		FromDate:          c.Query("from"),
		ToDate:            c.Query("to"),
		StaffID:           c.Query("staff_id"),
		AppointmentTypeID: c.Query("appointment_type_id"),
	}
	if raw := c.Query("duration_minutes"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "duration_minutes must be a positive integer"})
			return
		}
		query.DurationMinutes = minutes
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		query.Limit = limit
	}

	slots, err := Engine.GetAvailability(c.Request.Context(), orgCtx, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots, "count": len(slots)})
}

// CheckSlot reports whether one specific slot is currently bookable.
// GET /api/availability/check?staff_id=...&start=...&end=...
func CheckSlot(c *gin.Context) {
	orgCtx, ok := orgContext(c)
	if !ok {
		return
	}

	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be RFC3339"})
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be RFC3339"})
		return
	}

	available, err := Engine.IsSlotAvailable(c.Request.Context(), orgCtx, c.Query("staff_id"), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": available})
}
