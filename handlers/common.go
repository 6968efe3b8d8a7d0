package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gymflow/middleware"
	"gymflow/models"
	"gymflow/services/booking"
	"gymflow/services/calendar"
	"gymflow/services/schedule"
)

// Wired at startup before routes are registered.
var (
	Engine          booking.Engine
	ScheduleService schedule.Service
	CalendarService *calendar.ConnectService
)

func orgContext(c *gin.Context) (models.OrganizationContext, bool) {
	orgCtx, ok := middleware.OrgContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return models.OrganizationContext{}, false
	}
	return orgCtx, true
}

// respondError maps booking error codes to HTTP statuses. Unrecognized
// errors become a 500 with a generic body.
func respondError(c *gin.Context, err error) {
	code := booking.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case booking.CodeInvalidInput:
		status = http.StatusBadRequest
	case booking.CodeNotFound:
		status = http.StatusNotFound
	case booking.CodeSlotConflict:
		status = http.StatusConflict
	case booking.CodeUnauthorized:
		status = http.StatusForbidden
	case booking.CodeAdapterDegraded:
		status = http.StatusBadGateway
	}
	if code == "" {
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}
