package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gymflow/services/calendar"
)

// ConnectCalendar starts the Google consent flow for a staff member.
// GET /api/calendar/connect?staff_id=...
func ConnectCalendar(c *gin.Context) {
	orgCtx, ok := orgContext(c)
	if !ok {
		return
	}
	staffID := c.Query("staff_id")
	if staffID == "" {
		staffID = orgCtx.UserID
	}

	url, err := CalendarService.AuthURL(c.Request.Context(), orgCtx.OrganizationID, staffID)
	if err == calendar.ErrNotConfigured {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "calendar integration is not configured"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"auth_url": url})
}

// CalendarCallback finishes the OAuth exchange. Google redirects here; no
// bearer token is present, identity rides in the state parameter.
// GET /api/calendar/callback?state=...&code=...
func CalendarCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state and code are required"})
		return
	}

	conn, err := CalendarService.HandleCallback(c.Request.Context(), state, code)
	if err == calendar.ErrStateExpired {
		c.JSON(http.StatusBadRequest, gin.H{"error": "authorization expired, restart the connect flow"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": true, "staff_id": conn.StaffID, "provider": conn.Provider})
}

// CalendarStatus reports whether a staff member has a linked calendar.
// GET /api/calendar/status?staff_id=...
func CalendarStatus(c *gin.Context) {
	orgCtx, ok := orgContext(c)
	if !ok {
		return
	}
	staffID := c.Query("staff_id")
	if staffID == "" {
		staffID = orgCtx.UserID
	}

	conn, connected, err := CalendarService.Status(c.Request.Context(), orgCtx.OrganizationID, staffID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": connected, "connection": conn})
}

// DisconnectCalendar removes a staff member's calendar link.
// DELETE /api/calendar
func DisconnectCalendar(c *gin.Context) {
	orgCtx, ok := orgContext(c)
	if !ok {
		return
	}
	staffID := c.Query("staff_id")
	if staffID == "" {
		staffID = orgCtx.UserID
	}
	if err := CalendarService.Disconnect(c.Request.Context(), orgCtx.OrganizationID, staffID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": false})
}
