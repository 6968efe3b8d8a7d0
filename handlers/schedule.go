package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gymflow/models"
)

// CreateRule adds a recurring weekly availability rule.
// POST /api/schedule/rules
func CreateRule(c *gin.Context) {
	orgCtx, ok := orgContext(c)
	if !ok {
		return
	}
	var rule models.AvailabilityRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := ScheduleService.CreateRule(c.Request.Context(), orgCtx, &rule); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rule)
}

// UpdateRule replaces an existing rule's schedule fields.
// PUT /api/schedule/rules/:id
func UpdateRule(c *gin.Context) {
	orgCtx, ok := orgContext(c)
	if !ok {
		return
	}
	var rule models.AvailabilityRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	rule.ID = c.Param("id")
	if err := ScheduleService.UpdateRule(c.Request.Context(), orgCtx, &rule); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

// SetRuleEnabled toggles a rule on or off without deleting it.
// PATCH /api/schedule/rules/:id/enabled
func SetRuleEnabled(c *gin.Context) {
	orgCtx, ok := orgContext(c)
	if !ok {
		return
	}
	var input struct {
		Enabled *bool `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Enabled == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "enabled is required"})
		return
	}
	if err := ScheduleService.SetRuleEnabled(c.Request.Context(), orgCtx, c.Param("id"), *input.Enabled); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "enabled": *input.Enabled})
}

// ListRules returns a staff member's weekly rules.
// GET /api/schedule/rules?staff_id=...
func ListRules(c *gin.Context) {
	orgCtx, ok := orgContext(c)
	if !ok {
		return
	}
	rules, err := ScheduleService.ListRules(c.Request.Context(), orgCtx, c.Query("staff_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

// UpsertOverride saves the single override for a staff member and date.
// PUT /api/schedule/overrides
func UpsertOverride(c *gin.Context) {
	orgCtx, ok := orgContext(c)
	if !ok {
		return
	}
	var override models.AvailabilityOverride
	if err := c.ShouldBindJSON(&override); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := ScheduleService.UpsertOverride(c.Request.Context(), orgCtx, &override); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, override)
}

// DeleteOverride removes a date override.
// DELETE /api/schedule/overrides/:id?staff_id=...
func DeleteOverride(c *gin.Context) {
	orgCtx, ok := orgContext(c)
	if !ok {
		return
	}
	if err := ScheduleService.DeleteOverride(c.Request.Context(), orgCtx, c.Param("id"), c.Query("staff_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// ListOverrides returns overrides for a staff member in a date range.
// GET /api/schedule/overrides?staff_id=...&from=...&to=...
func ListOverrides(c *gin.Context) {
	orgCtx, ok := orgContext(c)
	if !ok {
		return
	}
	overrides, err := ScheduleService.ListOverrides(c.Request.Context(), orgCtx,
		c.Query("staff_id"), c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"overrides": overrides})
}

// CreateHoliday blocks a date range for the whole org or one staff member.
// POST /api/schedule/holidays
func CreateHoliday(c *gin.Context) {
	orgCtx, ok := orgContext(c)
	if !ok {
		return
	}
	var holiday models.Holiday
	if err := c.ShouldBindJSON(&holiday); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := ScheduleService.CreateHoliday(c.Request.Context(), orgCtx, &holiday); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, holiday)
}

// DeleteHoliday removes a holiday.
// DELETE /api/schedule/holidays/:id
func DeleteHoliday(c *gin.Context) {
	orgCtx, ok := orgContext(c)
	if !ok {
		return
	}
	if err := ScheduleService.DeleteHoliday(c.Request.Context(), orgCtx, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// ListHolidays returns holidays overlapping a date range.
// GET /api/schedule/holidays?from=...&to=...
func ListHolidays(c *gin.Context) {
	orgCtx, ok := orgContext(c)
	if !ok {
		return
	}
	holidays, err := ScheduleService.ListHolidays(c.Request.Context(), orgCtx, c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"holidays": holidays})
}

// CreateAppointmentType adds a bookable service definition.
// POST /api/schedule/appointment-types
func CreateAppointmentType(c *gin.Context) {
	orgCtx, ok := orgContext(c)
	if !ok {
		return
	}
	var at models.AppointmentType
	if err := c.ShouldBindJSON(&at); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := ScheduleService.CreateAppointmentType(c.Request.Context(), orgCtx, &at); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, at)
}

// UpdateAppointmentType edits a service definition.
// PUT /api/schedule/appointment-types/:id
func UpdateAppointmentType(c *gin.Context) {
	orgCtx, ok := orgContext(c)
	if !ok {
		return
	}
	var at models.AppointmentType
	if err := c.ShouldBindJSON(&at); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	at.ID = c.Param("id")
	if err := ScheduleService.UpdateAppointmentType(c.Request.Context(), orgCtx, &at); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, at)
}

// ListAppointmentTypes lists the org's service definitions.
// GET /api/schedule/appointment-types?active=true
func ListAppointmentTypes(c *gin.Context) {
	orgCtx, ok := orgContext(c)
	if !ok {
		return
	}
	types, err := ScheduleService.ListAppointmentTypes(c.Request.Context(), orgCtx, c.Query("active") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment_types": types})
}

// CreateSession schedules a capacity-based class.
// POST /api/schedule/sessions
func CreateSession(c *gin.Context) {
	orgCtx, ok := orgContext(c)
	if !ok {
		return
	}
	var session models.ClassSession
	if err := c.ShouldBindJSON(&session); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := ScheduleService.CreateSession(c.Request.Context(), orgCtx, &session); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// CancelSession marks a class cancelled.
// DELETE /api/schedule/sessions/:id
func CancelSession(c *gin.Context) {
	orgCtx, ok := orgContext(c)
	if !ok {
		return
	}
	if err := ScheduleService.CancelSession(c.Request.Context(), orgCtx, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": c.Param("id")})
}

// ListSessions lists classes in a date range.
// GET /api/schedule/sessions?from=...&to=...
func ListSessions(c *gin.Context) {
	orgCtx, ok := orgContext(c)
	if !ok {
		return
	}
	sessions, err := ScheduleService.ListSessions(c.Request.Context(), orgCtx, c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}
