package schedule

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gymflow/models"
	"gymflow/services/booking"
)

func (s *DefaultService) CreateAppointmentType(ctx context.Context, orgCtx models.OrganizationContext, at *models.AppointmentType) error {
	if err := s.requireManager(orgCtx); err != nil {
		return err
	}
	at.OrganizationID = orgCtx.OrganizationID
	at.Active = true
	if err := validateAppointmentType(at); err != nil {
		return err
	}
	if err := s.Catalog.CreateAppointmentType(ctx, at); err != nil {
		return err
	}
	logScheduleChange("appointment type created",
		zap.String("typeID", at.ID), zap.String("name", at.Name))
	return nil
}

func (s *DefaultService) UpdateAppointmentType(ctx context.Context, orgCtx models.OrganizationContext, at *models.AppointmentType) error {
	if err := s.requireManager(orgCtx); err != nil {
		return err
	}
	existing, err := s.Catalog.GetAppointmentType(ctx, orgCtx.OrganizationID, at.ID)
	if err != nil {
		return booking.NewNotFound("appointment type %s not found", at.ID)
	}
	at.OrganizationID = orgCtx.OrganizationID
	at.CreatedAt = existing.CreatedAt
	if err := validateAppointmentType(at); err != nil {
		return err
	}
	if err := s.Catalog.UpdateAppointmentType(ctx, at); err != nil {
		return err
	}
	logScheduleChange("appointment type updated", zap.String("typeID", at.ID))
	return nil
}

func (s *DefaultService) ListAppointmentTypes(ctx context.Context, orgCtx models.OrganizationContext, activeOnly bool) ([]models.AppointmentType, error) {
	return s.Catalog.ListAppointmentTypes(ctx, orgCtx.OrganizationID, activeOnly)
}

func validateAppointmentType(at *models.AppointmentType) error {
	if at.Name == "" {
		return booking.NewInvalidInput("name is required")
	}
	if at.DurationMinutes <= 0 {
		return booking.NewInvalidInput("duration_minutes must be positive")
	}
	if at.BufferAfter < 0 {
		return booking.NewInvalidInput("buffer_after must not be negative")
	}
	return nil
}

func (s *DefaultService) CreateSession(ctx context.Context, orgCtx models.OrganizationContext, session *models.ClassSession) error {
	if err := s.requireManager(orgCtx); err != nil {
		return err
	}
	session.OrganizationID = orgCtx.OrganizationID
	if session.Name == "" {
		return booking.NewInvalidInput("name is required")
	}
	if session.MaxCapacity <= 0 {
		return booking.NewInvalidInput("max_capacity must be positive")
	}
	if session.StartTime.IsZero() || !session.EndTime.After(session.StartTime) {
		return booking.NewInvalidInput("session end_time must be after start_time")
	}
	session.StartTime = session.StartTime.UTC()
	session.EndTime = session.EndTime.UTC()
	if err := s.Catalog.CreateSession(ctx, session); err != nil {
		return err
	}
	logScheduleChange("class session created",
		zap.String("sessionID", session.ID), zap.String("name", session.Name),
		zap.Time("start", session.StartTime), zap.Int("capacity", session.MaxCapacity))
	return nil
}

// CancelSession marks the session cancelled. Existing bookings stay on
// record; callers decide whether to notify or cancel attendees separately.
func (s *DefaultService) CancelSession(ctx context.Context, orgCtx models.OrganizationContext, sessionID string) error {
	if err := s.requireManager(orgCtx); err != nil {
		return err
	}
	if _, err := s.Catalog.GetSession(ctx, orgCtx.OrganizationID, sessionID); err != nil {
		return booking.NewNotFound("session %s not found", sessionID)
	}
	if err := s.Catalog.MarkSessionCancelled(ctx, orgCtx.OrganizationID, sessionID); err != nil {
		return err
	}
	logScheduleChange("class session cancelled", zap.String("sessionID", sessionID))
	return nil
}

func (s *DefaultService) ListSessions(ctx context.Context, orgCtx models.OrganizationContext, fromDate, toDate string) ([]models.ClassSession, error) {
	from, err := time.Parse("2006-01-02", fromDate)
	if err != nil {
		return nil, booking.NewInvalidInput("invalid from date %q", fromDate)
	}
	to, err := time.Parse("2006-01-02", toDate)
	if err != nil {
		return nil, booking.NewInvalidInput("invalid to date %q", toDate)
	}
	return s.Catalog.ListSessions(ctx, orgCtx.OrganizationID, from, to.Add(24*time.Hour))
}
