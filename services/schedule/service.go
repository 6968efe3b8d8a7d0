package schedule

import (
	"context"

	"go.uber.org/zap"

	catalogRepo "gymflow/database/repository/catalog"
	rulesRepo "gymflow/database/repository/rules"
	"gymflow/models"
	"gymflow/services/booking"
	"gymflow/utils"
)

// Service manages the scheduling configuration availability is computed
// from: recurring rules, date overrides, holidays, appointment types and
// class sessions. All writes are admin or staff operations.
type Service interface {
	CreateRule(ctx context.Context, orgCtx models.OrganizationContext, rule *models.AvailabilityRule) error
	UpdateRule(ctx context.Context, orgCtx models.OrganizationContext, rule *models.AvailabilityRule) error
	SetRuleEnabled(ctx context.Context, orgCtx models.OrganizationContext, ruleID string, enabled bool) error
	ListRules(ctx context.Context, orgCtx models.OrganizationContext, staffID string) ([]models.AvailabilityRule, error)

	UpsertOverride(ctx context.Context, orgCtx models.OrganizationContext, override *models.AvailabilityOverride) error
	DeleteOverride(ctx context.Context, orgCtx models.OrganizationContext, overrideID, staffID string) error
	ListOverrides(ctx context.Context, orgCtx models.OrganizationContext, staffID, fromDate, toDate string) ([]models.AvailabilityOverride, error)

	CreateHoliday(ctx context.Context, orgCtx models.OrganizationContext, holiday *models.Holiday) error
	DeleteHoliday(ctx context.Context, orgCtx models.OrganizationContext, holidayID string) error
	ListHolidays(ctx context.Context, orgCtx models.OrganizationContext, fromDate, toDate string) ([]models.Holiday, error)

	CreateAppointmentType(ctx context.Context, orgCtx models.OrganizationContext, at *models.AppointmentType) error
	UpdateAppointmentType(ctx context.Context, orgCtx models.OrganizationContext, at *models.AppointmentType) error
	ListAppointmentTypes(ctx context.Context, orgCtx models.OrganizationContext, activeOnly bool) ([]models.AppointmentType, error)

	CreateSession(ctx context.Context, orgCtx models.OrganizationContext, session *models.ClassSession) error
	CancelSession(ctx context.Context, orgCtx models.OrganizationContext, sessionID string) error
	ListSessions(ctx context.Context, orgCtx models.OrganizationContext, fromDate, toDate string) ([]models.ClassSession, error)
}

// DefaultService is the production implementation. Cache may be nil.
type DefaultService struct {
	Rules   rulesRepo.RuleRepository
	Catalog catalogRepo.CatalogRepository
	Cache   *booking.AvailabilityCache
}

func (s *DefaultService) requireManager(orgCtx models.OrganizationContext) error {
	if !orgCtx.CanManageBookings() {
		return booking.NewUnauthorized("schedule management requires a staff or admin role")
	}
	return nil
}

func (s *DefaultService) invalidate(ctx context.Context, orgID, staffID string) {
	s.Cache.Bump(ctx, orgID, staffID)
}

func logScheduleChange(action string, fields ...zap.Field) {
	utils.GetLogger().Info(action, fields...)
}
