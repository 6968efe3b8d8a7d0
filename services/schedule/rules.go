package schedule

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gymflow/models"
	"gymflow/services/booking"
)

const minutesPerDay = 24 * 60

func (s *DefaultService) CreateRule(ctx context.Context, orgCtx models.OrganizationContext, rule *models.AvailabilityRule) error {
	if err := s.requireManager(orgCtx); err != nil {
		return err
	}
	rule.OrganizationID = orgCtx.OrganizationID
	rule.Enabled = true
	if err := s.validateRule(ctx, rule); err != nil {
		return err
	}
	if err := s.Rules.CreateRule(ctx, rule); err != nil {
		return err
	}
	s.invalidate(ctx, orgCtx.OrganizationID, rule.StaffID)
	logScheduleChange("availability rule created",
		zap.String("ruleID", rule.ID), zap.String("staffID", rule.StaffID), zap.Int("dayOfWeek", rule.DayOfWeek))
	return nil
}

func (s *DefaultService) UpdateRule(ctx context.Context, orgCtx models.OrganizationContext, rule *models.AvailabilityRule) error {
	if err := s.requireManager(orgCtx); err != nil {
		return err
	}
	existing, err := s.Rules.GetRuleByID(ctx, orgCtx.OrganizationID, rule.ID)
	if err != nil {
		return booking.NewNotFound("rule %s not found", rule.ID)
	}
	rule.OrganizationID = orgCtx.OrganizationID
	rule.StaffID = existing.StaffID
	rule.Enabled = existing.Enabled
	if err := s.validateRule(ctx, rule); err != nil {
		return err
	}
	if err := s.Rules.UpdateRule(ctx, rule); err != nil {
		return err
	}
	s.invalidate(ctx, orgCtx.OrganizationID, rule.StaffID)
	logScheduleChange("availability rule updated", zap.String("ruleID", rule.ID))
	return nil
}

func (s *DefaultService) SetRuleEnabled(ctx context.Context, orgCtx models.OrganizationContext, ruleID string, enabled bool) error {
	if err := s.requireManager(orgCtx); err != nil {
		return err
	}
	rule, err := s.Rules.GetRuleByID(ctx, orgCtx.OrganizationID, ruleID)
	if err != nil {
		return booking.NewNotFound("rule %s not found", ruleID)
	}
	if err := s.Rules.SetRuleEnabled(ctx, orgCtx.OrganizationID, ruleID, enabled); err != nil {
		return err
	}
	s.invalidate(ctx, orgCtx.OrganizationID, rule.StaffID)
	logScheduleChange("availability rule toggled",
		zap.String("ruleID", ruleID), zap.Bool("enabled", enabled))
	return nil
}

func (s *DefaultService) ListRules(ctx context.Context, orgCtx models.OrganizationContext, staffID string) ([]models.AvailabilityRule, error) {
	if staffID == "" {
		return nil, booking.NewInvalidInput("staff_id is required")
	}
	return s.Rules.ListRulesForStaff(ctx, orgCtx.OrganizationID, staffID)
}

// validateRule enforces the shape of a weekly rule and rejects one whose
// minute range overlaps another enabled rule for the same staff member and
// weekday.
func (s *DefaultService) validateRule(ctx context.Context, rule *models.AvailabilityRule) error {
	if rule.StaffID == "" {
		return booking.NewInvalidInput("staff_id is required")
	}
	if rule.DayOfWeek < 0 || rule.DayOfWeek > 6 {
		return booking.NewInvalidInput("day_of_week must be 0 (Sunday) through 6 (Saturday)")
	}
	if rule.StartMinute < 0 || rule.EndMinute > minutesPerDay || rule.StartMinute >= rule.EndMinute {
		return booking.NewInvalidInput("start_minute must precede end_minute within a single day")
	}
	if rule.BufferBefore < 0 || rule.BufferAfter < 0 {
		return booking.NewInvalidInput("buffers must not be negative")
	}
	if rule.Timezone != "" {
		if _, err := time.LoadLocation(rule.Timezone); err != nil {
			return booking.NewInvalidInput("unknown timezone %q", rule.Timezone)
		}
	}

	existing, err := s.Rules.ListRulesForStaff(ctx, rule.OrganizationID, rule.StaffID)
	if err != nil {
		return err
	}
	for _, other := range existing {
		if other.ID == rule.ID || !other.Enabled || other.DayOfWeek != rule.DayOfWeek {
			continue
		}
		if rule.StartMinute < other.EndMinute && other.StartMinute < rule.EndMinute {
			return booking.NewInvalidInput("rule overlaps an existing rule for the same day (%d-%d)",
				other.StartMinute, other.EndMinute)
		}
	}
	return nil
}

func (s *DefaultService) UpsertOverride(ctx context.Context, orgCtx models.OrganizationContext, override *models.AvailabilityOverride) error {
	if err := s.requireManager(orgCtx); err != nil {
		return err
	}
	override.OrganizationID = orgCtx.OrganizationID
	if override.StaffID == "" {
		return booking.NewInvalidInput("staff_id is required")
	}
	if _, err := time.Parse("2006-01-02", override.Date); err != nil {
		return booking.NewInvalidInput("invalid date %q", override.Date)
	}
	if override.StartMinute != nil && (*override.StartMinute < 0 || *override.StartMinute >= minutesPerDay) {
		return booking.NewInvalidInput("start_minute out of range")
	}
	if override.EndMinute != nil && (*override.EndMinute <= 0 || *override.EndMinute > minutesPerDay) {
		return booking.NewInvalidInput("end_minute out of range")
	}
	if override.StartMinute != nil && override.EndMinute != nil && *override.StartMinute >= *override.EndMinute {
		return booking.NewInvalidInput("start_minute must precede end_minute")
	}
	if err := s.Rules.UpsertOverride(ctx, override); err != nil {
		return err
	}
	s.invalidate(ctx, orgCtx.OrganizationID, override.StaffID)
	logScheduleChange("availability override saved",
		zap.String("staffID", override.StaffID), zap.String("date", override.Date))
	return nil
}

func (s *DefaultService) DeleteOverride(ctx context.Context, orgCtx models.OrganizationContext, overrideID, staffID string) error {
	if err := s.requireManager(orgCtx); err != nil {
		return err
	}
	if err := s.Rules.DeleteOverride(ctx, orgCtx.OrganizationID, overrideID); err != nil {
		return booking.NewNotFound("override %s not found", overrideID)
	}
	s.invalidate(ctx, orgCtx.OrganizationID, staffID)
	return nil
}

func (s *DefaultService) ListOverrides(ctx context.Context, orgCtx models.OrganizationContext, staffID, fromDate, toDate string) ([]models.AvailabilityOverride, error) {
	return s.Rules.ListOverrides(ctx, orgCtx.OrganizationID, staffID, fromDate, toDate)
}

func (s *DefaultService) CreateHoliday(ctx context.Context, orgCtx models.OrganizationContext, holiday *models.Holiday) error {
	if err := s.requireManager(orgCtx); err != nil {
		return err
	}
	holiday.OrganizationID = orgCtx.OrganizationID
	if _, err := time.Parse("2006-01-02", holiday.StartDate); err != nil {
		return booking.NewInvalidInput("invalid start_date %q", holiday.StartDate)
	}
	if _, err := time.Parse("2006-01-02", holiday.EndDate); err != nil {
		return booking.NewInvalidInput("invalid end_date %q", holiday.EndDate)
	}
	if holiday.EndDate < holiday.StartDate {
		return booking.NewInvalidInput("end_date precedes start_date")
	}
	if err := s.Rules.CreateHoliday(ctx, holiday); err != nil {
		return err
	}
	s.invalidateAllStaff(ctx, orgCtx.OrganizationID, holiday.StaffID)
	logScheduleChange("holiday created",
		zap.String("holidayID", holiday.ID), zap.String("from", holiday.StartDate), zap.String("to", holiday.EndDate))
	return nil
}

func (s *DefaultService) DeleteHoliday(ctx context.Context, orgCtx models.OrganizationContext, holidayID string) error {
	if err := s.requireManager(orgCtx); err != nil {
		return err
	}
	if err := s.Rules.DeleteHoliday(ctx, orgCtx.OrganizationID, holidayID); err != nil {
		return booking.NewNotFound("holiday %s not found", holidayID)
	}
	s.invalidateAllStaff(ctx, orgCtx.OrganizationID, "")
	return nil
}

func (s *DefaultService) ListHolidays(ctx context.Context, orgCtx models.OrganizationContext, fromDate, toDate string) ([]models.Holiday, error) {
	return s.Rules.ListHolidays(ctx, orgCtx.OrganizationID, fromDate, toDate)
}

// invalidateAllStaff bumps the availability cache for one staff member, or
// for everyone with rules when staffID is empty (org-wide holidays).
func (s *DefaultService) invalidateAllStaff(ctx context.Context, orgID, staffID string) {
	if staffID != "" {
		s.invalidate(ctx, orgID, staffID)
		return
	}
	staffIDs, err := s.Rules.ListStaffWithRules(ctx, orgID)
	if err != nil {
		return
	}
	for _, id := range staffIDs {
		s.invalidate(ctx, orgID, id)
	}
}
