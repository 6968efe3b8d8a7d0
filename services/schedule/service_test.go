package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogRepo "gymflow/database/repository/catalog"
	"gymflow/database/repository/rules"
	"gymflow/models"
	"gymflow/services/booking"
)

// stubRuleRepo implements only the methods the schedule service touches;
// anything else panics via the embedded nil interface.
type stubRuleRepo struct {
	rulesRepo.RuleRepository
	rules     []models.AvailabilityRule
	overrides []models.AvailabilityOverride
	holidays  []models.Holiday
}

func (s *stubRuleRepo) CreateRule(ctx context.Context, rule *models.AvailabilityRule) error {
	s.rules = append(s.rules, *rule)
	return nil
}

func (s *stubRuleRepo) UpdateRule(ctx context.Context, rule *models.AvailabilityRule) error {
	for i := range s.rules {
		if s.rules[i].ID == rule.ID {
			s.rules[i] = *rule
			return nil
		}
	}
	return rulesRepo.ErrNotFound
}

func (s *stubRuleRepo) GetRuleByID(ctx context.Context, orgID, ruleID string) (*models.AvailabilityRule, error) {
	for i := range s.rules {
		if s.rules[i].ID == ruleID {
			rule := s.rules[i]
			return &rule, nil
		}
	}
	return nil, rulesRepo.ErrNotFound
}

func (s *stubRuleRepo) ListRulesForStaff(ctx context.Context, orgID, staffID string) ([]models.AvailabilityRule, error) {
	var out []models.AvailabilityRule
	for _, r := range s.rules {
		if r.StaffID == staffID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubRuleRepo) UpsertOverride(ctx context.Context, override *models.AvailabilityOverride) error {
	s.overrides = append(s.overrides, *override)
	return nil
}

func (s *stubRuleRepo) CreateHoliday(ctx context.Context, holiday *models.Holiday) error {
	s.holidays = append(s.holidays, *holiday)
	return nil
}

func (s *stubRuleRepo) ListStaffWithRules(ctx context.Context, orgID string) ([]string, error) {
	return nil, nil
}

type stubCatalogRepo struct {
	catalogRepo.CatalogRepository
	types    map[string]*models.AppointmentType
	sessions map[string]*models.ClassSession
}

func newStubCatalogRepo() *stubCatalogRepo {
	return &stubCatalogRepo{
		types:    make(map[string]*models.AppointmentType),
		sessions: make(map[string]*models.ClassSession),
	}
}

func (s *stubCatalogRepo) CreateAppointmentType(ctx context.Context, at *models.AppointmentType) error {
	copied := *at
	s.types[at.ID] = &copied
	return nil
}

func (s *stubCatalogRepo) GetAppointmentType(ctx context.Context, orgID, id string) (*models.AppointmentType, error) {
	at, ok := s.types[id]
	if !ok {
		return nil, rulesRepo.ErrNotFound
	}
	copied := *at
	return &copied, nil
}

func (s *stubCatalogRepo) CreateSession(ctx context.Context, session *models.ClassSession) error {
	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

func (s *stubCatalogRepo) GetSession(ctx context.Context, orgID, id string) (*models.ClassSession, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, rulesRepo.ErrNotFound
	}
	copied := *sess
	return &copied, nil
}

func (s *stubCatalogRepo) MarkSessionCancelled(ctx context.Context, orgID, id string) error {
	sess, ok := s.sessions[id]
	if !ok {
		return rulesRepo.ErrNotFound
	}
	sess.Cancelled = true
	return nil
}

func mustTime(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func adminCtx() models.OrganizationContext {
	return models.OrganizationContext{UserID: "a1", OrganizationID: "org1", Role: models.RoleAdmin}
}

func memberCtx() models.OrganizationContext {
	return models.OrganizationContext{UserID: "u1", OrganizationID: "org1", Role: models.RoleClient}
}

func newTestService() (*DefaultService, *stubRuleRepo, *stubCatalogRepo) {
	rules := &stubRuleRepo{}
	catalog := newStubCatalogRepo()
	return &DefaultService{Rules: rules, Catalog: catalog}, rules, catalog
}

func validRule(id, staffID string) *models.AvailabilityRule {
	return &models.AvailabilityRule{
		ID:          id,
		StaffID:     staffID,
		DayOfWeek:   1,
		StartMinute: 9 * 60,
		EndMinute:   17 * 60,
		Timezone:    "Europe/London",
	}
}

func TestCreateRuleValid(t *testing.T) {
	svc, repo, _ := newTestService()

	err := svc.CreateRule(context.Background(), adminCtx(), validRule("r1", "s1"))
	require.NoError(t, err)
	require.Len(t, repo.rules, 1)
	assert.True(t, repo.rules[0].Enabled)
	assert.Equal(t, "org1", repo.rules[0].OrganizationID)
}

func TestCreateRuleRequiresManagerRole(t *testing.T) {
	svc, _, _ := newTestService()

	err := svc.CreateRule(context.Background(), memberCtx(), validRule("r1", "s1"))
	assert.Equal(t, booking.CodeUnauthorized, booking.CodeOf(err))
}

func TestCreateRuleRejectsBadShape(t *testing.T) {
	svc, _, _ := newTestService()

	inverted := validRule("r1", "s1")
	inverted.StartMinute = 17 * 60
	inverted.EndMinute = 9 * 60
	err := svc.CreateRule(context.Background(), adminCtx(), inverted)
	assert.Equal(t, booking.CodeInvalidInput, booking.CodeOf(err))

	badDay := validRule("r2", "s1")
	badDay.DayOfWeek = 7
	err = svc.CreateRule(context.Background(), adminCtx(), badDay)
	assert.Equal(t, booking.CodeInvalidInput, booking.CodeOf(err))

	badTz := validRule("r3", "s1")
	badTz.Timezone = "Mars/Olympus"
	err = svc.CreateRule(context.Background(), adminCtx(), badTz)
	assert.Equal(t, booking.CodeInvalidInput, booking.CodeOf(err))
}

func TestCreateRuleRejectsOverlap(t *testing.T) {
	svc, _, _ := newTestService()

	require.NoError(t, svc.CreateRule(context.Background(), adminCtx(), validRule("r1", "s1")))

	overlapping := validRule("r2", "s1")
	overlapping.StartMinute = 16 * 60
	overlapping.EndMinute = 20 * 60
	err := svc.CreateRule(context.Background(), adminCtx(), overlapping)
	assert.Equal(t, booking.CodeInvalidInput, booking.CodeOf(err))

	// Same hours on a different weekday are fine.
	otherDay := validRule("r3", "s1")
	otherDay.DayOfWeek = 2
	assert.NoError(t, svc.CreateRule(context.Background(), adminCtx(), otherDay))

	// Same hours for another staff member are fine.
	otherStaff := validRule("r4", "s2")
	assert.NoError(t, svc.CreateRule(context.Background(), adminCtx(), otherStaff))
}

func TestUpsertOverrideValidation(t *testing.T) {
	svc, repo, _ := newTestService()
	start := 10 * 60
	end := 9 * 60

	err := svc.UpsertOverride(context.Background(), adminCtx(), &models.AvailabilityOverride{
		StaffID: "s1", Date: "not-a-date", Available: true,
	})
	assert.Equal(t, booking.CodeInvalidInput, booking.CodeOf(err))

	err = svc.UpsertOverride(context.Background(), adminCtx(), &models.AvailabilityOverride{
		StaffID: "s1", Date: "2030-06-03", Available: true, StartMinute: &start, EndMinute: &end,
	})
	assert.Equal(t, booking.CodeInvalidInput, booking.CodeOf(err))

	err = svc.UpsertOverride(context.Background(), adminCtx(), &models.AvailabilityOverride{
		StaffID: "s1", Date: "2030-06-03", Available: false,
	})
	require.NoError(t, err)
	assert.Len(t, repo.overrides, 1)
}

func TestCreateHolidayValidation(t *testing.T) {
	svc, repo, _ := newTestService()

	err := svc.CreateHoliday(context.Background(), adminCtx(), &models.Holiday{
		Name: "Backwards", StartDate: "2030-12-31", EndDate: "2030-12-24",
	})
	assert.Equal(t, booking.CodeInvalidInput, booking.CodeOf(err))

	err = svc.CreateHoliday(context.Background(), adminCtx(), &models.Holiday{
		Name: "Festive break", StartDate: "2030-12-24", EndDate: "2030-12-31",
	})
	require.NoError(t, err)
	assert.Len(t, repo.holidays, 1)
}

func TestCreateAppointmentTypeValidation(t *testing.T) {
	svc, _, catalog := newTestService()

	err := svc.CreateAppointmentType(context.Background(), adminCtx(), &models.AppointmentType{
		ID: "t1", Name: "", DurationMinutes: 30,
	})
	assert.Equal(t, booking.CodeInvalidInput, booking.CodeOf(err))

	err = svc.CreateAppointmentType(context.Background(), adminCtx(), &models.AppointmentType{
		ID: "t2", Name: "PT 45", DurationMinutes: 0,
	})
	assert.Equal(t, booking.CodeInvalidInput, booking.CodeOf(err))

	err = svc.CreateAppointmentType(context.Background(), adminCtx(), &models.AppointmentType{
		ID: "t3", Name: "PT 45", DurationMinutes: 45, BufferAfter: 10,
	})
	require.NoError(t, err)
	created, err := catalog.GetAppointmentType(context.Background(), "org1", "t3")
	require.NoError(t, err)
	assert.True(t, created.Active)
}

func TestCreateAndCancelSession(t *testing.T) {
	svc, _, catalog := newTestService()

	err := svc.CreateSession(context.Background(), adminCtx(), &models.ClassSession{
		ID: "sess1", Name: "Spin", MaxCapacity: 0,
	})
	assert.Equal(t, booking.CodeInvalidInput, booking.CodeOf(err))

	session := &models.ClassSession{
		ID: "sess1", Name: "Spin", MaxCapacity: 12,
		StartTime: mustTime("2030-06-03T18:00:00Z"), EndTime: mustTime("2030-06-03T19:00:00Z"),
	}
	require.NoError(t, svc.CreateSession(context.Background(), adminCtx(), session))

	require.NoError(t, svc.CancelSession(context.Background(), adminCtx(), "sess1"))
	got, err := catalog.GetSession(context.Background(), "org1", "sess1")
	require.NoError(t, err)
	assert.True(t, got.Cancelled)
}
