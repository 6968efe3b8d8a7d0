package rulesRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"gymflow/database"
	"gymflow/models"
	"gymflow/utils"
)

// RuleRepository is the persistence port for scheduling configuration:
// recurring availability rules, date overrides, holidays and external
// calendar connections. All reads and writes are tenant-scoped.
type RuleRepository interface {
	CreateRule(ctx context.Context, rule *models.AvailabilityRule) error
	UpdateRule(ctx context.Context, rule *models.AvailabilityRule) error
	SetRuleEnabled(ctx context.Context, orgID, ruleID string, enabled bool) error
	GetRuleByID(ctx context.Context, orgID, ruleID string) (*models.AvailabilityRule, error)
	ListRulesForStaff(ctx context.Context, orgID, staffID string) ([]models.AvailabilityRule, error)
	// ListStaffWithRules returns the ids of staff members that have at
	// least one enabled availability rule in the organization.
	ListStaffWithRules(ctx context.Context, orgID string) ([]string, error)

	UpsertOverride(ctx context.Context, override *models.AvailabilityOverride) error
	DeleteOverride(ctx context.Context, orgID, overrideID string) error
	ListOverrides(ctx context.Context, orgID, staffID, fromDate, toDate string) ([]models.AvailabilityOverride, error)

	CreateHoliday(ctx context.Context, holiday *models.Holiday) error
	DeleteHoliday(ctx context.Context, orgID, holidayID string) error
	ListHolidays(ctx context.Context, orgID, fromDate, toDate string) ([]models.Holiday, error)

	SaveCalendarConnection(ctx context.Context, conn *models.CalendarConnection) error
	GetCalendarConnection(ctx context.Context, orgID, staffID string) (*models.CalendarConnection, error)
	DeleteCalendarConnection(ctx context.Context, orgID, staffID string) error
}

type mongoRuleRepo struct {
	rules       *mongo.Collection
	overrides   *mongo.Collection
	holidays    *mongo.Collection
	connections *mongo.Collection
}

// NewMongoRuleRepo constructs a new MongoDB RuleRepository and ensures its
// indexes exist.
func NewMongoRuleRepo() RuleRepository {
	db := database.DB()
	repo := &mongoRuleRepo{
		rules:       db.Collection("availability_rules"),
		overrides:   db.Collection("availability_overrides"),
		holidays:    db.Collection("holidays"),
		connections: db.Collection("calendar_connections"),
	}
	if err := repo.EnsureIndexes(); err != nil {
		utils.GetLogger().Warn("rule repo index creation failed", zap.Error(err))
	}
	return repo
}
