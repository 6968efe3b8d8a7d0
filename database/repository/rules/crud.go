package rulesRepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gymflow/models"
)

// ErrNotFound is returned when a scoped document does not exist.
var ErrNotFound = errors.New("document not found")

func (r *mongoRuleRepo) CreateRule(ctx context.Context, rule *models.AvailabilityRule) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	rule.CreatedAt = time.Now().UTC()
	_, err := r.rules.InsertOne(ctx, rule)
	return err
}

func (r *mongoRuleRepo) UpdateRule(ctx context.Context, rule *models.AvailabilityRule) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rule.UpdatedAt = time.Now().UTC()
	filter := bson.M{"id": rule.ID, "organization_id": rule.OrganizationID}
	res, err := r.rules.ReplaceOne(ctx, filter, rule)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoRuleRepo) SetRuleEnabled(ctx context.Context, orgID, ruleID string, enabled bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": ruleID, "organization_id": orgID}
	update := bson.M{"$set": bson.M{"enabled": enabled, "updated_at": time.Now().UTC()}}
	res, err := r.rules.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoRuleRepo) GetRuleByID(ctx context.Context, orgID, ruleID string) (*models.AvailabilityRule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rule models.AvailabilityRule
	err := r.rules.FindOne(ctx, bson.M{"id": ruleID, "organization_id": orgID}).Decode(&rule)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *mongoRuleRepo) ListRulesForStaff(ctx context.Context, orgID, staffID string) ([]models.AvailabilityRule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"organization_id": orgID, "staff_id": staffID}
	opts := options.Find().SetSort(bson.D{{Key: "day_of_week", Value: 1}, {Key: "start_minute", Value: 1}})
	cursor, err := r.rules.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rules []models.AvailabilityRule
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *mongoRuleRepo) ListStaffWithRules(ctx context.Context, orgID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"organization_id": orgID, "enabled": true}
	raw, err := r.rules.Distinct(ctx, "staff_id", filter)
	if err != nil {
		return nil, err
	}
	staff := make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok {
			staff = append(staff, id)
		}
	}
	return staff, nil
}

func (r *mongoRuleRepo) UpsertOverride(ctx context.Context, override *models.AvailabilityOverride) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if override.ID == "" {
		override.ID = uuid.New().String()
	}
	override.CreatedAt = time.Now().UTC()

	// One override per staff per date; a later write replaces the earlier one.
	filter := bson.M{
		"organization_id": override.OrganizationID,
		"staff_id":        override.StaffID,
		"date":            override.Date,
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.overrides.ReplaceOne(ctx, filter, override, opts)
	return err
}

func (r *mongoRuleRepo) DeleteOverride(ctx context.Context, orgID, overrideID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.overrides.DeleteOne(ctx, bson.M{"id": overrideID, "organization_id": orgID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoRuleRepo) ListOverrides(ctx context.Context, orgID, staffID, fromDate, toDate string) ([]models.AvailabilityOverride, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"organization_id": orgID,
		"staff_id":        staffID,
		"date":            bson.M{"$gte": fromDate, "$lte": toDate},
	}
	cursor, err := r.overrides.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var overrides []models.AvailabilityOverride
	if err := cursor.All(ctx, &overrides); err != nil {
		return nil, err
	}
	return overrides, nil
}

func (r *mongoRuleRepo) CreateHoliday(ctx context.Context, holiday *models.Holiday) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if holiday.ID == "" {
		holiday.ID = uuid.New().String()
	}
	holiday.CreatedAt = time.Now().UTC()
	_, err := r.holidays.InsertOne(ctx, holiday)
	return err
}

func (r *mongoRuleRepo) DeleteHoliday(ctx context.Context, orgID, holidayID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.holidays.DeleteOne(ctx, bson.M{"id": holidayID, "organization_id": orgID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoRuleRepo) ListHolidays(ctx context.Context, orgID, fromDate, toDate string) ([]models.Holiday, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Range overlap on date strings: holiday [start_date, end_date] touches
	// the query window [fromDate, toDate].
	filter := bson.M{
		"organization_id": orgID,
		"start_date":      bson.M{"$lte": toDate},
		"end_date":        bson.M{"$gte": fromDate},
	}
	cursor, err := r.holidays.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var holidays []models.Holiday
	if err := cursor.All(ctx, &holidays); err != nil {
		return nil, err
	}
	return holidays, nil
}

func (r *mongoRuleRepo) SaveCalendarConnection(ctx context.Context, conn *models.CalendarConnection) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	conn.ConnectedAt = time.Now().UTC()
	filter := bson.M{"organization_id": conn.OrganizationID, "staff_id": conn.StaffID}
	opts := options.Replace().SetUpsert(true)
	_, err := r.connections.ReplaceOne(ctx, filter, conn, opts)
	return err
}

func (r *mongoRuleRepo) GetCalendarConnection(ctx context.Context, orgID, staffID string) (*models.CalendarConnection, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var conn models.CalendarConnection
	err := r.connections.FindOne(ctx, bson.M{"organization_id": orgID, "staff_id": staffID}).Decode(&conn)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

func (r *mongoRuleRepo) DeleteCalendarConnection(ctx context.Context, orgID, staffID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.connections.DeleteOne(ctx, bson.M{"organization_id": orgID, "staff_id": staffID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
