package catalogRepo

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

// ErrSessionFull is returned by ReserveSeat when no seat could be claimed.
var ErrSessionFull = errors.New("session at capacity")

func (r *mongoCatalogRepo) CreateAppointmentType(ctx context.Context, at *models.AppointmentType) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if at.ID == "" {
		at.ID = uuid.New().String()
	}
	at.CreatedAt = time.Now().UTC()
	_, err := r.types.InsertOne(ctx, at)
	return err
}

func (r *mongoCatalogRepo) UpdateAppointmentType(ctx context.Context, at *models.AppointmentType) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	at.UpdatedAt = time.Now().UTC()
	filter := bson.M{"id": at.ID, "organization_id": at.OrganizationID}
	res, err := r.types.ReplaceOne(ctx, filter, at)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoCatalogRepo) GetAppointmentType(ctx context.Context, orgID, id string) (*models.AppointmentType, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var at models.AppointmentType
	err := r.types.FindOne(ctx, bson.M{"id": id, "organization_id": orgID}).Decode(&at)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &at, nil
}

func (r *mongoCatalogRepo) ListAppointmentTypes(ctx context.Context, orgID string, activeOnly bool) ([]models.AppointmentType, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"organization_id": orgID}
	if activeOnly {
		filter["active"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.types.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var types []models.AppointmentType
	if err := cursor.All(ctx, &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (r *mongoCatalogRepo) CreateSession(ctx context.Context, session *models.ClassSession) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	session.CreatedAt = time.Now().UTC()
	_, err := r.sessions.InsertOne(ctx, session)
	return err
}

func (r *mongoCatalogRepo) GetSession(ctx context.Context, orgID, id string) (*models.ClassSession, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var session models.ClassSession
	err := r.sessions.FindOne(ctx, bson.M{"id": id, "organization_id": orgID}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *mongoCatalogRepo) ListSessions(ctx context.Context, orgID string, from, to time.Time) ([]models.ClassSession, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"organization_id": orgID,
		"start_time":      bson.M{"$gte": from, "$lt": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})
	cursor, err := r.sessions.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []models.ClassSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *mongoCatalogRepo) ReserveSeat(ctx context.Context, orgID, id string) error {
	filter := bson.M{
		"id":              id,
		"organization_id": orgID,
		"cancelled":       false,
		"$expr":           bson.M{"$lt": bson.A{"$seats_taken", "$max_capacity"}},
	}
	res, err := r.sessions.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"seats_taken": 1}})
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return ErrSessionFull
	}
	return nil
}

func (r *mongoCatalogRepo) ReleaseSeat(ctx context.Context, orgID, id string) error {
	filter := bson.M{
		"id":              id,
		"organization_id": orgID,
		"seats_taken":     bson.M{"$gt": 0},
	}
	_, err := r.sessions.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"seats_taken": -1}})
	return err
}

func (r *mongoCatalogRepo) MarkSessionCancelled(ctx context.Context, orgID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "organization_id": orgID}
	res, err := r.sessions.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"cancelled": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
