package catalogRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"gymflow/database"
	"gymflow/models"
	"gymflow/utils"
)

// CatalogRepository is the persistence port for appointment types and
// capacity-based class sessions.
type CatalogRepository interface {
	CreateAppointmentType(ctx context.Context, at *models.AppointmentType) error
	UpdateAppointmentType(ctx context.Context, at *models.AppointmentType) error
	GetAppointmentType(ctx context.Context, orgID, id string) (*models.AppointmentType, error)
	ListAppointmentTypes(ctx context.Context, orgID string, activeOnly bool) ([]models.AppointmentType, error)

	CreateSession(ctx context.Context, session *models.ClassSession) error
	GetSession(ctx context.Context, orgID, id string) (*models.ClassSession, error)
	ListSessions(ctx context.Context, orgID string, from, to time.Time) ([]models.ClassSession, error)
	MarkSessionCancelled(ctx context.Context, orgID, id string) error

	// ReserveSeat increments the session seat counter only while seats
	// remain, via a capacity-guarded conditional update on the session
	// document. A full or cancelled session maps to ErrSessionFull.
	ReserveSeat(ctx context.Context, orgID, id string) error
	ReleaseSeat(ctx context.Context, orgID, id string) error
}

type mongoCatalogRepo struct {
	types    *mongo.Collection
	sessions *mongo.Collection
}

// NewMongoCatalogRepo constructs a new MongoDB CatalogRepository and
// ensures its indexes exist.
func NewMongoCatalogRepo() CatalogRepository {
	db := database.DB()
	repo := &mongoCatalogRepo{
		types:    db.Collection("appointment_types"),
		sessions: db.Collection("class_sessions"),
	}
	if err := repo.EnsureIndexes(); err != nil {
		utils.GetLogger().Warn("catalog repo index creation failed", zap.Error(err))
	}
	return repo
}
