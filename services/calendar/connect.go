package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"gymflow/database/repository/rules"
	"gymflow/models"
	"gymflow/utils"
)

const (
	oauthStatePrefix = "oauthstate:"
	oauthStateTTL    = 10 * time.Minute
)

var (
	// ErrStateExpired means the OAuth state was not found or timed out.
	ErrStateExpired = errors.New("oauth state expired or unknown")
	// ErrNotConfigured means Google OAuth credentials are missing.
	ErrNotConfigured = errors.New("calendar integration is not configured")
)

// ConnectService runs the calendar linking flow: it hands out consent URLs,
// finishes the token exchange on callback and stores the resulting
// connection per staff member.
type ConnectService struct {
	Rules rulesRepo.RuleRepository
}

type oauthState struct {
	OrganizationID string `json:"organization_id"`
	StaffID        string `json:"staff_id"`
}

// AuthURL returns the Google consent URL for linking a staff member's
// calendar. The one-time state token expires after ten minutes.
func (s *ConnectService) AuthURL(ctx context.Context, orgID, staffID string) (string, error) {
	cfg := OAuthConfig()
	if cfg == nil {
		return "", ErrNotConfigured
	}
	state := uuid.New().String()
	payload, _ := json.Marshal(oauthState{OrganizationID: orgID, StaffID: staffID})

	client := utils.GetCacheClient()
	if client == nil {
		return "", ErrNotConfigured
	}
	if err := client.Set(ctx, oauthStatePrefix+state, payload, oauthStateTTL).Err(); err != nil {
		return "", err
	}
	return cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// HandleCallback exchanges the authorization code and saves the connection.
func (s *ConnectService) HandleCallback(ctx context.Context, state, code string) (*models.CalendarConnection, error) {
	cfg := OAuthConfig()
	if cfg == nil {
		return nil, ErrNotConfigured
	}
	client := utils.GetCacheClient()
	if client == nil {
		return nil, ErrNotConfigured
	}

	payload, err := client.Get(ctx, oauthStatePrefix+state).Result()
	if err != nil {
		return nil, ErrStateExpired
	}
	client.Del(ctx, oauthStatePrefix+state)

	var st oauthState
	if err := json.Unmarshal([]byte(payload), &st); err != nil {
		return nil, ErrStateExpired
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	tokenJSON, err := json.Marshal(token)
	if err != nil {
		return nil, err
	}

	conn := &models.CalendarConnection{
		OrganizationID: st.OrganizationID,
		StaffID:        st.StaffID,
		Provider:       "google",
		CalendarID:     "primary",
		TokenJSON:      string(tokenJSON),
		ConnectedAt:    time.Now().UTC(),
	}
	if err := s.Rules.SaveCalendarConnection(ctx, conn); err != nil {
		return nil, err
	}
	utils.GetLogger().Info("calendar connected",
		zap.String("staffID", st.StaffID), zap.String("provider", conn.Provider))
	return conn, nil
}

// Status reports whether a staff member has a linked calendar.
func (s *ConnectService) Status(ctx context.Context, orgID, staffID string) (*models.CalendarConnection, bool, error) {
	conn, err := s.Rules.GetCalendarConnection(ctx, orgID, staffID)
	if err == rulesRepo.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	// Never leak the token through status responses.
	redacted := *conn
	redacted.TokenJSON = ""
	return &redacted, true, nil
}

// Disconnect removes a staff member's calendar link.
func (s *ConnectService) Disconnect(ctx context.Context, orgID, staffID string) error {
	return s.Rules.DeleteCalendarConnection(ctx, orgID, staffID)
}
