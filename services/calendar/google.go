package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"gymflow/config"
	"gymflow/database/repository/rules"
	"gymflow/models"
)

// GoogleBusySource reads busy intervals from a staff member's linked Google
// Calendar through the FreeBusy endpoint.
type GoogleBusySource struct {
	Rules rulesRepo.RuleRepository
}

// NewGoogleBusySource constructs a BusySource backed by Google Calendar.
func NewGoogleBusySource(rules rulesRepo.RuleRepository) *GoogleBusySource {
	return &GoogleBusySource{Rules: rules}
}

// OAuthConfig builds the OAuth2 config for the calendar connect flow.
// Returns nil when credentials are not configured.
func OAuthConfig() *oauth2.Config {
	cfg := config.AppConfig
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" || cfg.GoogleRedirectURL == "" {
		return nil
	}
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes: []string{
			gcal.CalendarReadonlyScope,
		},
		Endpoint: google.Endpoint,
	}
}

func (s *GoogleBusySource) FetchBusyIntervals(ctx context.Context, orgID, staffID string, from, to time.Time) ([]models.BusyInterval, error) {
	conn, err := s.Rules.GetCalendarConnection(ctx, orgID, staffID)
	if err == rulesRepo.ErrNotFound {
		return nil, ErrNotConnected
	}
	if err != nil {
		return nil, fmt.Errorf("calendar connection lookup failed: %w", err)
	}

	oauthCfg := OAuthConfig()
	if oauthCfg == nil {
		return nil, ErrNotConnected
	}

	var token oauth2.Token
	if err := json.Unmarshal([]byte(conn.TokenJSON), &token); err != nil {
		return nil, fmt.Errorf("stored calendar token is invalid: %w", err)
	}

	client := oauthCfg.Client(ctx, &token)
	svc, err := gcal.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	calendarID := conn.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	req := &gcal.FreeBusyRequest{
		TimeMin: from.Format(time.RFC3339),
		TimeMax: to.Format(time.RFC3339),
		Items:   []*gcal.FreeBusyRequestItem{{Id: calendarID}},
	}
	resp, err := svc.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("freebusy query failed: %w", err)
	}

	var intervals []models.BusyInterval
	for _, cal := range resp.Calendars {
		for _, period := range cal.Busy {
			start, err := time.Parse(time.RFC3339, period.Start)
			if err != nil {
				continue
			}
			end, err := time.Parse(time.RFC3339, period.End)
			if err != nil {
				continue
			}
			intervals = append(intervals, models.BusyInterval{Start: start.UTC(), End: end.UTC()})
		}
	}
	return intervals, nil
}
