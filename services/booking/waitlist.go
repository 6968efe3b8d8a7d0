package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	catalogRepo "gymflow/database/repository/catalog"
	"gymflow/models"
	"gymflow/utils"
)

// waitlistPosition is the 1-based rank a request joining at requestedAt
// holds on the session waitlist. Must run inside the same transaction as
// the insert so concurrent joins see gapless positions.
func (e *DefaultEngine) waitlistPosition(ctx context.Context, orgID, sessionID string, requestedAt time.Time) (int, error) {
	waitlist, err := e.Bookings.ListWaitlist(ctx, orgID, sessionID)
	if err != nil {
		return 0, err
	}
	position := 1
	for _, entry := range waitlist {
		if entry.RequestedAt.Before(requestedAt) {
			position++
		}
	}
	return position, nil
}

// promoteNext fills a freed seat from the waitlist in request order. Each
// candidate is re-checked before promotion; one failing its check is left
// waitlisted and the next is tried, so a stale entry never wedges the
// queue. Returns the promoted booking, or nil when nobody qualified.
func (e *DefaultEngine) promoteNext(ctx context.Context, orgID, sessionID string) (*models.Booking, error) {
	session, err := e.Catalog.GetSession(ctx, orgID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Cancelled {
		return nil, nil
	}

	var promoted *models.Booking
	err = e.Bookings.WithTransaction(ctx, func(sc context.Context) error {
		promoted = nil
		if err := e.Catalog.ReserveSeat(sc, orgID, sessionID); err != nil {
			if errors.Is(err, catalogRepo.ErrSessionFull) {
				return nil
			}
			return err
		}
		waitlist, err := e.Bookings.ListWaitlist(sc, orgID, sessionID)
		if err != nil {
			return err
		}
		for i := range waitlist {
			candidate := waitlist[i]
			if err := e.checkClientFree(sc, orgID, candidate.ClientID, session.StartTime, session.EndTime, candidate.ID); err != nil {
				if IsConflict(err) {
					continue
				}
				return err
			}
			candidate.Status = models.BookingStatusConfirmed
			candidate.UpdatedAt = time.Now().UTC()
			if err := e.Bookings.Update(sc, &candidate); err != nil {
				return err
			}
			promoted = &candidate
			return nil
		}
		// Nobody qualified; hand the seat back.
		return e.Catalog.ReleaseSeat(sc, orgID, sessionID)
	})
	if err != nil {
		return nil, err
	}

	if promoted != nil {
		utils.GetLogger().Info("waitlist entry promoted",
			zap.String("bookingID", promoted.ID),
			zap.String("sessionID", sessionID))
		if e.Notifier != nil {
			e.Notifier.BookingPromoted(ctx, promoted)
		}
	}
	return promoted, nil
}
