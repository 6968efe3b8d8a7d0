package bookingsRepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// WithTransaction runs fn inside a single MongoDB transaction. The engine's
// commit paths re-run their conflict checks with the session context before
// writing, so two concurrent conflicting requests cannot both commit: the
// loser aborts and surfaces a conflict.
func (r *mongoBookingRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	client := r.bookings.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}
