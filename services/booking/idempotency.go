package booking

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"gymflow/utils"
)

// IdempotencyStore remembers which booking a request key produced, scoped
// per organization, so a retried request replays the original outcome
// instead of double-booking.
type IdempotencyStore interface {
	Lookup(ctx context.Context, orgID, key string) (bookingID string, ok bool)
	Remember(ctx context.Context, orgID, key, bookingID string)
}

// RedisIdempotencyStore keeps idempotency keys on a dedicated redis client.
// A nil store or nil client disables deduplication rather than blocking
// bookings.
type RedisIdempotencyStore struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisIdempotencyStore builds the store on the shared idempotency
// client with the default key TTL.
func NewRedisIdempotencyStore() *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		Client: utils.GetIdempotencyClient(),
		TTL:    utils.IdempotencyKeyTTL,
	}
}

func (s *RedisIdempotencyStore) key(orgID, key string) string {
	return utils.IdempotencyKeyPrefix + orgID + ":" + key
}

func (s *RedisIdempotencyStore) Lookup(ctx context.Context, orgID, key string) (string, bool) {
	if s == nil || s.Client == nil {
		return "", false
	}
	bookingID, err := s.Client.Get(ctx, s.key(orgID, key)).Result()
	if err != nil || bookingID == "" {
		return "", false
	}
	return bookingID, true
}

func (s *RedisIdempotencyStore) Remember(ctx context.Context, orgID, key, bookingID string) {
	if s == nil || s.Client == nil {
		return
	}
	ok, err := s.Client.SetNX(ctx, s.key(orgID, key), bookingID, s.TTL).Result()
	if err != nil || !ok {
		utils.GetLogger().Warn("idempotency key not recorded",
			zap.String("bookingID", bookingID), zap.Error(err))
	}
}
