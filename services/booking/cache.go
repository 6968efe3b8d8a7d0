package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"gymflow/config"
	"gymflow/models"
	"gymflow/utils"
)

// AvailabilityCache holds computed availability in redis for a short TTL.
// Keys embed a per-staff version counter that every booking write bumps, so
// a commit immediately invalidates cached slots for that staff member.
type AvailabilityCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewAvailabilityCache constructs the cache from global config.
func NewAvailabilityCache() *AvailabilityCache {
	return &AvailabilityCache{
		Client: utils.GetCacheClient(),
		TTL:    time.Duration(config.AppConfig.AvailabilityCacheMS) * time.Millisecond,
	}
}

func (c *AvailabilityCache) enabled() bool {
	return c != nil && c.Client != nil
}

func (c *AvailabilityCache) versionKey(orgID, staffID string) string {
	return utils.AvailabilityCachePrefix + "ver:" + orgID + ":" + staffID
}

func (c *AvailabilityCache) slotKey(orgID, staffID string, version int64, from, to string, durationMinutes int, appointmentTypeID string) string {
	return fmt.Sprintf("%s%s:%s:%d:%s:%s:%d:%s",
		utils.AvailabilityCachePrefix, orgID, staffID, version, from, to, durationMinutes, appointmentTypeID)
}

func (c *AvailabilityCache) version(ctx context.Context, orgID, staffID string) int64 {
	if !c.enabled() {
		return 0
	}
	v, err := c.Client.Get(ctx, c.versionKey(orgID, staffID)).Int64()
	if err != nil {
		return 0
	}
	return v
}

// Bump invalidates all cached availability for one staff member.
func (c *AvailabilityCache) Bump(ctx context.Context, orgID, staffID string) {
	if !c.enabled() || staffID == "" {
		return
	}
	if err := c.Client.Incr(ctx, c.versionKey(orgID, staffID)).Err(); err != nil {
		utils.GetLogger().Warn("availability cache bump failed",
			zap.String("staffID", staffID), zap.Error(err))
	}
}

func (c *AvailabilityCache) get(ctx context.Context, key string) ([]models.Slot, bool) {
	if !c.enabled() {
		return nil, false
	}
	data, err := c.Client.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var slots []models.Slot
	if err := json.Unmarshal([]byte(data), &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (c *AvailabilityCache) set(ctx context.Context, key string, slots []models.Slot) {
	if !c.enabled() {
		return
	}
	data, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, key, data, c.TTL).Err(); err != nil {
		utils.GetLogger().Warn("availability cache set failed", zap.Error(err))
	}
}
