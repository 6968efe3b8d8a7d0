package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus is the latest dependency snapshot served by /health. Mongo
// down means degraded; a redis outage only disables availability caching
// and idempotency replay, bookings keep working.
type HealthStatus struct {
	Mongo       bool      `json:"mongo"`
	Cache       bool      `json:"cache"`
	Idempotency bool      `json:"idempotency"`
	CheckedAt   time.Time `json:"checked_at"`
}

// Healthy reports whether the engine can serve bookings.
func (h HealthStatus) Healthy() bool {
	return h.Mongo
}

var (
	currentHealth HealthStatus
	healthMu      sync.RWMutex
)

// GetHealthStatus returns the latest stored snapshot.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

// StartHealthMonitor checks the dependencies once immediately and then
// every minute, updating the in-memory snapshot.
func StartHealthMonitor(cache, idempotency *redis.Client, mongoClient *mongo.Client) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		ctx := context.Background()
		check := func() {
			snapshot := HealthStatus{
				Mongo:       mongoClient.Ping(ctx, nil) == nil,
				Cache:       cache.Ping(ctx).Err() == nil,
				Idempotency: idempotency.Ping(ctx).Err() == nil,
				CheckedAt:   time.Now().UTC(),
			}
			healthMu.Lock()
			currentHealth = snapshot
			healthMu.Unlock()
		}

		check()
		for range ticker.C {
			check()
		}
	}()
}
