package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthStatusHealthy(t *testing.T) {
	// Mongo is the only hard dependency; redis outages degrade features
	// without taking bookings down.
	assert.True(t, HealthStatus{Mongo: true}.Healthy())
	assert.True(t, HealthStatus{Mongo: true, Cache: false, Idempotency: false}.Healthy())
	assert.False(t, HealthStatus{Mongo: false, Cache: true, Idempotency: true}.Healthy())
}
