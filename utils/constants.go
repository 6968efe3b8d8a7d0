package utils

import "time"

// AvailabilityCachePrefix is the prefix for cached availability responses.
const AvailabilityCachePrefix = "avail:"

// IdempotencyKeyPrefix is the prefix for booking idempotency keys.
const IdempotencyKeyPrefix = "idem:"

// IdempotencyKeyTTL is how long a caller-supplied idempotency key maps to
// its original booking.
const IdempotencyKeyTTL = 24 * time.Hour
