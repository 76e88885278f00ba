// Package common provides shared utilities for planlens
package common

import "time"

// Freshness TTLs for cached provider data. Fund houses publish one NAV per
// business day, usually late evening, so a half-day TTL picks it up the same night.
const (
	FreshnessNAV    = 12 * time.Hour
	FreshnessSearch = 24 * time.Hour
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}
