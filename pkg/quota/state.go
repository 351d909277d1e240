// Package quota implements generation quota tracking and request gating.
// It monitors the X-RateLimit-Remaining and X-RateLimit-Reset headers
// the backend attaches to every response, so the service stops spending
// requests before the provider starts rejecting them.
package quota

import (
	"time"
)

// Redis keys for quota state storage.
const (
	RedisKeyRequestsRemaining = "musegen:quota:requests_remaining"
	RedisKeyResetTimestamp    = "musegen:quota:reset_timestamp"
	RedisKeyLastUpdate        = "musegen:quota:last_update"
)

// Thresholds for quota decisions.
const (
	// ThresholdCritical blocks all requests when the remaining quota
	// falls below this value, leaving headroom for in-flight requests.
	ThresholdCritical = 2

	// ThresholdWarning applies throttling when the remaining quota falls
	// below this value.
	ThresholdWarning = 10

	// ThresholdHealthy indicates normal operation: at or above this
	// value no restrictions apply.
	ThresholdHealthy = 25
)

// State represents the current backend quota state. The state is shared
// across all service instances via Redis.
type State struct {
	// RequestsRemaining is the number of requests left in the current
	// quota window, from the X-RateLimit-Remaining header.
	RequestsRemaining int `json:"requests_remaining"`

	// ResetAt is when the quota window resets, calculated from the
	// X-RateLimit-Reset header (seconds until reset).
	ResetAt time.Time `json:"reset_at"`

	// LastUpdate is when this state was last refreshed from headers.
	LastUpdate time.Time `json:"last_update"`

	// IsHealthy is true when RequestsRemaining >= ThresholdHealthy.
	IsHealthy bool `json:"is_healthy"`
}

// IsStale returns true if the state data is older than the given duration.
func (s *State) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}

// NeedsCriticalBlock returns true if requests should be blocked.
func (s *State) NeedsCriticalBlock() bool {
	return s.RequestsRemaining < ThresholdCritical
}

// NeedsThrottling returns true if requests should be slowed down.
func (s *State) NeedsThrottling() bool {
	return s.RequestsRemaining < ThresholdWarning && !s.NeedsCriticalBlock()
}

// TimeUntilReset returns the duration until the quota window resets.
// Returns 0 if the reset time has already passed.
func (s *State) TimeUntilReset() time.Duration {
	duration := time.Until(s.ResetAt)
	if duration < 0 {
		return 0
	}
	return duration
}

// UpdateHealth updates IsHealthy from the current RequestsRemaining.
func (s *State) UpdateHealth() {
	s.IsHealthy = s.RequestsRemaining >= ThresholdHealthy
}
