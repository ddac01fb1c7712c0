package coupon

import "sync"

// UsageTracker records per-user redemption counts per coupon code. Counts are
// created lazily on first redemption and only ever grow. The mutex makes each
// increment a single atomic read-modify-write so concurrent selections for
// the same (code, user) pair cannot lose updates.
type UsageTracker struct {
	mu     sync.Mutex
	counts map[string]map[string]int
}

// NewUsageTracker creates an empty usage tracker.
func NewUsageTracker() *UsageTracker {
	return &UsageTracker{counts: make(map[string]map[string]int)}
}

// Count returns the number of times the user has redeemed the coupon code.
func (t *UsageTracker) Count(code, userID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[code][userID]
}

// UnderLimit reports whether the user may still redeem the coupon: true when
// the coupon has no per-user limit, or the user's current count is strictly
// below it.
func (t *UsageTracker) UnderLimit(c *Coupon, userID string) bool {
	if c.UsageLimitPerUser == nil {
		return true
	}
	return t.Count(c.Code, userID) < *c.UsageLimitPerUser
}

// Record increments the redemption count for the (code, user) pair by one.
// Callers must invoke it at most once per successful selection.
func (t *UsageTracker) Record(code, userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	users := t.counts[code]
	if users == nil {
		users = make(map[string]int)
		t.counts[code] = users
	}
	users[userID]++
}
