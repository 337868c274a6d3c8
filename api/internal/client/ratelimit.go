package client

import "time"

const (
	maxCallsPerWindow = 5
	rateWindow        = 60 * time.Second
)

// RateLimitError means the device call budget is spent for the current
// window. The user-facing message is "please wait", distinct from the
// "please try again" of server failures.
type RateLimitError struct{}

func (e *RateLimitError) Error() string { return "too many requests, please wait a moment" }

// RateLimiter is a sliding-window call counter persisted across sessions.
// It gates every estimate attempt, cache hits included: the point is to
// bound attempts per device, not upstream calls.
type RateLimiter struct {
	store *Storage
	now   func() time.Time
}

func NewRateLimiter(store *Storage) *RateLimiter {
	return &RateLimiter{store: store, now: time.Now}
}

// CheckAndRecord trims the persisted history to the trailing window,
// fails if the budget is spent, and otherwise records this call before
// the caller proceeds.
func (l *RateLimiter) CheckAndRecord() error {
	now := l.now()
	cutoff := now.Add(-rateWindow).UnixMilli()

	var history []int64
	l.store.Load(rateHistoryFile, &history)

	recent := history[:0]
	for _, t := range history {
		if t > cutoff {
			recent = append(recent, t)
		}
	}
	if len(recent) >= maxCallsPerWindow {
		return &RateLimitError{}
	}

	recent = append(recent, now.UnixMilli())
	l.store.Save(rateHistoryFile, recent)
	return nil
}
