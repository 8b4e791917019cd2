package infrastructure

import (
	"sync"
	"time"
)

// RateLimiter is a sliding window limiter keyed by an arbitrary string
// (login email, client address).
type RateLimiter struct {
	requests map[string][]time.Time
	window   time.Duration
	limit    int
	mutex    sync.Mutex
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

func NewRateLimiter(window time.Duration, limit int) *RateLimiter {
	rl := &RateLimiter{
		requests: make(map[string][]time.Time),
		window:   window,
		limit:    limit,
		now:      time.Now,
		stop:     make(chan struct{}),
	}

	go rl.cleanupStaleEntries(time.Hour)
	return rl
}

// Allow records an attempt for key and reports whether it fits the window.
// A non-positive limit disables limiting.
func (rl *RateLimiter) Allow(key string) bool {
	if rl.limit <= 0 {
		return true
	}

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	validRequests := pruneBefore(rl.requests[key], now.Add(-rl.window))

	if len(validRequests) < rl.limit {
		rl.requests[key] = append(validRequests, now)
		return true
	}

	rl.requests[key] = validRequests
	return false
}

// Reset forgets every attempt recorded for key.
func (rl *RateLimiter) Reset(key string) {
	rl.mutex.Lock()
	delete(rl.requests, key)
	rl.mutex.Unlock()
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanupStaleEntries(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

func (rl *RateLimiter) sweep() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	cutoff := rl.now().Add(-rl.window)
	for key, requests := range rl.requests {
		validRequests := pruneBefore(requests, cutoff)
		if len(validRequests) == 0 {
			delete(rl.requests, key)
		} else {
			rl.requests[key] = validRequests
		}
	}
}

func pruneBefore(requests []time.Time, cutoff time.Time) []time.Time {
	var valid []time.Time
	for _, reqTime := range requests {
		if reqTime.After(cutoff) {
			valid = append(valid, reqTime)
		}
	}
	return valid
}
