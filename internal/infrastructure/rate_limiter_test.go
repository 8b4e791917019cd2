package infrastructure

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterWindow(t *testing.T) {
	rl := NewRateLimiter(time.Minute, 2)
	defer rl.Stop()

	now := time.Now()
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a@example.com"))
	assert.True(t, rl.Allow("a@example.com"))
	assert.False(t, rl.Allow("a@example.com"))
	assert.True(t, rl.Allow("b@example.com"), "keys are independent")

	now = now.Add(61 * time.Second)
	assert.True(t, rl.Allow("a@example.com"), "window slides")
}

func TestRateLimiterReset(t *testing.T) {
	rl := NewRateLimiter(time.Minute, 1)
	defer rl.Stop()

	assert.True(t, rl.Allow("k"))
	assert.False(t, rl.Allow("k"))
	rl.Reset("k")
	assert.True(t, rl.Allow("k"))
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(time.Minute, 0)
	defer rl.Stop()

	for i := 0; i < 10; i++ {
		assert.True(t, rl.Allow("k"))
	}
}

func TestRateLimiterSweep(t *testing.T) {
	rl := NewRateLimiter(time.Minute, 5)
	defer rl.Stop()

	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.Allow("old")

	now = now.Add(2 * time.Minute)
	rl.sweep()

	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	assert.NotContains(t, rl.requests, "old")
}
