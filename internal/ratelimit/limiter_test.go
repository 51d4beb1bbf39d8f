package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// newTestLimiter pins the clock so windows only move when the test says so.
func newTestLimiter(start time.Time) (*Limiter, *time.Time) {
	now := start
	l := New(time.Minute)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_Allow_UpToMax(t *testing.T) {
	l, _ := newTestLimiter(time.Now())
	conf := Config{Window: time.Minute, Max: 3}

	for i := 0; i < 3; i++ {
		d := l.Allow("otp", "8801712345678", conf)
		assert.True(t, d.Allowed)
		assert.Equal(t, 3, d.Limit)
		assert.Equal(t, 2-i, d.Remaining)
	}
}

func TestLimiter_Allow_RejectsOverMax(t *testing.T) {
	l, _ := newTestLimiter(time.Now())
	conf := Config{Window: time.Minute, Max: 2}

	l.Allow("login", "user@example.com", conf)
	l.Allow("login", "user@example.com", conf)
	d := l.Allow("login", "user@example.com", conf)

	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Greater(t, d.RetryAfter, time.Duration(0))
}

// A rejected hit must not extend the window.
func TestLimiter_Allow_RejectionKeepsResetAt(t *testing.T) {
	l, clock := newTestLimiter(time.Now())
	conf := Config{Window: time.Minute, Max: 1}

	first := l.Allow("otp", "key", conf)
	*clock = clock.Add(30 * time.Second)
	rejected := l.Allow("otp", "key", conf)

	assert.False(t, rejected.Allowed)
	assert.Equal(t, first.ResetAt, rejected.ResetAt)
	assert.Equal(t, 30*time.Second, rejected.RetryAfter)
}

func TestLimiter_Allow_ResetsAfterWindow(t *testing.T) {
	l, clock := newTestLimiter(time.Now())
	conf := Config{Window: time.Minute, Max: 1}

	assert.True(t, l.Allow("otp", "key", conf).Allowed)
	assert.False(t, l.Allow("otp", "key", conf).Allowed)

	*clock = clock.Add(time.Minute)
	d := l.Allow("otp", "key", conf)
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
}

func TestLimiter_Allow_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(time.Now())
	conf := Config{Window: time.Minute, Max: 1}

	assert.True(t, l.Allow("otp", "phone-a", conf).Allowed)
	assert.True(t, l.Allow("otp", "phone-b", conf).Allowed)
	assert.False(t, l.Allow("otp", "phone-a", conf).Allowed)
}

// The same key under different scopes counts separately.
func TestLimiter_Allow_ScopesAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(time.Now())
	conf := Config{Window: time.Minute, Max: 1}

	assert.True(t, l.Allow("otp", "key", conf).Allowed)
	assert.True(t, l.Allow("login", "key", conf).Allowed)
}
