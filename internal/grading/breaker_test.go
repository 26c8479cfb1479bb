package grading

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock drives the breaker's cool-down without sleeping.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Tick(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestBreaker(threshold int, cooldown time.Duration) (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)}
	return NewCircuitBreaker(threshold, cooldown, clock.Now), clock
}

func TestBreakerStaysClosedBelowThreshold(t *testing.T) {
	t.Parallel()

	b, _ := newTestBreaker(5, time.Minute)

	for i := 0; i < 4; i++ {
		assert.True(t, b.Allow())
		b.RecordFailure()
	}

	assert.Equal(t, BreakerClosed, b.State())
	assert.True(t, b.Allow())
}

func TestBreakerOpensAtThreshold(t *testing.T) {
	t.Parallel()

	b, _ := newTestBreaker(5, time.Minute)

	for i := 0; i < 5; i++ {
		b.RecordFailure()
	}

	assert.Equal(t, BreakerOpen, b.State())
	assert.False(t, b.Allow())
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	t.Parallel()

	b, _ := newTestBreaker(5, time.Minute)

	// Failures interleaved with a success never accumulate to the
	// threshold: only consecutive failures count.
	for i := 0; i < 4; i++ {
		b.RecordFailure()
	}
	b.RecordSuccess()
	for i := 0; i < 4; i++ {
		b.RecordFailure()
	}

	assert.Equal(t, BreakerClosed, b.State())
	assert.True(t, b.Allow())
}

func TestBreakerHalfOpenAfterCooldown(t *testing.T) {
	t.Parallel()

	b, clock := newTestBreaker(3, time.Minute)
	for i := 0; i < 3; i++ {
		b.RecordFailure()
	}
	assert.False(t, b.Allow())

	// Just before the cool-down elapses, still failing fast.
	clock.Tick(59 * time.Second)
	assert.False(t, b.Allow())

	// After the cool-down, exactly one trial call is admitted.
	clock.Tick(time.Second)
	assert.True(t, b.Allow())
	assert.Equal(t, BreakerHalfOpen, b.State())
	assert.False(t, b.Allow(), "only one trial call while half-open")
}

func TestBreakerTrialSuccessCloses(t *testing.T) {
	t.Parallel()

	b, clock := newTestBreaker(3, time.Minute)
	for i := 0; i < 3; i++ {
		b.RecordFailure()
	}
	clock.Tick(time.Minute)
	assert.True(t, b.Allow())

	b.RecordSuccess()

	assert.Equal(t, BreakerClosed, b.State())
	assert.True(t, b.Allow())
}

func TestBreakerTrialFailureReopens(t *testing.T) {
	t.Parallel()

	b, clock := newTestBreaker(3, time.Minute)
	for i := 0; i < 3; i++ {
		b.RecordFailure()
	}
	clock.Tick(time.Minute)
	assert.True(t, b.Allow())

	// The failed trial restarts the cool-down from now, not from the
	// original opening.
	b.RecordFailure()
	assert.Equal(t, BreakerOpen, b.State())
	assert.False(t, b.Allow())

	clock.Tick(59 * time.Second)
	assert.False(t, b.Allow())
	clock.Tick(time.Second)
	assert.True(t, b.Allow())
}

func TestBreakerDefaults(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(0, 0, nil)

	for i := 0; i < 4; i++ {
		b.RecordFailure()
	}
	assert.Equal(t, BreakerClosed, b.State())

	b.RecordFailure()
	assert.Equal(t, BreakerOpen, b.State())
}
