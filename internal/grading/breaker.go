package grading

import (
	"sync"
	"time"
)

// BreakerState is the circuit breaker's current mode.
type BreakerState int

// Circuit breaker states.
const (
	BreakerClosed   BreakerState = iota // Normal operation
	BreakerOpen                         // Failing fast, no external calls
	BreakerHalfOpen                     // One trial call in flight
)

// CircuitBreaker tracks consecutive judgment-service failures process-wide.
// It is shared across all learners on purpose: the protected resource is the
// external service itself, not any one learner's traffic. The clock is
// injectable so tests can drive the cool-down without sleeping.
//
// Closed moves to open after threshold consecutive failures. Open fails fast
// until the cool-down elapses, then half-open admits exactly one trial call:
// success closes the breaker, failure reopens it and restarts the cool-down.
type CircuitBreaker struct {
	mu sync.Mutex

	threshold int
	cooldown  time.Duration
	now       func() time.Time

	state               BreakerState
	consecutiveFailures int
	openedAt            time.Time
	lastFailureAt       time.Time
}

// NewCircuitBreaker creates a closed breaker. A nil clock uses time.Now.
// Non-positive threshold or cooldown fall back to the defaults of 5
// consecutive failures and a 60 second cool-down.
func NewCircuitBreaker(threshold int, cooldown time.Duration, clock func() time.Time) *CircuitBreaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = 60 * time.Second
	}
	if clock == nil {
		clock = time.Now
	}
	return &CircuitBreaker{
		threshold: threshold,
		cooldown:  cooldown,
		now:       clock,
	}
}

// Allow reports whether an external call may be attempted now. While open it
// returns false until the cool-down elapses, at which point it transitions
// to half-open and admits a single trial call; further calls are refused
// until that trial resolves through RecordSuccess or RecordFailure.
func (b *CircuitBreaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		return true
	case BreakerOpen:
		if b.now().Sub(b.openedAt) >= b.cooldown {
			b.state = BreakerHalfOpen
			return true
		}
		return false
	default: // half-open, trial already admitted
		return false
	}
}

// RecordSuccess resets the breaker after a successful external call.
func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = BreakerClosed
	b.consecutiveFailures = 0
}

// RecordFailure counts a failed external call. A failure during the
// half-open trial reopens the breaker and restarts the cool-down clock.
func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.consecutiveFailures++
	b.lastFailureAt = b.now()

	if b.state == BreakerHalfOpen || (b.state == BreakerClosed && b.consecutiveFailures >= b.threshold) {
		b.state = BreakerOpen
		b.openedAt = b.lastFailureAt
	}
}

// State returns the breaker's current mode.
func (b *CircuitBreaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
