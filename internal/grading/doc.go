// Package grading turns a learner's answer into a normalized GradingOutcome.
// The external judgment service is unreliable, so the pipeline wraps it in
// input validation, bounded retries with per-attempt timeouts, and a
// process-wide circuit breaker. Every failure mode resolves to a degraded
// but valid outcome; the pipeline never returns an error to its caller.
package grading
