package grading

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/avelow/recite-api/internal/domain"
)

// Feedback used for outcomes the pipeline produces without consulting the
// judgment service. Exported so handlers and tests can match on them.
const (
	FeedbackEmptyAnswer = "Please provide an answer before submitting."

	// FeedbackUnreachable marks the fallback outcome. The PARTIAL status
	// signals "ungraded, assume middling": without the judgment service
	// the system cannot assert the answer was right or wrong.
	FeedbackUnreachable = "We could not reach the tutor to grade this answer. " +
		"Compare your answer against the reference answer shown below."
)

// Config tunes the pipeline's resilience controls. Zero values fall back to
// 3 attempts with a 6 second per-attempt timeout.
type Config struct {
	MaxAttempts    int
	AttemptTimeout time.Duration
}

// Pipeline grades learner answers through an external Judge with bounded
// retries, per-attempt timeouts, and a shared circuit breaker. A nil judge
// (for example when no service key is configured) degrades every grading to
// the fallback outcome instead of failing.
type Pipeline struct {
	judge          Judge
	breaker        *CircuitBreaker
	logger         *slog.Logger
	maxAttempts    int
	attemptTimeout time.Duration
}

// NewPipeline creates a grading pipeline.
func NewPipeline(judge Judge, breaker *CircuitBreaker, logger *slog.Logger, cfg Config) *Pipeline {
	if breaker == nil {
		panic("breaker cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	attemptTimeout := cfg.AttemptTimeout
	if attemptTimeout <= 0 {
		attemptTimeout = 6 * time.Second
	}

	return &Pipeline{
		judge:          judge,
		breaker:        breaker,
		logger:         logger.With(slog.String("component", "grading_pipeline")),
		maxAttempts:    maxAttempts,
		attemptTimeout: attemptTimeout,
	}
}

// GradeAnswer grades one answer to an exercise. It never returns an error:
// invalid input short-circuits to INCORRECT without an external call, and
// every external failure mode resolves to the PARTIAL fallback outcome.
func (p *Pipeline) GradeAnswer(
	ctx context.Context,
	exercise *domain.Exercise,
	answer string,
) *domain.GradingOutcome {
	if strings.TrimSpace(answer) == "" {
		return &domain.GradingOutcome{
			Status:   domain.GradingStatusIncorrect,
			Feedback: FeedbackEmptyAnswer,
		}
	}

	if limit := exercise.Type.AnswerLimit(); utf8.RuneCountInString(answer) > limit {
		return &domain.GradingOutcome{
			Status: domain.GradingStatusIncorrect,
			Feedback: fmt.Sprintf(
				"Your answer is too long for this exercise: the limit is %d characters.", limit),
		}
	}

	if p.judge == nil {
		p.logger.WarnContext(ctx, "no judge configured, using fallback outcome")
		return p.fallback(exercise)
	}

	req := Request{
		Prompt:    exercise.Prompt,
		Answer:    answer,
		Reference: exercise.Reference,
	}

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if !p.breaker.Allow() {
			p.logger.WarnContext(ctx, "circuit breaker open, failing fast",
				slog.Int("attempt", attempt))
			return p.fallback(exercise)
		}

		outcome, err := p.gradeOnce(ctx, req)
		if err != nil {
			p.breaker.RecordFailure()
			p.logger.WarnContext(ctx, "grading attempt failed",
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", p.maxAttempts),
				slog.String("error", err.Error()))
			continue
		}

		p.breaker.RecordSuccess()
		return outcome
	}

	p.logger.WarnContext(ctx, "all grading attempts exhausted, using fallback outcome",
		slog.Int("max_attempts", p.maxAttempts))
	return p.fallback(exercise)
}

// gradeOnce makes a single judged attempt under the per-attempt timeout.
// A structurally invalid response counts as a failure just like a network
// error, so retries and the breaker see malformed content too.
func (p *Pipeline) gradeOnce(ctx context.Context, req Request) (*domain.GradingOutcome, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, p.attemptTimeout)
	defer cancel()

	outcome, err := p.judge.Grade(attemptCtx, req)
	if err != nil {
		return nil, err
	}

	if outcome == nil {
		return nil, fmt.Errorf("%w: nil outcome", ErrInvalidResponse)
	}

	if err := outcome.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return outcome, nil
}

// fallback builds the degraded outcome used when the service cannot be
// consulted. Never CORRECT or INCORRECT: the system has no grounds to
// assert quality without the judgment service.
func (p *Pipeline) fallback(exercise *domain.Exercise) *domain.GradingOutcome {
	return &domain.GradingOutcome{
		Status:     domain.GradingStatusPartial,
		Feedback:   FeedbackUnreachable,
		Correction: exercise.Reference,
	}
}
