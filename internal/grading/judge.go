package grading

import (
	"context"

	"github.com/avelow/recite-api/internal/domain"
)

// Request carries the material the judgment service needs to grade one
// answer.
type Request struct {
	// Prompt is the exercise material shown to the learner.
	Prompt string

	// Answer is the learner's submitted answer, already validated by the
	// pipeline.
	Answer string

	// Reference is the exercise's reference answer.
	Reference string
}

// Judge is the external judgment-service collaborator. Implementations make
// exactly one grading attempt per call; retries, timeouts, and circuit
// breaking belong to the Pipeline.
type Judge interface {
	// Grade submits one answer for judgment and returns the structured
	// outcome. The returned outcome is not yet structurally validated.
	Grade(ctx context.Context, req Request) (*domain.GradingOutcome, error)
}
