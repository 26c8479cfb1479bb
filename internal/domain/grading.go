package domain

import "errors"

// GradingStatus is the three-level quality judgment for a learner's answer.
type GradingStatus string

// Possible grading statuses.
const (
	GradingStatusCorrect   GradingStatus = "CORRECT"
	GradingStatusPartial   GradingStatus = "PARTIAL"
	GradingStatusIncorrect GradingStatus = "INCORRECT"
)

// IsValid reports whether the status is one of the three recognized values.
func (s GradingStatus) IsValid() bool {
	switch s {
	case GradingStatusCorrect, GradingStatusPartial, GradingStatusIncorrect:
		return true
	default:
		return false
	}
}

// ErrGradingFeedbackEmpty is returned when an outcome carries no feedback.
var ErrGradingFeedbackEmpty = errors.New("grading feedback cannot be empty")

// GradingOutcome is the normalized result of grading one answer. It is
// transient: produced per request and never persisted as its own entity.
// Status is the sole input that drives the card transition.
type GradingOutcome struct {
	Status     GradingStatus `json:"status"`
	Feedback   string        `json:"feedback"`
	Correction string        `json:"correction,omitempty"`
	Analysis   string        `json:"analysis,omitempty"`
}

// Validate checks the outcome structurally: a recognized status and
// non-empty feedback. Malformed judgment-service responses fail here and are
// treated as call failures by the grading pipeline.
func (o *GradingOutcome) Validate() error {
	if !o.Status.IsValid() {
		return ErrInvalidGradingStatus
	}

	if o.Feedback == "" {
		return ErrGradingFeedbackEmpty
	}

	return nil
}
