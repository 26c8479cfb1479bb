package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// CardState represents where a card sits in the memory-model state machine.
type CardState string

// Possible card states. Transitions happen only through the srs package.
const (
	CardStateNew        CardState = "new"
	CardStateLearning   CardState = "learning"
	CardStateReview     CardState = "review"
	CardStateRelearning CardState = "relearning"
)

// IsValid reports whether the state is one of the four recognized values.
func (s CardState) IsValid() bool {
	switch s {
	case CardStateNew, CardStateLearning, CardStateReview, CardStateRelearning:
		return true
	default:
		return false
	}
}

// Card-specific validation errors.
var (
	ErrCardUserIDEmpty     = errors.New("card user ID cannot be empty")
	ErrCardExerciseIDEmpty = errors.New("card exercise ID cannot be empty")
	ErrCardStabilityRange  = errors.New("card stability cannot be negative")
	ErrCardDifficultyRange = errors.New("card difficulty must be between 0 and 10")
	ErrCardCountsNegative  = errors.New("card reps and lapses cannot be negative")
	ErrCardNextReviewZero  = errors.New("card next review time must be set")
)

// Card is the persisted memory-model state for one learner/exercise pair.
// It is created lazily on the first grading of an exercise, rewritten in full
// on every subsequent grading, and never deleted. NextReviewAt is always
// derivable from LastReviewAt plus ScheduledDays and is the indexed field
// behind the due-review queries.
type Card struct {
	UserID        uuid.UUID  `json:"user_id"`
	ExerciseID    uuid.UUID  `json:"exercise_id"`
	State         CardState  `json:"state"`
	Stability     float64    `json:"stability"`      // Memory durability in days
	Difficulty    float64    `json:"difficulty"`     // Bounded scalar, 1-10 once reviewed
	ElapsedDays   float64    `json:"elapsed_days"`   // Days since the previous review
	ScheduledDays float64    `json:"scheduled_days"` // Days until the next review
	Reps          int        `json:"reps"`           // Total number of reviews
	Lapses        int        `json:"lapses"`         // Times the learner forgot in review
	LastReviewAt  *time.Time `json:"last_review_at"` // Nil before the first review
	NextReviewAt  time.Time  `json:"next_review_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewCard creates a fresh card for a learner/exercise pair, anchored at now.
// New cards are immediately due so they surface on the next review query.
func NewCard(userID, exerciseID uuid.UUID, now time.Time) (*Card, error) {
	card := &Card{
		UserID:       userID,
		ExerciseID:   exerciseID,
		State:        CardStateNew,
		NextReviewAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.UserID == uuid.Nil {
		return ErrCardUserIDEmpty
	}

	if c.ExerciseID == uuid.Nil {
		return ErrCardExerciseIDEmpty
	}

	if !c.State.IsValid() {
		return ErrInvalidCardState
	}

	if c.Stability < 0 {
		return ErrCardStabilityRange
	}

	if c.Difficulty < 0 || c.Difficulty > 10 {
		return ErrCardDifficultyRange
	}

	if c.Reps < 0 || c.Lapses < 0 {
		return ErrCardCountsNegative
	}

	if c.NextReviewAt.IsZero() {
		return ErrCardNextReviewZero
	}

	return nil
}
