package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/avelow/recite-api/internal/domain"
)

// ExerciseStore persists exercise content.
type ExerciseStore interface {
	// Create saves a new exercise.
	Create(ctx context.Context, exercise *domain.Exercise) error

	// GetByID retrieves an exercise by its unique ID.
	// Returns ErrExerciseNotFound if the exercise does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error)

	// GetByIDs retrieves the exercises for the given IDs, keyed by ID.
	// IDs with no matching exercise are absent from the result; the caller
	// decides whether that is a data-integrity failure.
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Exercise, error)

	// ListUnseen returns exercises the learner has no card for yet,
	// oldest first, up to limit. These are the planner's new-item pool.
	ListUnseen(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Exercise, error)

	// ListPracticed returns exercises the learner has a card for that is
	// not yet due at now, up to limit. These are the planner's drill pool.
	ListPracticed(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]*domain.Exercise, error)
}
