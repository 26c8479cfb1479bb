package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/avelow/recite-api/internal/domain"
)

// CardStore persists per-learner per-exercise scheduling state and serves
// the due-review index.
type CardStore interface {
	// Get retrieves the card for a learner/exercise pair.
	// Returns ErrCardNotFound if no card exists yet.
	Get(ctx context.Context, userID, exerciseID uuid.UUID) (*domain.Card, error)

	// Due returns up to limit cards whose NextReviewAt is at or before now
	// (inclusive boundary), ordered by (next_review_at, exercise_id) so
	// equally-overdue items come back in a stable order.
	Due(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]*domain.Card, error)

	// CountDue counts due cards through the next_review_at index rather
	// than by filtering the full collection.
	CountDue(ctx context.Context, userID uuid.UUID, now time.Time) (int, error)

	// CountReviewed counts all cards a learner has ever been graded on.
	CountReviewed(ctx context.Context, userID uuid.UUID) (int, error)

	// CountMastered counts cards in steady-state review whose stability
	// meets the given threshold.
	CountMastered(ctx context.Context, userID uuid.UUID, minStability float64) (int, error)

	// Upsert creates the card if absent and otherwise replaces every
	// scheduling field. Fields are never partially merged: the scheduler
	// always produces a complete next state.
	Upsert(ctx context.Context, card *domain.Card) error

	// WithTx returns a CardStore bound to the given transaction.
	WithTx(tx *sql.Tx) CardStore
}
