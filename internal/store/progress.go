package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/avelow/recite-api/internal/domain"
)

// ProgressStore persists per-learner progress records.
type ProgressStore interface {
	// Get retrieves a learner's progress record.
	// Returns ErrProgressNotFound if none exists yet.
	Get(ctx context.Context, userID uuid.UUID) (*domain.UserProgress, error)

	// Upsert creates or replaces a learner's progress record.
	Upsert(ctx context.Context, progress *domain.UserProgress) error

	// WithTx returns a ProgressStore bound to the given transaction.
	WithTx(tx *sql.Tx) ProgressStore
}
