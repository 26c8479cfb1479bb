package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/avelow/recite-api/internal/domain"
)

// SessionStore persists sessions.
type SessionStore interface {
	// Create saves a new session.
	Create(ctx context.Context, session *domain.Session) error

	// GetByID retrieves a session by its unique ID.
	// Returns ErrSessionNotFound if the session does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error)

	// GetByIDForUpdate retrieves a session and locks its row for the
	// duration of the surrounding transaction, serializing concurrent
	// writers of the same session.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Session, error)

	// Update replaces a session's cursor and status.
	// Returns ErrSessionNotFound if the session does not exist.
	Update(ctx context.Context, session *domain.Session) error

	// WithTx returns a SessionStore bound to the given transaction.
	WithTx(tx *sql.Tx) SessionStore
}
