package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/avelow/recite-api/internal/domain"
	"github.com/avelow/recite-api/internal/platform/logger"
	"github.com/avelow/recite-api/internal/store"
)

// SessionStore implements the store.SessionStore interface using PostgreSQL.
// Session items are stored as a JSONB column since they are immutable after
// creation and always read as a whole.
type SessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSessionStore creates a PostgreSQL implementation of store.SessionStore.
func NewSessionStore(db store.DBTX, logger *slog.Logger) *SessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

var _ store.SessionStore = (*SessionStore)(nil)

const sessionColumns = `id, user_id, items, current_index, status, created_at, updated_at`

// Create implements store.SessionStore.Create.
func (s *SessionStore) Create(ctx context.Context, session *domain.Session) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		return err
	}

	items, err := json.Marshal(session.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal session items: %w", err)
	}

	query := `
		INSERT INTO sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = s.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		items,
		session.CurrentIndex,
		session.Status,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.NewStoreError("session", "create", "user does not exist", store.ErrInvalidEntity)
		}
		log.Error("failed to create session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	return nil
}

// GetByID implements store.SessionStore.GetByID.
func (s *SessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	return s.getOne(ctx, query, id)
}

// GetByIDForUpdate implements store.SessionStore.GetByIDForUpdate. It must be
// called inside a transaction; the row lock serializes concurrent answers
// against the same session until the transaction ends.
func (s *SessionStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1 FOR UPDATE`
	return s.getOne(ctx, query, id)
}

func (s *SessionStore) getOne(ctx context.Context, query string, id uuid.UUID) (*domain.Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := scanSession(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to get session",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return nil, err
	}

	return session, nil
}

// Update implements store.SessionStore.Update. Items are fixed at creation,
// so only the cursor and status are written.
func (s *SessionStore) Update(ctx context.Context, session *domain.Session) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE sessions
		SET current_index = $2, status = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query,
		session.ID,
		session.CurrentIndex,
		session.Status,
		session.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrSessionNotFound
	}

	return nil
}

// WithTx implements store.SessionStore.WithTx.
func (s *SessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &SessionStore{db: tx, logger: s.logger}
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var session domain.Session
	var status string
	var items []byte

	err := row.Scan(
		&session.ID,
		&session.UserID,
		&items,
		&session.CurrentIndex,
		&status,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(items, &session.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session items: %w", err)
	}

	session.Status = domain.SessionStatus(status)
	return &session, nil
}
