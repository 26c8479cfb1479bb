package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/avelow/recite-api/internal/domain"
	"github.com/avelow/recite-api/internal/platform/logger"
	"github.com/avelow/recite-api/internal/store"
)

// ProgressStore implements the store.ProgressStore interface using PostgreSQL.
type ProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewProgressStore creates a PostgreSQL implementation of store.ProgressStore.
func NewProgressStore(db store.DBTX, logger *slog.Logger) *ProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

var _ store.ProgressStore = (*ProgressStore)(nil)

// Get implements store.ProgressStore.Get.
func (s *ProgressStore) Get(ctx context.Context, userID uuid.UUID) (*domain.UserProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, streak, last_session_at_ms, days_active,
			tz_offset_minutes, created_at, updated_at
		FROM user_progress
		WHERE user_id = $1
	`

	var progress domain.UserProgress
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&progress.UserID,
		&progress.Streak,
		&progress.LastSessionAtMs,
		&progress.DaysActive,
		&progress.TZOffsetMinutes,
		&progress.CreatedAt,
		&progress.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressNotFound
		}
		log.Error("failed to get progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	return &progress, nil
}

// Upsert implements store.ProgressStore.Upsert.
func (s *ProgressStore) Upsert(ctx context.Context, progress *domain.UserProgress) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := progress.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO user_progress (user_id, streak, last_session_at_ms,
			days_active, tz_offset_minutes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			streak = EXCLUDED.streak,
			last_session_at_ms = EXCLUDED.last_session_at_ms,
			days_active = EXCLUDED.days_active,
			tz_offset_minutes = EXCLUDED.tz_offset_minutes,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		progress.UserID,
		progress.Streak,
		progress.LastSessionAtMs,
		progress.DaysActive,
		progress.TZOffsetMinutes,
		progress.CreatedAt,
		progress.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.NewStoreError("progress", "upsert", "user does not exist", store.ErrInvalidEntity)
		}
		log.Error("failed to upsert progress",
			slog.String("error", err.Error()),
			slog.String("user_id", progress.UserID.String()))
		return err
	}

	return nil
}

// WithTx implements store.ProgressStore.WithTx.
func (s *ProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &ProgressStore{db: tx, logger: s.logger}
}
