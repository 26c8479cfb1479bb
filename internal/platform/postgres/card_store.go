package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/avelow/recite-api/internal/domain"
	"github.com/avelow/recite-api/internal/platform/logger"
	"github.com/avelow/recite-api/internal/store"
)

// CardStore implements the store.CardStore interface using PostgreSQL.
type CardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCardStore creates a PostgreSQL implementation of store.CardStore.
// The connection or transaction is initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewCardStore(db store.DBTX, logger *slog.Logger) *CardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

var _ store.CardStore = (*CardStore)(nil)

const cardColumns = `user_id, exercise_id, state, stability, difficulty,
	elapsed_days, scheduled_days, reps, lapses,
	last_review_at, next_review_at, created_at, updated_at`

// Get implements store.CardStore.Get.
func (s *CardStore) Get(ctx context.Context, userID, exerciseID uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE user_id = $1 AND exercise_id = $2
	`

	card, err := scanCard(s.db.QueryRowContext(ctx, query, userID, exerciseID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("exercise_id", exerciseID.String()))
		return nil, err
	}

	return card, nil
}

// Due implements store.CardStore.Due. The boundary is inclusive: a card due
// exactly at now is returned. Ties on next_review_at break on exercise_id so
// the order is stable across calls.
func (s *CardStore) Due(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE user_id = $1 AND next_review_at <= $2
		ORDER BY next_review_at, exercise_id
		LIMIT $3
	`

	rows, err := s.db.QueryContext(ctx, query, userID, now, limit)
	if err != nil {
		log.Error("failed to query due cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var cards []*domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	return cards, rows.Err()
}

// CountDue implements store.CardStore.CountDue. It counts through the
// (user_id, next_review_at) index so the cost tracks the due set, not the
// full collection.
func (s *CardStore) CountDue(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM cards
		WHERE user_id = $1 AND next_review_at <= $2
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID, now).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CountReviewed implements store.CardStore.CountReviewed. Cards are created
// lazily on first grading, so every row represents a reviewed exercise.
func (s *CardStore) CountReviewed(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cards WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountMastered implements store.CardStore.CountMastered.
func (s *CardStore) CountMastered(ctx context.Context, userID uuid.UUID, minStability float64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM cards
		WHERE user_id = $1 AND state = $2 AND stability >= $3
	`

	var count int
	err := s.db.QueryRowContext(ctx, query, userID, domain.CardStateReview, minStability).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Upsert implements store.CardStore.Upsert. All scheduling fields are
// replaced on conflict; created_at survives from the original insert.
func (s *CardStore) Upsert(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("user_id", card.UserID.String()),
			slog.String("exercise_id", card.ExerciseID.String()))
		return err
	}

	query := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id, exercise_id) DO UPDATE SET
			state = EXCLUDED.state,
			stability = EXCLUDED.stability,
			difficulty = EXCLUDED.difficulty,
			elapsed_days = EXCLUDED.elapsed_days,
			scheduled_days = EXCLUDED.scheduled_days,
			reps = EXCLUDED.reps,
			lapses = EXCLUDED.lapses,
			last_review_at = EXCLUDED.last_review_at,
			next_review_at = EXCLUDED.next_review_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		card.UserID,
		card.ExerciseID,
		card.State,
		card.Stability,
		card.Difficulty,
		card.ElapsedDays,
		card.ScheduledDays,
		card.Reps,
		card.Lapses,
		card.LastReviewAt,
		card.NextReviewAt,
		card.CreatedAt,
		card.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return store.NewStoreError("card", "upsert", "user or exercise does not exist", store.ErrInvalidEntity)
		}
		log.Error("failed to upsert card",
			slog.String("error", err.Error()),
			slog.String("user_id", card.UserID.String()),
			slog.String("exercise_id", card.ExerciseID.String()))
		return err
	}

	return nil
}

// WithTx implements store.CardStore.WithTx.
func (s *CardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &CardStore{db: tx, logger: s.logger}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var card domain.Card
	var state string
	var lastReviewAt sql.NullTime

	err := row.Scan(
		&card.UserID,
		&card.ExerciseID,
		&state,
		&card.Stability,
		&card.Difficulty,
		&card.ElapsedDays,
		&card.ScheduledDays,
		&card.Reps,
		&card.Lapses,
		&lastReviewAt,
		&card.NextReviewAt,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	card.State = domain.CardState(state)
	if lastReviewAt.Valid {
		t := lastReviewAt.Time
		card.LastReviewAt = &t
	}

	return &card, nil
}
