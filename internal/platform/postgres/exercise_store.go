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

// ExerciseStore implements the store.ExerciseStore interface using PostgreSQL.
type ExerciseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewExerciseStore creates a PostgreSQL implementation of store.ExerciseStore.
func NewExerciseStore(db store.DBTX, logger *slog.Logger) *ExerciseStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExerciseStore{
		db:     db,
		logger: logger.With(slog.String("component", "exercise_store")),
	}
}

var _ store.ExerciseStore = (*ExerciseStore)(nil)

const exerciseColumns = `id, type, prompt, reference, created_at, updated_at`

// Create implements store.ExerciseStore.Create.
func (s *ExerciseStore) Create(ctx context.Context, exercise *domain.Exercise) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := exercise.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO exercises (` + exerciseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		exercise.ID,
		exercise.Type,
		exercise.Prompt,
		exercise.Reference,
		exercise.CreatedAt,
		exercise.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.NewStoreError("exercise", "create", "exercise already exists", store.ErrDuplicate)
		}
		log.Error("failed to create exercise",
			slog.String("error", err.Error()),
			slog.String("exercise_id", exercise.ID.String()))
		return err
	}

	return nil
}

// GetByID implements store.ExerciseStore.GetByID.
func (s *ExerciseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises WHERE id = $1`

	exercise, err := scanExercise(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrExerciseNotFound
		}
		return nil, err
	}

	return exercise, nil
}

// GetByIDs implements store.ExerciseStore.GetByIDs. Missing IDs are simply
// absent from the map.
func (s *ExerciseStore) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Exercise, error) {
	result := make(map[uuid.UUID]*domain.Exercise, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT ` + exerciseColumns + ` FROM exercises WHERE id = ANY($1::uuid[])`

	rows, err := s.db.QueryContext(ctx, query, uuidArray(ids))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		exercise, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		result[exercise.ID] = exercise
	}

	return result, rows.Err()
}

// ListUnseen implements store.ExerciseStore.ListUnseen. An exercise is unseen
// when the learner has no card for it. Oldest content first keeps the intake
// order stable.
func (s *ExerciseStore) ListUnseen(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Exercise, error) {
	query := `
		SELECT ` + prefixedExerciseColumns("e") + `
		FROM exercises e
		LEFT JOIN cards c ON c.exercise_id = e.id AND c.user_id = $1
		WHERE c.exercise_id IS NULL
		ORDER BY e.created_at, e.id
		LIMIT $2
	`

	return s.listExercises(ctx, query, userID, limit)
}

// ListPracticed implements store.ExerciseStore.ListPracticed. It returns
// exercises with a card that is not yet due, so drills never duplicate the
// review queue. Least recently reviewed first.
func (s *ExerciseStore) ListPracticed(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]*domain.Exercise, error) {
	query := `
		SELECT ` + prefixedExerciseColumns("e") + `
		FROM exercises e
		JOIN cards c ON c.exercise_id = e.id AND c.user_id = $1
		WHERE c.next_review_at > $2
		ORDER BY c.last_review_at NULLS FIRST, e.id
		LIMIT $3
	`

	return s.listExercises(ctx, query, userID, now, limit)
}

func (s *ExerciseStore) listExercises(ctx context.Context, query string, args ...any) ([]*domain.Exercise, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list exercises", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var exercises []*domain.Exercise
	for rows.Next() {
		exercise, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, exercise)
	}

	return exercises, rows.Err()
}

func prefixedExerciseColumns(alias string) string {
	return alias + ".id, " + alias + ".type, " + alias + ".prompt, " +
		alias + ".reference, " + alias + ".created_at, " + alias + ".updated_at"
}

func scanExercise(row rowScanner) (*domain.Exercise, error) {
	var exercise domain.Exercise
	var exerciseType string

	err := row.Scan(
		&exercise.ID,
		&exerciseType,
		&exercise.Prompt,
		&exercise.Reference,
		&exercise.CreatedAt,
		&exercise.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	exercise.Type = domain.ExerciseType(exerciseType)
	return &exercise, nil
}

// uuidArray converts UUIDs to strings for a text[] = ANY($1) parameter; the
// pgx stdlib driver maps []string to a Postgres array.
func uuidArray(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
