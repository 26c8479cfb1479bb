package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/avelow/recite-api/internal/config"
	"github.com/avelow/recite-api/internal/domain"
	"github.com/avelow/recite-api/internal/domain/srs"
	"github.com/avelow/recite-api/internal/platform/logger"
	"github.com/avelow/recite-api/internal/store"
)

// DueReview pairs a due card with the exercise it schedules, so callers can
// render the queue without a second lookup.
type DueReview struct {
	Card     *domain.Card
	Exercise *domain.Exercise
}

// ReviewStats summarizes a learner's review standing.
type ReviewStats struct {
	// DueCount is the number of cards due right now.
	DueCount int `json:"due_count"`

	// TotalReviewed is the number of distinct exercises the learner has
	// ever been graded on.
	TotalReviewed int `json:"total_reviewed"`

	// MasteredCount is the number of review-state cards whose stability
	// has crossed the mastery threshold.
	MasteredCount int `json:"mastered_count"`
}

// ReviewService serves the review queue and records grading results against
// the scheduler.
type ReviewService struct {
	cardStore     store.CardStore
	exerciseStore store.ExerciseStore
	scheduler     srs.Service
	logger        *slog.Logger

	masteryStability float64
	dueLimit         int
}

// NewReviewService creates a ReviewService. All dependencies are required.
func NewReviewService(
	cardStore store.CardStore,
	exerciseStore store.ExerciseStore,
	scheduler srs.Service,
	log *slog.Logger,
	cfg config.ReviewConfig,
) *ReviewService {
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if exerciseStore == nil {
		panic("exerciseStore cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	masteryStability := cfg.MasteryStabilityDays
	if masteryStability <= 0 {
		masteryStability = 21
	}

	dueLimit := cfg.DueLimit
	if dueLimit <= 0 {
		dueLimit = 10
	}

	return &ReviewService{
		cardStore:        cardStore,
		exerciseStore:    exerciseStore,
		scheduler:        scheduler,
		logger:           log.With(slog.String("component", "review_service")),
		masteryStability: masteryStability,
		dueLimit:         dueLimit,
	}
}

// Due returns the learner's due reviews at now, most overdue first, up to
// limit (the configured default when limit is not positive). A due card whose
// exercise is missing is a data-integrity violation and fails the whole query
// rather than silently shortening the queue.
func (s *ReviewService) Due(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]DueReview, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = s.dueLimit
	}

	cards, err := s.cardStore.Due(ctx, userID, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query due cards: %w", err)
	}

	ids := make([]uuid.UUID, len(cards))
	for i, card := range cards {
		ids[i] = card.ExerciseID
	}

	exercises, err := s.exerciseStore.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve due exercises: %w", err)
	}

	reviews := make([]DueReview, 0, len(cards))
	for _, card := range cards {
		exercise, ok := exercises[card.ExerciseID]
		if !ok {
			log.Error("due card references missing exercise",
				slog.String("user_id", userID.String()),
				slog.String("exercise_id", card.ExerciseID.String()))
			return nil, fmt.Errorf("%w: card references missing exercise %s",
				store.ErrDataIntegrity, card.ExerciseID)
		}
		reviews = append(reviews, DueReview{Card: card, Exercise: exercise})
	}

	return reviews, nil
}

// Stats computes the learner's review statistics at now.
func (s *ReviewService) Stats(ctx context.Context, userID uuid.UUID, now time.Time) (*ReviewStats, error) {
	dueCount, err := s.cardStore.CountDue(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count due cards: %w", err)
	}

	totalReviewed, err := s.cardStore.CountReviewed(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count reviewed cards: %w", err)
	}

	masteredCount, err := s.cardStore.CountMastered(ctx, userID, s.masteryStability)
	if err != nil {
		return nil, fmt.Errorf("failed to count mastered cards: %w", err)
	}

	return &ReviewStats{
		DueCount:      dueCount,
		TotalReviewed: totalReviewed,
		MasteredCount: masteredCount,
	}, nil
}

// GetExercise returns an exercise by ID. Callers shaping the response decide
// what the learner may see; the reference answer stays server-side until the
// answer is graded.
// Returns store.ErrExerciseNotFound if the exercise does not exist.
func (s *ReviewService) GetExercise(ctx context.Context, exerciseID uuid.UUID) (*domain.Exercise, error) {
	return s.exerciseStore.GetByID(ctx, exerciseID)
}

// GetCard returns the learner's card for an exercise.
// Returns store.ErrCardNotFound if the exercise was never graded.
func (s *ReviewService) GetCard(ctx context.Context, userID, exerciseID uuid.UUID) (*domain.Card, error) {
	return s.cardStore.Get(ctx, userID, exerciseID)
}

// Record applies a grading status to the learner's card for an exercise and
// persists the resulting state. A first grading synthesizes the card. The
// store write replaces every scheduling field, so recording is a full-state
// upsert regardless of whether the card existed.
func (s *ReviewService) Record(
	ctx context.Context,
	userID, exerciseID uuid.UUID,
	status domain.GradingStatus,
	now time.Time,
) (*domain.Card, error) {
	return recordReview(ctx, s.cardStore, s.scheduler, userID, exerciseID, status, now)
}

// recordReview is the shared card-transition write path, also used by the
// session service inside its transaction with a tx-bound card store.
func recordReview(
	ctx context.Context,
	cards store.CardStore,
	scheduler srs.Service,
	userID, exerciseID uuid.UUID,
	status domain.GradingStatus,
	now time.Time,
) (*domain.Card, error) {
	prev, err := cards.Get(ctx, userID, exerciseID)
	if err != nil {
		if !store.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to load card: %w", err)
		}
		prev = nil // First grading of this exercise.
	}

	rating := srs.RatingForStatus(status)
	next, err := scheduler.NextCard(userID, exerciseID, prev, rating, now)
	if err != nil {
		return nil, fmt.Errorf("failed to compute next card state: %w", err)
	}

	if err := cards.Upsert(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to persist card: %w", err)
	}

	return next, nil
}
