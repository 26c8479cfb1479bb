package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelow/recite-api/internal/domain"
)

func TestNextCardFirstReview(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()

	userID := uuid.New()
	exerciseID := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// A nil previous card synthesizes a fresh new-state card first.
	card, err := svc.NextCard(userID, exerciseID, nil, RatingGood, now)
	require.NoError(t, err)

	assert.Equal(t, userID, card.UserID)
	assert.Equal(t, exerciseID, card.ExerciseID)
	assert.Equal(t, domain.CardStateReview, card.State, "good on a new card graduates immediately")
	assert.Equal(t, 1, card.Reps)
	assert.Equal(t, 0, card.Lapses)
	require.NotNil(t, card.LastReviewAt)
	assert.Equal(t, now, *card.LastReviewAt)
	assert.True(t, card.NextReviewAt.After(now), "graduated card is scheduled in the future")
	assert.Greater(t, card.Stability, 0.0)
	assert.GreaterOrEqual(t, card.Difficulty, 1.0)
	assert.LessOrEqual(t, card.Difficulty, 10.0)
	assert.NoError(t, card.Validate())
}

func TestNextCardAgainStaysInLearning(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	card, err := svc.NextCard(uuid.New(), uuid.New(), nil, RatingAgain, now)
	require.NoError(t, err)

	assert.Equal(t, domain.CardStateLearning, card.State)
	assert.Equal(t, 1, card.Lapses)
	assert.Equal(t, now.Add(10*time.Minute), card.NextReviewAt, "forgotten cards come back after the again step")
}

func TestNextCardHardStaysInLearning(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	card, err := svc.NextCard(uuid.New(), uuid.New(), nil, RatingHard, now)
	require.NoError(t, err)

	assert.Equal(t, domain.CardStateLearning, card.State)
	assert.Equal(t, 0, card.Lapses, "hard is not a lapse")
	assert.Equal(t, now.Add(30*time.Minute), card.NextReviewAt)
}

func TestNextCardReviewLapse(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	lastReview := now.Add(-5 * 24 * time.Hour)

	prev := &domain.Card{
		UserID:       uuid.New(),
		ExerciseID:   uuid.New(),
		State:        domain.CardStateReview,
		Stability:    12,
		Difficulty:   5,
		Reps:         4,
		Lapses:       1,
		LastReviewAt: &lastReview,
		NextReviewAt: now.Add(-24 * time.Hour),
		CreatedAt:    lastReview,
		UpdatedAt:    lastReview,
	}

	card, err := svc.NextCard(prev.UserID, prev.ExerciseID, prev, RatingAgain, now)
	require.NoError(t, err)

	assert.Equal(t, domain.CardStateRelearning, card.State, "forgetting in review demotes to relearning")
	assert.Equal(t, 5, card.Reps)
	assert.Equal(t, 2, card.Lapses)
	assert.Less(t, card.Stability, prev.Stability, "forgetting shrinks stability")
	assert.Greater(t, card.Difficulty, prev.Difficulty, "forgetting raises difficulty")
	assert.Equal(t, now.Add(10*time.Minute), card.NextReviewAt)

	// The input card is never mutated.
	assert.Equal(t, 4, prev.Reps)
	assert.Equal(t, domain.CardStateReview, prev.State)
}

func TestNextCardReviewRecallGrowsInterval(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	lastReview := now.Add(-10 * 24 * time.Hour)

	prev := &domain.Card{
		UserID:       uuid.New(),
		ExerciseID:   uuid.New(),
		State:        domain.CardStateReview,
		Stability:    10,
		Difficulty:   5,
		Reps:         3,
		LastReviewAt: &lastReview,
		NextReviewAt: now,
		CreatedAt:    lastReview,
		UpdatedAt:    lastReview,
	}

	card, err := svc.NextCard(prev.UserID, prev.ExerciseID, prev, RatingGood, now)
	require.NoError(t, err)

	assert.Equal(t, domain.CardStateReview, card.State)
	assert.Greater(t, card.Stability, prev.Stability)
	assert.Greater(t, card.ScheduledDays, prev.ScheduledDays)
	assert.True(t, card.NextReviewAt.After(now.Add(24*time.Hour)), "recalled review cards are scheduled at least a day out")
	assert.InDelta(t, 10.0, card.ElapsedDays, 1e-9)
}

func TestNextCardSameDayReviewUsesShortTermStability(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	lastReview := now.Add(-2 * time.Hour)

	prev := &domain.Card{
		UserID:       uuid.New(),
		ExerciseID:   uuid.New(),
		State:        domain.CardStateLearning,
		Stability:    2,
		Difficulty:   6,
		Reps:         1,
		LastReviewAt: &lastReview,
		NextReviewAt: now,
		CreatedAt:    lastReview,
		UpdatedAt:    lastReview,
	}

	card, err := svc.NextCard(prev.UserID, prev.ExerciseID, prev, RatingGood, now)
	require.NoError(t, err)

	assert.Equal(t, domain.CardStateReview, card.State, "good graduates learning cards")
	assert.GreaterOrEqual(t, card.Stability, prev.Stability)
}

func TestNextCardHigherStabilitySchedulesLater(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	lastReview := now.Add(-10 * 24 * time.Hour)

	makeCard := func(stability float64) *domain.Card {
		return &domain.Card{
			UserID:       uuid.New(),
			ExerciseID:   uuid.New(),
			State:        domain.CardStateReview,
			Stability:    stability,
			Difficulty:   5,
			Reps:         3,
			LastReviewAt: &lastReview,
			NextReviewAt: now,
			CreatedAt:    lastReview,
			UpdatedAt:    lastReview,
		}
	}

	weak, err := svc.NextCard(uuid.New(), uuid.New(), makeCard(3), RatingGood, now)
	require.NoError(t, err)
	strong, err := svc.NextCard(uuid.New(), uuid.New(), makeCard(60), RatingGood, now)
	require.NoError(t, err)

	assert.True(t, strong.NextReviewAt.After(weak.NextReviewAt))
}

func TestNextCardInvalidRating(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()

	_, err := svc.NextCard(uuid.New(), uuid.New(), nil, Rating(0), time.Now().UTC())
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = svc.NextCard(uuid.New(), uuid.New(), nil, Rating(9), time.Now().UTC())
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestNewServiceWithParamsValidates(t *testing.T) {
	t.Parallel()

	params := NewDefaultParams()
	params.DesiredRetention = 1.5

	_, err := NewServiceWithParams(params)
	assert.ErrorIs(t, err, ErrInvalidParams)
}
