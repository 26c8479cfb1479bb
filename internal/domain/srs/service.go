package srs

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/avelow/recite-api/internal/domain"
)

// Common errors.
var (
	ErrInvalidRating = errors.New("invalid rating")
	ErrInvalidParams = errors.New("invalid scheduler parameters")
)

// Service defines the interface for scheduler operations. The concrete
// memory-model formulas sit behind it as a replaceable strategy.
type Service interface {
	// NextCard computes the card state after a review. When prev is nil a
	// fresh new-state card anchored at now is synthesized first, so the
	// first grading of an exercise and every later one go through the same
	// transition. The input card is never mutated.
	NextCard(
		userID, exerciseID uuid.UUID,
		prev *domain.Card,
		rating Rating,
		now time.Time,
	) (*domain.Card, error)
}

type defaultService struct {
	params *Params
	algo   algorithm
}

// NewDefaultService creates a scheduler service with default parameters.
func NewDefaultService() Service {
	svc, err := NewServiceWithParams(NewDefaultParams())
	if err != nil {
		// Default parameters are always within bounds.
		panic(err)
	}
	return svc
}

// NewServiceWithParams creates a scheduler service with custom parameters.
func NewServiceWithParams(params *Params) (Service, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &defaultService{
		params: params,
		algo:   newAlgorithm(params.Weights),
	}, nil
}

// NextCard implements the Service interface.
func (s *defaultService) NextCard(
	userID, exerciseID uuid.UUID,
	prev *domain.Card,
	rating Rating,
	now time.Time,
) (*domain.Card, error) {
	if !rating.IsValid() {
		return nil, ErrInvalidRating
	}

	if prev == nil {
		fresh, err := domain.NewCard(userID, exerciseID, now)
		if err != nil {
			return nil, err
		}
		prev = fresh
	}

	next := *prev

	var elapsedDays float64
	if prev.LastReviewAt != nil {
		elapsedDays = now.Sub(*prev.LastReviewAt).Hours() / 24.0
		if elapsedDays < 0 {
			elapsedDays = 0
		}
	}

	s.updateMemory(&next, prev, rating, elapsedDays)

	interval := s.transition(&next, prev.State, rating)

	next.Reps = prev.Reps + 1
	if rating == RatingAgain {
		next.Lapses = prev.Lapses + 1
	}

	next.ElapsedDays = elapsedDays
	next.ScheduledDays = interval.Hours() / 24.0
	reviewedAt := now
	next.LastReviewAt = &reviewedAt
	next.NextReviewAt = now.Add(interval)
	next.UpdatedAt = now

	return &next, nil
}

// updateMemory recomputes stability and difficulty for the reviewed card.
func (s *defaultService) updateMemory(next *domain.Card, prev *domain.Card, rating Rating, elapsedDays float64) {
	if prev.State == domain.CardStateNew {
		next.Stability = s.algo.initialStability(rating)
		next.Difficulty = s.algo.initialDifficulty(rating, true)
		return
	}

	if elapsedDays < 1 {
		next.Stability = s.algo.shortTermStability(prev.Stability, rating)
	} else {
		r := s.algo.retrievability(elapsedDays, prev.Stability)
		next.Stability = s.algo.nextStability(prev.Difficulty, prev.Stability, r, rating)
	}
	next.Difficulty = s.algo.nextDifficulty(prev.Difficulty, rating)
}

// transition applies the state machine and returns the scheduling interval.
// Learning and relearning use short intra-day steps; a card graduates to
// review as soon as it is recalled normally.
func (s *defaultService) transition(next *domain.Card, prevState domain.CardState, rating Rating) time.Duration {
	againStep := time.Duration(s.params.AgainStepMinutes) * time.Minute
	hardStep := time.Duration(s.params.HardStepMinutes) * time.Minute

	switch prevState {
	case domain.CardStateNew, domain.CardStateLearning:
		switch rating {
		case RatingAgain:
			next.State = domain.CardStateLearning
			return againStep
		case RatingHard:
			next.State = domain.CardStateLearning
			return hardStep
		default:
			return s.graduate(next)
		}

	case domain.CardStateRelearning:
		switch rating {
		case RatingAgain:
			next.State = domain.CardStateRelearning
			return againStep
		case RatingHard:
			next.State = domain.CardStateRelearning
			return hardStep
		default:
			return s.graduate(next)
		}

	default: // review
		if rating == RatingAgain {
			next.State = domain.CardStateRelearning
			return againStep
		}
		return s.graduate(next)
	}
}

// graduate moves the card into steady-state review and schedules it by the
// retention-derived interval.
func (s *defaultService) graduate(next *domain.Card) time.Duration {
	next.State = domain.CardStateReview
	days := s.algo.nextIntervalDays(next.Stability, s.params.DesiredRetention, s.params.MaximumIntervalDays)
	return time.Duration(days) * 24 * time.Hour
}
