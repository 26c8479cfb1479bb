package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/avelow/recite-api/internal/domain"
	"github.com/avelow/recite-api/internal/domain/srs"
	"github.com/avelow/recite-api/internal/grading"
	"github.com/avelow/recite-api/internal/platform/logger"
	"github.com/avelow/recite-api/internal/session"
	"github.com/avelow/recite-api/internal/store"
	"github.com/avelow/recite-api/internal/streak"
)

// AnswerResult is everything a client needs after submitting one answer: the
// judgment, the rescheduled card, and the session's new position.
type AnswerResult struct {
	Outcome *domain.GradingOutcome
	Card    *domain.Card
	Session *domain.Session

	// StreakIncremented is true when completing this session extended the
	// learner's day streak. Always false while the session is still active.
	StreakIncremented bool

	// Streak is the stored streak after any completion side effects. Zero
	// while the session is still active.
	Streak int
}

// SessionService plans sessions, grades answers against the judgment
// pipeline, and applies the resulting card and progress transitions. It owns
// the transaction that keeps a session's cursor, the graded card, and the
// learner's progress consistent under concurrent submissions.
type SessionService struct {
	txRunner      store.TxRunner
	sessionStore  store.SessionStore
	cardStore     store.CardStore
	exerciseStore store.ExerciseStore
	progressStore store.ProgressStore
	pipeline      *grading.Pipeline
	scheduler     srs.Service
	logger        *slog.Logger
}

// NewSessionService creates a SessionService. All dependencies are required.
func NewSessionService(
	txRunner store.TxRunner,
	sessionStore store.SessionStore,
	cardStore store.CardStore,
	exerciseStore store.ExerciseStore,
	progressStore store.ProgressStore,
	pipeline *grading.Pipeline,
	scheduler srs.Service,
	log *slog.Logger,
) *SessionService {
	if txRunner == nil {
		panic("txRunner cannot be nil")
	}
	if sessionStore == nil {
		panic("sessionStore cannot be nil")
	}
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if exerciseStore == nil {
		panic("exerciseStore cannot be nil")
	}
	if progressStore == nil {
		panic("progressStore cannot be nil")
	}
	if pipeline == nil {
		panic("pipeline cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &SessionService{
		txRunner:      txRunner,
		sessionStore:  sessionStore,
		cardStore:     cardStore,
		exerciseStore: exerciseStore,
		progressStore: progressStore,
		pipeline:      pipeline,
		scheduler:     scheduler,
		logger:        log.With(slog.String("component", "session_service")),
	}
}

// StartSession plans and persists a new session for the learner. The mixture
// of due reviews, drills, and new material follows the learner's phase
// (days active); candidate pools that cannot fill their budget just yield a
// shorter session. An empty plan produces an already-complete session rather
// than an error.
//
// tzOffsetMinutes is the learner's current offset in minutes behind UTC
// (getTimezoneOffset convention); it is stored on the progress record so
// later day-boundary arithmetic follows the learner.
func (s *SessionService) StartSession(
	ctx context.Context,
	userID uuid.UUID,
	tzOffsetMinutes int,
	now time.Time,
) (*domain.Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	progress, err := s.ensureProgress(ctx, userID, tzOffsetMinutes, now)
	if err != nil {
		return nil, err
	}

	mix := session.MixForDaysActive(progress.DaysActive)

	dueCards, err := s.cardStore.Due(ctx, userID, now, mix.Review)
	if err != nil {
		return nil, fmt.Errorf("failed to query due cards: %w", err)
	}
	due := make([]uuid.UUID, len(dueCards))
	for i, card := range dueCards {
		due[i] = card.ExerciseID
	}

	var drill []uuid.UUID
	if mix.Drill > 0 {
		practiced, err := s.exerciseStore.ListPracticed(ctx, userID, now, mix.Drill)
		if err != nil {
			return nil, fmt.Errorf("failed to list drill candidates: %w", err)
		}
		drill = exerciseIDs(practiced)
	}

	unseen, err := s.exerciseStore.ListUnseen(ctx, userID, mix.New)
	if err != nil {
		return nil, fmt.Errorf("failed to list unseen exercises: %w", err)
	}

	items := session.Plan(due, drill, exerciseIDs(unseen), progress.DaysActive)

	sess, err := domain.NewSession(userID, items)
	if err != nil {
		return nil, fmt.Errorf("failed to build session: %w", err)
	}

	if err := s.sessionStore.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	log.Info("session started",
		slog.String("session_id", sess.ID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("item_count", len(items)),
		slog.Int("days_active", progress.DaysActive))

	return sess, nil
}

// GetSession returns a session after verifying ownership.
func (s *SessionService) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*domain.Session, error) {
	sess, err := s.sessionStore.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.UserID != userID {
		return nil, ErrNotOwned
	}
	return sess, nil
}

// SubmitAnswer grades the learner's answer to the session's current item and
// records every consequence: the card transition, the cursor advance, and on
// completion the streak and days-active update.
//
// expectedIndex is the item position the client believes it is answering; a
// negative value accepts whatever the cursor currently points at. Passing the
// real index makes duplicate submissions surface as ErrSessionConflict
// instead of silently grading the next item.
//
// The external grading call happens before the transaction opens so the
// judgment service's latency never holds a row lock. The session row is then
// locked and re-checked; a concurrent submission that already advanced past
// the graded item surfaces as ErrSessionConflict with nothing written.
func (s *SessionService) SubmitAnswer(
	ctx context.Context,
	userID, sessionID uuid.UUID,
	expectedIndex int,
	answer string,
	now time.Time,
) (*AnswerResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sess, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	item, ok := sess.CurrentItem()
	if !ok {
		return nil, ErrSessionComplete
	}
	if expectedIndex >= 0 && expectedIndex != sess.CurrentIndex {
		return nil, ErrSessionConflict
	}
	expectedIndex = sess.CurrentIndex

	exercise, err := s.exerciseStore.GetByID(ctx, item.ExerciseID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: session item references missing exercise %s",
				store.ErrDataIntegrity, item.ExerciseID)
		}
		return nil, err
	}

	outcome := s.pipeline.GradeAnswer(ctx, exercise, answer)

	result := &AnswerResult{Outcome: outcome}

	err = s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		locked, err := s.sessionStore.WithTx(tx).GetByIDForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}

		if locked.Status == domain.SessionStatusComplete {
			return ErrSessionComplete
		}
		if locked.CurrentIndex != expectedIndex {
			return ErrSessionConflict
		}

		card, err := recordReview(ctx, s.cardStore.WithTx(tx), s.scheduler,
			userID, item.ExerciseID, outcome.Status, now)
		if err != nil {
			return err
		}
		result.Card = card

		advanced := session.Advance(locked)
		if err := s.sessionStore.WithTx(tx).Update(ctx, advanced); err != nil {
			return err
		}
		result.Session = advanced

		if advanced.Status == domain.SessionStatusComplete {
			transition, err := s.applyCompletion(ctx, tx, userID, now)
			if err != nil {
				return err
			}
			result.StreakIncremented = transition.DidIncrement
			result.Streak = transition.Streak
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("answer recorded",
		slog.String("session_id", sessionID.String()),
		slog.String("exercise_id", item.ExerciseID.String()),
		slog.String("status", string(outcome.Status)),
		slog.Bool("session_complete", result.Session.Status == domain.SessionStatusComplete))

	return result, nil
}

// AdvanceSession moves the session cursor forward without grading, used to
// skip an item. Advancing a complete session is a no-op, so client retries
// are harmless. Completion side effects apply exactly as for a graded
// advance.
func (s *SessionService) AdvanceSession(
	ctx context.Context,
	userID, sessionID uuid.UUID,
	now time.Time,
) (*domain.Session, error) {
	var advanced *domain.Session

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		locked, err := s.sessionStore.WithTx(tx).GetByIDForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if locked.UserID != userID {
			return ErrNotOwned
		}

		wasComplete := locked.Status == domain.SessionStatusComplete
		advanced = session.Advance(locked)
		if wasComplete {
			return nil
		}

		if err := s.sessionStore.WithTx(tx).Update(ctx, advanced); err != nil {
			return err
		}

		if advanced.Status == domain.SessionStatusComplete {
			if _, err := s.applyCompletion(ctx, tx, userID, now); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return advanced, nil
}

// applyCompletion records a finished session on the learner's progress:
// streak transition plus the distinct-active-day count that drives the
// session planner's phases.
func (s *SessionService) applyCompletion(
	ctx context.Context,
	tx *sql.Tx,
	userID uuid.UUID,
	now time.Time,
) (streak.Transition, error) {
	progressStore := s.progressStore.WithTx(tx)

	progress, err := progressStore.Get(ctx, userID)
	if err != nil {
		if !store.IsNotFoundError(err) {
			return streak.Transition{}, err
		}
		progress, err = domain.NewUserProgress(userID)
		if err != nil {
			return streak.Transition{}, err
		}
	}

	nowMs := now.UnixMilli()
	prev := streak.State{Streak: progress.Streak, LastSessionAtMs: progress.LastSessionAtMs}
	transition := streak.Advance(prev, nowMs, progress.TZOffsetMinutes)

	newDay := progress.LastSessionAtMs == 0 ||
		!streak.SameDay(progress.LastSessionAtMs, nowMs, progress.TZOffsetMinutes)
	if newDay {
		progress.DaysActive++
	}

	progress.Streak = transition.Streak
	progress.LastSessionAtMs = transition.LastSessionAtMs
	progress.UpdatedAt = now

	if err := progressStore.Upsert(ctx, progress); err != nil {
		return streak.Transition{}, err
	}

	return transition, nil
}

// ensureProgress loads the learner's progress record, creating it on first
// contact and refreshing the stored timezone offset when the learner moved.
func (s *SessionService) ensureProgress(
	ctx context.Context,
	userID uuid.UUID,
	tzOffsetMinutes int,
	now time.Time,
) (*domain.UserProgress, error) {
	progress, err := s.progressStore.Get(ctx, userID)
	if err != nil {
		if !store.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to load progress: %w", err)
		}
		progress, err = domain.NewUserProgress(userID)
		if err != nil {
			return nil, err
		}
		progress.TZOffsetMinutes = tzOffsetMinutes
		if err := s.progressStore.Upsert(ctx, progress); err != nil {
			return nil, fmt.Errorf("failed to create progress: %w", err)
		}
		return progress, nil
	}

	if progress.TZOffsetMinutes != tzOffsetMinutes {
		progress.TZOffsetMinutes = tzOffsetMinutes
		progress.UpdatedAt = now
		if err := s.progressStore.Upsert(ctx, progress); err != nil {
			return nil, fmt.Errorf("failed to update progress timezone: %w", err)
		}
	}

	return progress, nil
}

func exerciseIDs(exercises []*domain.Exercise) []uuid.UUID {
	ids := make([]uuid.UUID, len(exercises))
	for i, exercise := range exercises {
		ids[i] = exercise.ID
	}
	return ids
}
