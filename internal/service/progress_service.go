package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/avelow/recite-api/internal/store"
	"github.com/avelow/recite-api/internal/streak"
)

// StreakStatus is the learner-facing streak view.
type StreakStatus struct {
	// Streak is the displayed streak: the stored value when the last
	// session was today or yesterday (learner-local), otherwise 0. The
	// decay is computed at read time; the stored value is untouched until
	// the next completed session.
	Streak int `json:"streak"`

	// DaysActive is the number of distinct local days with at least one
	// completed session.
	DaysActive int `json:"days_active"`

	// LastSessionAtMs is the epoch-millisecond timestamp of the last
	// completed session, zero if none.
	LastSessionAtMs int64 `json:"last_session_at_ms"`
}

// ProgressService serves learner progress reads.
type ProgressService struct {
	progressStore store.ProgressStore
	logger        *slog.Logger
}

// NewProgressService creates a ProgressService.
func NewProgressService(progressStore store.ProgressStore, log *slog.Logger) *ProgressService {
	if progressStore == nil {
		panic("progressStore cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ProgressService{
		progressStore: progressStore,
		logger:        log.With(slog.String("component", "progress_service")),
	}
}

// Streak returns the learner's streak as of now. A learner with no progress
// record yet gets the zero status rather than an error.
func (s *ProgressService) Streak(ctx context.Context, userID uuid.UUID, now time.Time) (*StreakStatus, error) {
	progress, err := s.progressStore.Get(ctx, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return &StreakStatus{}, nil
		}
		return nil, err
	}

	state := streak.State{Streak: progress.Streak, LastSessionAtMs: progress.LastSessionAtMs}
	return &StreakStatus{
		Streak:          streak.Current(state, now.UnixMilli(), progress.TZOffsetMinutes),
		DaysActive:      progress.DaysActive,
		LastSessionAtMs: progress.LastSessionAtMs,
	}, nil
}
