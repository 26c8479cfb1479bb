package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Progress-specific validation errors.
var (
	ErrProgressUserIDEmpty    = errors.New("progress user ID cannot be empty")
	ErrProgressStreakNegative = errors.New("progress streak cannot be negative")
)

// UserProgress is the per-learner progress record: the day-based streak, the
// moment of the last completed session, and how many distinct local days the
// learner has been active. Streak fields are mutated only by applying the
// streak engine's transition output.
type UserProgress struct {
	UserID uuid.UUID `json:"user_id"`

	// Streak is the stored consecutive-day count. The displayed value may
	// be lower; see streak.Current for read-time decay.
	Streak int `json:"streak"`

	// LastSessionAtMs is the epoch-millisecond timestamp of the last
	// completed session. Zero means the learner has never finished one.
	LastSessionAtMs int64 `json:"last_session_at_ms"`

	// DaysActive counts distinct local days with at least one completed
	// session. It keys the session planner's phase mixture.
	DaysActive int `json:"days_active"`

	// TZOffsetMinutes is the learner's offset in minutes behind UTC (the
	// JavaScript getTimezoneOffset convention), used for day-boundary
	// arithmetic.
	TZOffsetMinutes int `json:"tz_offset_minutes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserProgress creates an empty progress record for a learner.
func NewUserProgress(userID uuid.UUID) (*UserProgress, error) {
	now := time.Now().UTC()
	progress := &UserProgress{
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := progress.Validate(); err != nil {
		return nil, err
	}

	return progress, nil
}

// Validate checks if the UserProgress has valid data.
func (p *UserProgress) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrProgressUserIDEmpty
	}

	if p.Streak < 0 || p.DaysActive < 0 {
		return ErrProgressStreakNegative
	}

	return nil
}
