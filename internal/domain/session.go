package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SessionStatus represents the lifecycle state of a session.
type SessionStatus string

// Possible session statuses.
const (
	SessionStatusActive   SessionStatus = "active"
	SessionStatusComplete SessionStatus = "complete"
)

// IsValid reports whether the status is recognized.
func (s SessionStatus) IsValid() bool {
	return s == SessionStatusActive || s == SessionStatusComplete
}

// ItemCategory classifies where a session item came from. The planner
// interleaves items round-robin across categories in a fixed priority order.
type ItemCategory string

// Recognized item categories, in planner priority order.
const (
	ItemCategoryReview ItemCategory = "review"
	ItemCategoryDrill  ItemCategory = "drill"
	ItemCategoryNew    ItemCategory = "new"
)

// IsValid reports whether the category is recognized.
func (c ItemCategory) IsValid() bool {
	switch c {
	case ItemCategoryReview, ItemCategoryDrill, ItemCategoryNew:
		return true
	default:
		return false
	}
}

// SessionItem is one planned exercise within a session.
type SessionItem struct {
	ExerciseID uuid.UUID    `json:"exercise_id"`
	Category   ItemCategory `json:"category"`
}

// Session-specific validation errors.
var (
	ErrSessionIDEmpty       = errors.New("session ID cannot be empty")
	ErrSessionUserIDEmpty   = errors.New("session user ID cannot be empty")
	ErrSessionCursorRange   = errors.New("session cursor must be between 0 and the item count")
	ErrSessionItemInvalid   = errors.New("session item is invalid")
	ErrSessionStatusInvalid = errors.New("session status is not recognized")
)

// Session is one sitting's worth of exercises. Items are fixed at creation;
// only CurrentIndex and Status change afterwards, and only through the
// session progress machine. A complete session is immutable.
type Session struct {
	ID           uuid.UUID     `json:"id"`
	UserID       uuid.UUID     `json:"user_id"`
	Items        []SessionItem `json:"items"`
	CurrentIndex int           `json:"current_index"`
	Status       SessionStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NewSession creates a session for the given learner over the planned items.
// An empty plan yields an already-complete session.
func NewSession(userID uuid.UUID, items []SessionItem) (*Session, error) {
	now := time.Now().UTC()
	status := SessionStatusActive
	if len(items) == 0 {
		status = SessionStatusComplete
	}

	session := &Session{
		ID:           uuid.New(),
		UserID:       userID,
		Items:        items,
		CurrentIndex: 0,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the Session has valid data.
func (s *Session) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSessionIDEmpty
	}

	if s.UserID == uuid.Nil {
		return ErrSessionUserIDEmpty
	}

	if s.CurrentIndex < 0 || s.CurrentIndex > len(s.Items) {
		return ErrSessionCursorRange
	}

	if !s.Status.IsValid() {
		return ErrSessionStatusInvalid
	}

	for _, item := range s.Items {
		if item.ExerciseID == uuid.Nil || !item.Category.IsValid() {
			return ErrSessionItemInvalid
		}
	}

	return nil
}

// CurrentItem returns the item under the cursor, or false when the session
// has no remaining items.
func (s *Session) CurrentItem() (SessionItem, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Items) {
		return SessionItem{}, false
	}
	return s.Items[s.CurrentIndex], true
}
