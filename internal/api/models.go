package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/avelow/recite-api/internal/domain"
	"github.com/avelow/recite-api/internal/service"
)

// --- Auth ---

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest is the payload for POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is returned on successful registration, login, or refresh.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id,omitempty"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
}

// --- Sessions ---

// StartSessionRequest is the payload for POST /sessions.
type StartSessionRequest struct {
	// TZOffsetMinutes is the learner's offset in minutes BEHIND UTC,
	// exactly what JavaScript's Date.getTimezoneOffset() returns: 300 for
	// UTC-5 (New York winter), -120 for UTC+2 (Berlin summer). Clients
	// pass the getTimezoneOffset() value through unchanged. Bounded to
	// real offsets (UTC+14 .. UTC-12).
	TZOffsetMinutes int `json:"tz_offset_minutes" validate:"gte=-840,lte=720"`
}

// SessionItemResponse is one planned item in a session.
type SessionItemResponse struct {
	ExerciseID uuid.UUID `json:"exercise_id"`
	Category   string    `json:"category"`
}

// SessionResponse is the client view of a session.
type SessionResponse struct {
	ID           uuid.UUID             `json:"id"`
	Items        []SessionItemResponse `json:"items"`
	CurrentIndex int                   `json:"current_index"`
	Status       string                `json:"status"`
	CreatedAt    time.Time             `json:"created_at"`
}

// NewSessionResponse maps a domain session to its API shape.
func NewSessionResponse(s *domain.Session) SessionResponse {
	items := make([]SessionItemResponse, len(s.Items))
	for i, item := range s.Items {
		items[i] = SessionItemResponse{
			ExerciseID: item.ExerciseID,
			Category:   string(item.Category),
		}
	}
	return SessionResponse{
		ID:           s.ID,
		Items:        items,
		CurrentIndex: s.CurrentIndex,
		Status:       string(s.Status),
		CreatedAt:    s.CreatedAt,
	}
}

// SubmitAnswerRequest is the payload for POST /sessions/{id}/answer.
type SubmitAnswerRequest struct {
	Answer string `json:"answer"`

	// ExpectedIndex is the item position the client is answering. Omitted,
	// the server grades whatever the cursor points at; provided, a stale
	// value is rejected as a conflict instead of grading the wrong item.
	ExpectedIndex *int `json:"expected_index,omitempty" validate:"omitempty,gte=0"`
}

// GradingResponse is the judgment portion of an answer result.
type GradingResponse struct {
	Status     string `json:"status"`
	Feedback   string `json:"feedback"`
	Correction string `json:"correction,omitempty"`
	Analysis   string `json:"analysis,omitempty"`
}

// AnswerResponse is returned after an answer is graded and recorded.
type AnswerResponse struct {
	Grading           GradingResponse `json:"grading"`
	Card              CardResponse    `json:"card"`
	Session           SessionResponse `json:"session"`
	SessionComplete   bool            `json:"session_complete"`
	StreakIncremented bool            `json:"streak_incremented,omitempty"`
	Streak            int             `json:"streak,omitempty"`
}

// NewAnswerResponse maps a service answer result to its API shape.
func NewAnswerResponse(res *service.AnswerResult) AnswerResponse {
	return AnswerResponse{
		Grading: GradingResponse{
			Status:     string(res.Outcome.Status),
			Feedback:   res.Outcome.Feedback,
			Correction: res.Outcome.Correction,
			Analysis:   res.Outcome.Analysis,
		},
		Card:              NewCardResponse(res.Card),
		Session:           NewSessionResponse(res.Session),
		SessionComplete:   res.Session.Status == domain.SessionStatusComplete,
		StreakIncremented: res.StreakIncremented,
		Streak:            res.Streak,
	}
}

// --- Reviews ---

// CardResponse is the client view of scheduling state.
type CardResponse struct {
	ExerciseID    uuid.UUID  `json:"exercise_id"`
	State         string     `json:"state"`
	Stability     float64    `json:"stability"`
	Difficulty    float64    `json:"difficulty"`
	Reps          int        `json:"reps"`
	Lapses        int        `json:"lapses"`
	LastReviewAt  *time.Time `json:"last_review_at,omitempty"`
	NextReviewAt  time.Time  `json:"next_review_at"`
	ScheduledDays float64    `json:"scheduled_days"`
}

// NewCardResponse maps a domain card to its API shape.
func NewCardResponse(c *domain.Card) CardResponse {
	return CardResponse{
		ExerciseID:    c.ExerciseID,
		State:         string(c.State),
		Stability:     c.Stability,
		Difficulty:    c.Difficulty,
		Reps:          c.Reps,
		Lapses:        c.Lapses,
		LastReviewAt:  c.LastReviewAt,
		NextReviewAt:  c.NextReviewAt,
		ScheduledDays: c.ScheduledDays,
	}
}

// ExerciseResponse is the client view of an exercise.
type ExerciseResponse struct {
	ID     uuid.UUID `json:"id"`
	Type   string    `json:"type"`
	Prompt string    `json:"prompt"`
}

// DueReviewResponse pairs a due card with its exercise. The reference answer
// is withheld until the answer is graded.
type DueReviewResponse struct {
	Exercise ExerciseResponse `json:"exercise"`
	Card     CardResponse     `json:"card"`
}

// DueReviewsResponse is the due-queue page.
type DueReviewsResponse struct {
	Reviews []DueReviewResponse `json:"reviews"`
}

// NewDueReviewsResponse maps the service's due queue to its API shape.
func NewDueReviewsResponse(reviews []service.DueReview) DueReviewsResponse {
	out := make([]DueReviewResponse, len(reviews))
	for i, review := range reviews {
		out[i] = DueReviewResponse{
			Exercise: ExerciseResponse{
				ID:     review.Exercise.ID,
				Type:   string(review.Exercise.Type),
				Prompt: review.Exercise.Prompt,
			},
			Card: NewCardResponse(review.Card),
		}
	}
	return DueReviewsResponse{Reviews: out}
}
