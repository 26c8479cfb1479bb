package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avelow/recite-api/internal/api/middleware"
	"github.com/avelow/recite-api/internal/api/shared"
	"github.com/avelow/recite-api/internal/service"
)

// ExerciseHandler serves exercise content, so clients can render the prompt
// for a session item they only know by ID.
type ExerciseHandler struct {
	reviewService *service.ReviewService
}

// NewExerciseHandler creates an ExerciseHandler.
func NewExerciseHandler(reviewService *service.ReviewService) *ExerciseHandler {
	if reviewService == nil {
		panic("reviewService cannot be nil")
	}
	return &ExerciseHandler{reviewService: reviewService}
}

// Get handles GET /exercises/{id}. The response carries the prompt but never
// the reference answer; that is revealed only through grading feedback.
func (h *ExerciseHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserID(r); !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	exerciseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid exercise ID")
		return
	}

	exercise, err := h.reviewService.GetExercise(r.Context(), exerciseID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ExerciseResponse{
		ID:     exercise.ID,
		Type:   string(exercise.Type),
		Prompt: exercise.Prompt,
	})
}
