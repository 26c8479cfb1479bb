package api

import (
	"net/http"
	"time"

	"github.com/avelow/recite-api/internal/api/middleware"
	"github.com/avelow/recite-api/internal/api/shared"
	"github.com/avelow/recite-api/internal/service"
)

// ProgressHandler handles learner progress requests.
type ProgressHandler struct {
	progressService *service.ProgressService
	timeFunc        func() time.Time
}

// NewProgressHandler creates a ProgressHandler.
func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	if progressService == nil {
		panic("progressService cannot be nil")
	}
	return &ProgressHandler{
		progressService: progressService,
		timeFunc:        time.Now,
	}
}

// Streak handles GET /progress/streak.
func (h *ProgressHandler) Streak(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	status, err := h.progressService.Streak(r.Context(), userID, h.timeFunc().UTC())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, status)
}
