package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/avelow/recite-api/internal/api/middleware"
	"github.com/avelow/recite-api/internal/api/shared"
	"github.com/avelow/recite-api/internal/service"
)

// ReviewHandler handles review-queue and statistics requests.
type ReviewHandler struct {
	reviewService *service.ReviewService
	timeFunc      func() time.Time
}

// NewReviewHandler creates a ReviewHandler.
func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	if reviewService == nil {
		panic("reviewService cannot be nil")
	}
	return &ReviewHandler{
		reviewService: reviewService,
		timeFunc:      time.Now,
	}
}

// Due handles GET /reviews/due. An optional "limit" query parameter caps the
// page size; the configured default applies otherwise.
func (h *ReviewHandler) Due(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	reviews, err := h.reviewService.Due(r.Context(), userID, h.timeFunc().UTC(), limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewDueReviewsResponse(reviews))
}

// Stats handles GET /reviews/stats.
func (h *ReviewHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	stats, err := h.reviewService.Stats(r.Context(), userID, h.timeFunc().UTC())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}
