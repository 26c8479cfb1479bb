package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avelow/recite-api/internal/api/middleware"
	"github.com/avelow/recite-api/internal/api/shared"
	"github.com/avelow/recite-api/internal/service"
)

// SessionHandler handles session lifecycle requests.
type SessionHandler struct {
	sessionService *service.SessionService
	timeFunc       func() time.Time
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	if sessionService == nil {
		panic("sessionService cannot be nil")
	}
	return &SessionHandler{
		sessionService: sessionService,
		timeFunc:       time.Now,
	}
}

// Start handles POST /sessions.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	// An empty body means UTC; the zero offset is valid.
	var req StartSessionRequest
	if r.ContentLength > 0 {
		if err := shared.DecodeJSON(r, &req); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
			return
		}
		if err := shared.ValidateRequest(req); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error")
			return
		}
	}

	sess, err := h.sessionService.StartSession(r.Context(), userID, req.TZOffsetMinutes, h.timeFunc().UTC())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewSessionResponse(sess))
}

// Get handles GET /sessions/{id}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	sess, err := h.sessionService.GetSession(r.Context(), userID, sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewSessionResponse(sess))
}

// SubmitAnswer handles POST /sessions/{id}/answer.
func (h *SessionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error")
		return
	}

	expectedIndex := -1
	if req.ExpectedIndex != nil {
		expectedIndex = *req.ExpectedIndex
	}

	result, err := h.sessionService.SubmitAnswer(r.Context(), userID, sessionID, expectedIndex, req.Answer, h.timeFunc().UTC())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewAnswerResponse(result))
}

// Advance handles POST /sessions/{id}/advance, skipping the current item.
func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	sess, err := h.sessionService.AdvanceSession(r.Context(), userID, sessionID, h.timeFunc().UTC())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewSessionResponse(sess))
}

// requestIDs extracts the authenticated user ID and the session ID path
// parameter, writing the error response itself on failure.
func (h *SessionHandler) requestIDs(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, sessionID, true
}
