package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"closerlab/internal/model"
	"closerlab/internal/service"
	"closerlab/internal/transport/rest/middleware"
)

// SessionHandler handles roleplay session endpoints.
type SessionHandler struct {
	sessionSvc *service.SessionService
	scoringSvc *service.ScoringService
}

func NewSessionHandler(sessionSvc *service.SessionService, scoringSvc *service.ScoringService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc, scoringSvc: scoringSvc}
}

// Start handles POST /v1/sessions
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	traineeID := middleware.GetTraineeID(r.Context())

	var req model.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OfferID == "" {
		writeError(w, http.StatusBadRequest, "offerId is required")
		return
	}

	resp, err := h.sessionSvc.Start(r.Context(), traineeID, &req)
	if errors.Is(err, service.ErrOfferNotFound) {
		writeError(w, http.StatusNotFound, "offer not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to start session")
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// PostTurn handles POST /v1/sessions/{sessionId}/turns
func (h *SessionHandler) PostTurn(w http.ResponseWriter, r *http.Request) {
	traineeID := middleware.GetTraineeID(r.Context())
	sessionID := mux.Vars(r)["sessionId"]

	var req model.PostTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.sessionSvc.PostTurn(r.Context(), traineeID, sessionID, req.Text)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// End handles POST /v1/sessions/{sessionId}/end
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	traineeID := middleware.GetTraineeID(r.Context())
	sessionID := mux.Vars(r)["sessionId"]

	var req model.EndSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.sessionSvc.End(r.Context(), traineeID, sessionID, req.Status)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}

	// Kick off scoring right away; the caller gets the result via the
	// analysis_ready push or by polling GET .../analysis.
	if session.Status == model.SessionCompleted && len(session.Turns) > 0 {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
			defer cancel()
			if _, err := h.scoringSvc.Analyze(ctx, sessionID); err != nil {
				log.Printf("Analysis for session %s failed: %v", sessionID, err)
			}
		}()
	}

	writeJSON(w, http.StatusOK, session)
}

// List handles GET /v1/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	traineeID := middleware.GetTraineeID(r.Context())

	sessions, err := h.sessionSvc.List(r.Context(), traineeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	if sessions == nil {
		sessions = []*model.Session{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

// Get handles GET /v1/sessions/{sessionId}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	traineeID := middleware.GetTraineeID(r.Context())
	sessionID := mux.Vars(r)["sessionId"]

	session, err := h.sessionSvc.Get(r.Context(), traineeID, sessionID)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// VoiceBrief handles GET /v1/sessions/{sessionId}/voice
func (h *SessionHandler) VoiceBrief(w http.ResponseWriter, r *http.Request) {
	traineeID := middleware.GetTraineeID(r.Context())
	sessionID := mux.Vars(r)["sessionId"]

	brief, err := h.sessionSvc.VoiceBrief(r.Context(), traineeID, sessionID)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, brief)
}

func (h *SessionHandler) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, service.ErrNotSessionOwner):
		writeError(w, http.StatusForbidden, "session belongs to another trainee")
	case errors.Is(err, service.ErrSessionEnded):
		writeError(w, http.StatusConflict, "session already ended")
	case errors.Is(err, service.ErrEmptyUtterance):
		writeError(w, http.StatusBadRequest, "utterance text is empty")
	case service.IsTransientGeneration(err):
		writeError(w, http.StatusServiceUnavailable, "prospect reply temporarily unavailable, retry the turn")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
