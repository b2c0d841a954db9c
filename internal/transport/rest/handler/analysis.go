package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"closerlab/internal/service"
	"closerlab/internal/transport/rest/middleware"
)

const analyzeTimeout = 90 * time.Second

// AnalysisHandler handles post-call scoring endpoints.
type AnalysisHandler struct {
	sessionSvc *service.SessionService
	scoringSvc *service.ScoringService
}

func NewAnalysisHandler(sessionSvc *service.SessionService, scoringSvc *service.ScoringService) *AnalysisHandler {
	return &AnalysisHandler{sessionSvc: sessionSvc, scoringSvc: scoringSvc}
}

// Request handles POST /v1/sessions/{sessionId}/analysis. Scoring runs in the
// background; the caller polls GET or waits for the analysis_ready push.
func (h *AnalysisHandler) Request(w http.ResponseWriter, r *http.Request) {
	traineeID := middleware.GetTraineeID(r.Context())
	sessionID := mux.Vars(r)["sessionId"]

	session, err := h.sessionSvc.Get(r.Context(), traineeID, sessionID)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	if !session.Ended() {
		writeError(w, http.StatusConflict, "session is still in progress")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
		defer cancel()
		if _, err := h.scoringSvc.Analyze(ctx, sessionID); err != nil {
			log.Printf("Analysis for session %s failed: %v", sessionID, err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{
		"sessionId": sessionID,
		"status":    "pending",
	})
}

// Get handles GET /v1/sessions/{sessionId}/analysis
func (h *AnalysisHandler) Get(w http.ResponseWriter, r *http.Request) {
	traineeID := middleware.GetTraineeID(r.Context())
	sessionID := mux.Vars(r)["sessionId"]

	session, err := h.sessionSvc.Get(r.Context(), traineeID, sessionID)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}

	result, err := h.scoringSvc.Get(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load analysis")
		return
	}
	if result == nil {
		writeJSON(w, http.StatusOK, map[string]string{
			"sessionId": sessionID,
			"status":    string(session.AnalysisStatus),
		})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AnalysisHandler) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, service.ErrNotSessionOwner):
		writeError(w, http.StatusForbidden, "session belongs to another trainee")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
