package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"scamtrap-lab/internal/domain/services"
	"scamtrap-lab/pkg/logger"
)

// SessionHandler exposes accumulated session intelligence
type SessionHandler struct {
	store  *services.SessionStore
	logger *logger.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(store *services.SessionStore, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		store:  store,
		logger: log.WithComponent("session-handler"),
	}
}

// Get handles GET /api/v1/session/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	session, ok := h.store.Get(sessionID)
	if !ok {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// Report handles GET /api/v1/session/{id}/report
func (h *SessionHandler) Report(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if _, ok := h.store.Get(sessionID); !ok {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	notes := r.URL.Query().Get("notes")
	respondJSON(w, http.StatusOK, h.store.FinalReport(sessionID, notes))
}

// Context handles GET /api/v1/session/{id}/context
func (h *SessionHandler) Context(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if _, ok := h.store.Get(sessionID); !ok {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	respondJSON(w, http.StatusOK, h.store.AgentContext(sessionID))
}

// Delete handles DELETE /api/v1/session/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	h.store.Delete(sessionID)
	respondJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
