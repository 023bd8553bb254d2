package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"scamtrap-lab/internal/domain/models"
	"scamtrap-lab/internal/domain/services"
	"scamtrap-lab/pkg/logger"
)

// HoneypotHandler handles the main scammer conversation endpoint
type HoneypotHandler struct {
	extractor *services.IntelExtractor
	store     *services.SessionStore
	agent     *services.AgentManager
	notifier  *services.CallbackNotifier
	logger    *logger.Logger
}

// NewHoneypotHandler creates a new honeypot handler
func NewHoneypotHandler(extractor *services.IntelExtractor, store *services.SessionStore, agent *services.AgentManager, notifier *services.CallbackNotifier, log *logger.Logger) *HoneypotHandler {
	return &HoneypotHandler{
		extractor: extractor,
		store:     store,
		agent:     agent,
		notifier:  notifier,
		logger:    log.WithComponent("honeypot-handler"),
	}
}

// HoneypotRequest is the inbound message envelope
type HoneypotRequest struct {
	SessionID           string            `json:"sessionId"`
	Message             models.Message    `json:"message"`
	ConversationHistory []models.Message  `json:"conversationHistory"`
	Metadata            *HoneypotMetadata `json:"metadata,omitempty"`
}

// HoneypotMetadata carries optional conversation context
type HoneypotMetadata struct {
	Channel  string `json:"channel,omitempty"`
	Language string `json:"language,omitempty"`
	Locale   string `json:"locale,omitempty"`
}

// HoneypotResponse is the agent's reply envelope
type HoneypotResponse struct {
	Status string `json:"status"`
	Reply  string `json:"reply"`
}

// ProcessMessage handles POST /api/v1/honeypot
func (h *HoneypotHandler) ProcessMessage(w http.ResponseWriter, r *http.Request) {
	var req HoneypotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		respondError(w, http.StatusUnprocessableEntity, "sessionId is required")
		return
	}
	if req.Message.Text == "" {
		respondError(w, http.StatusUnprocessableEntity, "message.text is required")
		return
	}

	log := h.logger.WithSession(req.SessionID)
	log.Info().
		Str("sender", req.Message.Sender).
		Int("history_len", len(req.ConversationHistory)).
		Msg("Message received")

	// Empty history marks a fresh conversation; otherwise rebuild lost
	// state from the carried history.
	if len(req.ConversationHistory) == 0 {
		h.store.Clear(req.SessionID)
	} else {
		h.store.Backfill(req.SessionID, req.ConversationHistory, h.extractor)
	}

	intel := h.extractor.Extract(req.Message.Text)
	session := h.store.AddIntelligence(req.SessionID, intel, &req.Message)

	log.Info().
		Bool("scam_detected", session.ScamDetected).
		Int("confidence", session.Analysis.Confidence).
		Int("message_count", session.MessageCount).
		Msg("Session updated")

	reply, _, err := h.agent.GenerateResponse(r.Context(), req.SessionID, req.Message.Text, intel)
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate reply")
		respondError(w, http.StatusInternalServerError, "failed to generate reply")
		return
	}

	if h.notifier != nil && h.store.ShouldReport(req.SessionID) {
		report := h.store.FinalReport(req.SessionID, "")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := h.notifier.Deliver(ctx, report); err != nil {
				log.Warn().Err(err).Msg("Callback delivery failed")
			}
		}()
	}

	respondJSON(w, http.StatusOK, HoneypotResponse{
		Status: "success",
		Reply:  reply,
	})
}
