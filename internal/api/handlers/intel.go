package handlers

import (
	"encoding/json"
	"net/http"

	"scamtrap-lab/internal/domain/models"
	"scamtrap-lab/internal/domain/services"
	"scamtrap-lab/pkg/logger"
)

// IntelHandler exposes the extractor and classifier directly, for tooling
// and analyst workflows that sit outside a live conversation.
type IntelHandler struct {
	extractor  *services.IntelExtractor
	classifier *services.ScamClassifier
	logger     *logger.Logger
}

// NewIntelHandler creates a new intel handler
func NewIntelHandler(extractor *services.IntelExtractor, classifier *services.ScamClassifier, log *logger.Logger) *IntelHandler {
	return &IntelHandler{
		extractor:  extractor,
		classifier: classifier,
		logger:     log.WithComponent("intel-handler"),
	}
}

// ExtractRequest is the body for both extraction and classification
type ExtractRequest struct {
	Text string `json:"text"`
}

// Extract handles POST /api/v1/intel/extract
func (h *IntelHandler) Extract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	respondJSON(w, http.StatusOK, h.extractor.Extract(req.Text))
}

// ClassifyResponse pairs an analysis with the intel it was derived from
type ClassifyResponse struct {
	Analysis models.ScamAnalysis   `json:"analysis"`
	Intel    models.ExtractedIntel `json:"intel"`
}

// Classify handles POST /api/v1/intel/classify
func (h *IntelHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	intel := h.extractor.Extract(req.Text)
	analysis := h.classifier.Classify(req.Text, intel)

	respondJSON(w, http.StatusOK, ClassifyResponse{
		Analysis: analysis,
		Intel:    intel,
	})
}
