package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"scamtrap-lab/internal/domain/models"
	"scamtrap-lab/internal/domain/services"
	"scamtrap-lab/internal/infrastructure/cache"
	"scamtrap-lab/pkg/logger"
)

// URLHandler handles standalone URL analysis requests
type URLHandler struct {
	analyzer *services.LinkAnalyzer
	cache    *cache.RedisCache
	cacheTTL time.Duration
	logger   *logger.Logger
}

// NewURLHandler creates a new URL handler
func NewURLHandler(analyzer *services.LinkAnalyzer, c *cache.RedisCache, log *logger.Logger) *URLHandler {
	return &URLHandler{
		analyzer: analyzer,
		cache:    c,
		cacheTTL: time.Hour,
		logger:   log.WithComponent("url-handler"),
	}
}

// AnalyzeURLRequest is the body for URL analysis
type AnalyzeURLRequest struct {
	URL            string `json:"url"`
	MessageContext string `json:"messageContext,omitempty"`
}

// Analyze handles POST /api/v1/url/analyze
func (h *URLHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	// Cached verdicts only apply to context-free lookups: message context
	// changes institutional and TLD scoring.
	cacheable := h.cache != nil && req.MessageContext == ""
	if cacheable {
		var cached models.LinkRiskReport
		if err := h.cache.GetCachedLinkReport(r.Context(), req.URL, &cached); err == nil {
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	report := h.analyzer.Analyze(req.URL, req.MessageContext)

	if cacheable {
		if err := h.cache.CacheLinkReport(r.Context(), req.URL, report, h.cacheTTL); err != nil {
			h.logger.Warn().Err(err).Str("url", req.URL).Msg("failed to cache link report")
		}
	}

	respondJSON(w, http.StatusOK, report)
}
