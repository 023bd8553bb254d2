package handlers

import (
	"encoding/json"
	"net/http"

	"scamtrap-lab/internal/domain/services"
	"scamtrap-lab/internal/infrastructure/cache"
	"scamtrap-lab/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health   *HealthHandler
	Honeypot *HoneypotHandler
	Intel    *IntelHandler
	URL      *URLHandler
	Session  *SessionHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Extractor  *services.IntelExtractor
	Analyzer   *services.LinkAnalyzer
	Classifier *services.ScamClassifier
	Store      *services.SessionStore
	Agent      *services.AgentManager
	Notifier   *services.CallbackNotifier
	Cache      *cache.RedisCache
	Logger     *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(deps.Cache, deps.Logger),
		Honeypot: NewHoneypotHandler(deps.Extractor, deps.Store, deps.Agent, deps.Notifier, deps.Logger),
		Intel:    NewIntelHandler(deps.Extractor, deps.Classifier, deps.Logger),
		URL:      NewURLHandler(deps.Analyzer, deps.Cache, deps.Logger),
		Session:  NewSessionHandler(deps.Store, deps.Logger),
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"status": "error", "detail": message})
}
