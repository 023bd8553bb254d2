package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"scamtrap-lab/internal/api"
	"scamtrap-lab/internal/api/handlers"
	"scamtrap-lab/internal/config"
	"scamtrap-lab/internal/domain/services"
	"scamtrap-lab/internal/infrastructure/cache"
	"scamtrap-lab/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting Scamtrap Lab")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis is optional; without it the service runs with in-memory state
	// only and no distributed rate limiting.
	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		redisCache, err = cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without cache")
			redisCache = nil
		}
	}
	defer func() {
		if redisCache != nil {
			redisCache.Close()
		}
	}()

	// External lookup clients for the link analyzer
	var whoisClient services.WhoisClient
	if cfg.Analyzer.EnableWhois {
		whoisClient = services.NewRDAPClient(services.RDAPConfig{
			BaseURL: cfg.Analyzer.RDAPBaseURL,
			Timeout: cfg.Analyzer.LookupTimeout,
		}, log)
	}
	if whoisClient != nil && redisCache != nil {
		whoisClient = services.NewCachedWhoisClient(whoisClient, redisCache, cfg.Analyzer.CacheTTL, log)
	}
	var reputationSearcher services.ReputationSearcher
	if cfg.Analyzer.EnableWebSearch {
		reputationSearcher = services.NewDDGSearcher(services.DDGConfig{
			BaseURL: cfg.Analyzer.SearchBaseURL,
			Timeout: cfg.Analyzer.LookupTimeout,
		}, log)
	}

	// Core services
	analyzer := services.NewLinkAnalyzer(whoisClient, reputationSearcher, log)
	extractor := services.NewIntelExtractor(analyzer, log)
	classifier := services.NewScamClassifier(log)
	store := services.NewSessionStore(classifier, cfg.Detection.ScamConfidenceThreshold, log)
	agent := services.NewAgentManager(store, services.NewTemplateReplier(), log)

	var notifier *services.CallbackNotifier
	if cfg.Callback.Enabled {
		notifier = services.NewCallbackNotifier(services.CallbackConfig{
			URL:     cfg.Callback.URL,
			Timeout: cfg.Callback.Timeout,
		}, log)
	}

	// HTTP layer
	h := handlers.NewHandlers(handlers.Dependencies{
		Extractor:  extractor,
		Analyzer:   analyzer,
		Classifier: classifier,
		Store:      store,
		Agent:      agent,
		Notifier:   notifier,
		Cache:      redisCache,
		Logger:     log,
	})
	router := api.NewRouter(*cfg, h, redisCache, log)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}
