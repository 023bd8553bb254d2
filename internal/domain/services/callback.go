package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"scamtrap-lab/internal/domain/models"
	"scamtrap-lab/pkg/logger"
)

// CallbackNotifier delivers final session reports to an external endpoint
// once a scam is confirmed. Delivery failures are logged, never surfaced
// to the conversation flow.
type CallbackNotifier struct {
	url        string
	httpClient *http.Client
	logger     *logger.Logger
}

// CallbackConfig holds configuration for the notifier
type CallbackConfig struct {
	URL     string
	Timeout time.Duration
}

// NewCallbackNotifier creates a new callback notifier
func NewCallbackNotifier(config CallbackConfig, log *logger.Logger) *CallbackNotifier {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &CallbackNotifier{
		url: config.URL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log.WithComponent("callback-notifier"),
	}
}

// Deliver posts the final report as JSON.
func (cn *CallbackNotifier) Deliver(ctx context.Context, report models.FinalReport) error {
	if cn.url == "" {
		cn.logger.Debug().Str("session_id", report.SessionID).Msg("Callback URL not configured, skipping delivery")
		return nil
	}

	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal final report: %w", err)
	}

	deliveryID := uuid.New().String()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cn.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build callback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Delivery-ID", deliveryID)

	resp, err := cn.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("callback request failed: %w", err)
	}
	defer resp.Body.Close()

	cn.logger.Info().
		Str("session_id", report.SessionID).
		Str("delivery_id", deliveryID).
		Int("status", resp.StatusCode).
		Msg("Final report delivered")

	if resp.StatusCode >= 400 {
		return fmt.Errorf("callback returned status %d", resp.StatusCode)
	}
	return nil
}
