package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scamtrap-lab/internal/domain/models"
)

func TestDeliverPostsFinalReport(t *testing.T) {
	var received models.FinalReport
	var deliveryID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		deliveryID = r.Header.Get("X-Delivery-ID")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cn := NewCallbackNotifier(CallbackConfig{URL: srv.URL}, testLogger())

	report := models.FinalReport{
		SessionID:              "s1",
		ScamDetected:           true,
		TotalMessagesExchanged: 4,
		ExtractedIntelligence: models.ReportIntel{
			UPIIDs: []string{"fraudster@upi"},
		},
		AgentNotes: "Scam type: upi_fraud. Confidence: 60%",
	}

	err := cn.Deliver(context.Background(), report)

	require.NoError(t, err)
	assert.NotEmpty(t, deliveryID)
	assert.Equal(t, "s1", received.SessionID)
	assert.Equal(t, []string{"fraudster@upi"}, received.ExtractedIntelligence.UPIIDs)
}

func TestDeliverWithoutURLIsNoop(t *testing.T) {
	cn := NewCallbackNotifier(CallbackConfig{}, testLogger())

	err := cn.Deliver(context.Background(), models.FinalReport{SessionID: "s1"})

	assert.NoError(t, err)
}

func TestDeliverErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cn := NewCallbackNotifier(CallbackConfig{URL: srv.URL}, testLogger())

	err := cn.Deliver(context.Background(), models.FinalReport{SessionID: "s1"})

	assert.Error(t, err)
}
