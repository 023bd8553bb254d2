package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scamtrap-lab/internal/domain/models"
	"scamtrap-lab/internal/domain/services"
	"scamtrap-lab/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

type honeypotFixture struct {
	handler   *HoneypotHandler
	store     *services.SessionStore
	extractor *services.IntelExtractor
}

func newHoneypotFixture(t *testing.T, notifier *services.CallbackNotifier) *honeypotFixture {
	t.Helper()
	log := testLogger()
	analyzer := services.NewLinkAnalyzer(nil, nil, log)
	extractor := services.NewIntelExtractor(analyzer, log)
	store := services.NewSessionStore(services.NewScamClassifier(log), 30, log)
	agent := services.NewAgentManager(store, services.NewTemplateReplier(), log)

	return &honeypotFixture{
		handler:   NewHoneypotHandler(extractor, store, agent, notifier, log),
		store:     store,
		extractor: extractor,
	}
}

func postHoneypot(t *testing.T, h *HoneypotHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/honeypot", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ProcessMessage(rec, req)
	return rec
}

func TestProcessMessageInvalidBody(t *testing.T) {
	fx := newHoneypotFixture(t, nil)

	rec := postHoneypot(t, fx.handler, "{not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid request body")
}

func TestProcessMessageMissingSessionID(t *testing.T) {
	fx := newHoneypotFixture(t, nil)

	rec := postHoneypot(t, fx.handler, `{"message":{"sender":"scammer","text":"hi"}}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "sessionId is required")
}

func TestProcessMessageMissingText(t *testing.T) {
	fx := newHoneypotFixture(t, nil)

	rec := postHoneypot(t, fx.handler, `{"sessionId":"s1","message":{"sender":"scammer","text":""}}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "message.text is required")
}

func TestProcessMessageScamScenario(t *testing.T) {
	fx := newHoneypotFixture(t, nil)

	body := `{
		"sessionId": "s1",
		"message": {
			"sender": "scammer",
			"text": "Your SBI account is blocked! Verify at http://sbi-verify.xyz immediately",
			"timestamp": "2026-08-31T10:00:00Z"
		},
		"conversationHistory": []
	}`
	rec := postHoneypot(t, fx.handler, body)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp HoneypotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.NotEmpty(t, resp.Reply)

	session, ok := fx.store.Get("s1")
	require.True(t, ok)
	assert.True(t, session.ScamDetected)
	assert.Equal(t, []string{"http://sbi-verify.xyz"}, session.Intel.PhishingLinks)
	assert.GreaterOrEqual(t, session.Analysis.Confidence, 30)
}

func TestProcessMessageEmptyHistoryResetsSession(t *testing.T) {
	fx := newHoneypotFixture(t, nil)

	intel := models.NewExtractedIntel()
	intel.UPIIDs = []string{"stale@upi"}
	fx.store.AddIntelligence("s1", intel, &models.Message{Text: "stale"})

	rec := postHoneypot(t, fx.handler, `{"sessionId":"s1","message":{"sender":"scammer","text":"hello"},"conversationHistory":[]}`)

	require.Equal(t, http.StatusOK, rec.Code)

	session, ok := fx.store.Get("s1")
	require.True(t, ok)
	assert.Equal(t, 1, session.MessageCount)
	assert.Empty(t, session.Intel.UPIIDs)
}

func TestProcessMessageBackfillsFromHistory(t *testing.T) {
	fx := newHoneypotFixture(t, nil)

	body := `{
		"sessionId": "s1",
		"message": {"sender": "scammer", "text": "send to rahul@okaxis now"},
		"conversationHistory": [
			{"sender": "scammer", "text": "hello, calling from your bank"},
			{"sender": "user", "text": "oh no what happened"},
			{"sender": "scammer", "text": "your account is blocked, pay to fix it"}
		]
	}`
	rec := postHoneypot(t, fx.handler, body)

	require.Equal(t, http.StatusOK, rec.Code)

	session, ok := fx.store.Get("s1")
	require.True(t, ok)
	// three replayed messages plus the live one
	assert.Equal(t, 4, session.MessageCount)
	assert.Equal(t, []string{"rahul@okaxis"}, session.Intel.UPIIDs)
}

func TestProcessMessageDeliversFinalReport(t *testing.T) {
	delivered := make(chan models.FinalReport, 1)
	callbackSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var report models.FinalReport
		require.NoError(t, json.NewDecoder(r.Body).Decode(&report))
		delivered <- report
		w.WriteHeader(http.StatusOK)
	}))
	defer callbackSrv.Close()

	notifier := services.NewCallbackNotifier(services.CallbackConfig{URL: callbackSrv.URL}, testLogger())
	fx := newHoneypotFixture(t, notifier)

	rec := postHoneypot(t, fx.handler, `{"sessionId":"s1","message":{"sender":"scammer","text":"pay urgent to fraudster@upi"},"conversationHistory":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	select {
	case report := <-delivered:
		assert.Equal(t, "s1", report.SessionID)
		assert.True(t, report.ScamDetected)
		assert.Equal(t, []string{"fraudster@upi"}, report.ExtractedIntelligence.UPIIDs)
		assert.NotEmpty(t, report.AgentNotes)
	case <-time.After(3 * time.Second):
		t.Fatal("final report was not delivered")
	}
}

func TestProcessMessageBenignConversationNotReported(t *testing.T) {
	delivered := make(chan struct{}, 1)
	callbackSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		delivered <- struct{}{}
	}))
	defer callbackSrv.Close()

	notifier := services.NewCallbackNotifier(services.CallbackConfig{URL: callbackSrv.URL}, testLogger())
	fx := newHoneypotFixture(t, notifier)

	rec := postHoneypot(t, fx.handler, `{"sessionId":"s1","message":{"sender":"scammer","text":"hello ji, good morning"},"conversationHistory":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	select {
	case <-delivered:
		t.Fatal("benign conversation must not trigger a report")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestProcessMessageResponseIsJSON(t *testing.T) {
	fx := newHoneypotFixture(t, nil)

	req := httptest.NewRequest("POST", "/api/v1/honeypot", bytes.NewReader([]byte(`{"sessionId":"s1","message":{"text":"hello"}}`)))
	rec := httptest.NewRecorder()
	fx.handler.ProcessMessage(rec, req)

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
