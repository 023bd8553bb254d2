package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scamtrap-lab/internal/domain/models"
	"scamtrap-lab/internal/domain/services"
)

func newIntelHandler() *IntelHandler {
	log := testLogger()
	analyzer := services.NewLinkAnalyzer(nil, nil, log)
	return NewIntelHandler(services.NewIntelExtractor(analyzer, log), services.NewScamClassifier(log), log)
}

func TestIntelExtractEndpoint(t *testing.T) {
	h := newIntelHandler()

	req := httptest.NewRequest("POST", "/api/v1/intel/extract",
		strings.NewReader(`{"text":"send 500 to rahul@okaxis or call 9876543210"}`))
	rec := httptest.NewRecorder()
	h.Extract(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var intel models.ExtractedIntel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &intel))
	assert.Equal(t, []string{"rahul@okaxis"}, intel.UPIIDs)
	assert.Equal(t, []string{"+919876543210"}, intel.PhoneNumbers)
}

func TestIntelExtractEmptyText(t *testing.T) {
	h := newIntelHandler()

	req := httptest.NewRequest("POST", "/api/v1/intel/extract", strings.NewReader(`{"text":""}`))
	rec := httptest.NewRecorder()
	h.Extract(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "text is required")
}

func TestIntelExtractInvalidBody(t *testing.T) {
	h := newIntelHandler()

	req := httptest.NewRequest("POST", "/api/v1/intel/extract", strings.NewReader("oops"))
	rec := httptest.NewRecorder()
	h.Extract(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIntelClassifyEndpoint(t *testing.T) {
	h := newIntelHandler()

	req := httptest.NewRequest("POST", "/api/v1/intel/classify",
		strings.NewReader(`{"text":"congratulations, you won a lottery prize! claim your reward now"}`))
	rec := httptest.NewRecorder()
	h.Classify(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ClassifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.ScamLottery, resp.Analysis.ScamType)
	assert.Equal(t, models.UrgencyHigh, resp.Analysis.Urgency)
}

func TestIntelClassifyEmptyText(t *testing.T) {
	h := newIntelHandler()

	req := httptest.NewRequest("POST", "/api/v1/intel/classify", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Classify(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
