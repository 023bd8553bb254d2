package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scamtrap-lab/internal/domain/models"
)

func newTestStore() *SessionStore {
	log := testLogger()
	return NewSessionStore(NewScamClassifier(log), 30, log)
}

func msg(text string) *models.Message {
	return &models.Message{Sender: "scammer", Text: text, Timestamp: "2026-08-31T10:00:00Z"}
}

func TestSessionStoreCreatesOnFirstUse(t *testing.T) {
	store := newTestStore()

	_, ok := store.Get("s1")
	assert.False(t, ok)

	session := store.AddIntelligence("s1", models.NewExtractedIntel(), msg("hello"))

	assert.Equal(t, "s1", session.SessionID)
	assert.Equal(t, 1, session.MessageCount)
	assert.Equal(t, models.StateInitialContact, session.State)
	assert.False(t, session.ScamDetected)

	got, ok := store.Get("s1")
	require.True(t, ok)
	assert.Equal(t, 1, got.MessageCount)
}

func TestSessionStoreMergeDeduplicates(t *testing.T) {
	store := newTestStore()

	intel := models.NewExtractedIntel()
	intel.UPIIDs = []string{"rahul@okaxis"}
	intel.PhoneNumbers = []string{"+919876543210"}

	store.AddIntelligence("s1", intel, msg("send to rahul@okaxis"))
	session := store.AddIntelligence("s1", intel, msg("i said rahul@okaxis"))

	assert.Equal(t, []string{"rahul@okaxis"}, session.Intel.UPIIDs)
	assert.Equal(t, []string{"+919876543210"}, session.Intel.PhoneNumbers)
	assert.Equal(t, 2, session.MessageCount)
	assert.Len(t, session.Messages, 2)
}

func TestSessionStoreLinkReportFirstWins(t *testing.T) {
	store := newTestStore()

	first := models.NewExtractedIntel()
	first.AllLinks = []string{"http://example.org"}
	first.LinkReports = []models.LinkRiskReport{{URL: "http://example.org", RiskLevel: models.RiskSafe}}

	second := models.NewExtractedIntel()
	second.AllLinks = []string{"http://example.org"}
	second.LinkReports = []models.LinkRiskReport{{URL: "http://example.org", RiskLevel: models.RiskCritical}}

	store.AddIntelligence("s1", first, msg("link"))
	session := store.AddIntelligence("s1", second, msg("link again"))

	require.Len(t, session.Intel.LinkReports, 1)
	assert.Equal(t, models.RiskSafe, session.Intel.LinkReports[0].RiskLevel)
}

func TestSessionStoreScamDetectionIsSticky(t *testing.T) {
	store := newTestStore()

	hot := models.NewExtractedIntel()
	hot.UPIIDs = []string{"fraudster@upi"}
	hot.SuspiciousKeywords = []string{"urgent", "pay"}

	session := store.AddIntelligence("s1", hot, msg("pay urgent to fraudster@upi"))
	require.True(t, session.ScamDetected, "confidence %d", session.Analysis.Confidence)

	session = store.AddIntelligence("s1", models.NewExtractedIntel(), msg("ok"))
	assert.True(t, session.ScamDetected)
}

func TestSessionStoreReclassifiesWholeConversation(t *testing.T) {
	store := newTestStore()

	store.AddIntelligence("s1", models.NewExtractedIntel(), msg("your account"))
	session := store.AddIntelligence("s1", models.NewExtractedIntel(), msg("blocked, verify kyc"))

	// classification sees both messages joined together
	assert.Equal(t, models.ScamBankFraud, session.Analysis.ScamType)
	assert.Contains(t, session.Analysis.Threats, "account blocked")
}

func TestSessionStoreConfidenceNeverDecreases(t *testing.T) {
	store := newTestStore()

	steps := []struct {
		intel models.ExtractedIntel
		text  string
	}{
		{models.NewExtractedIntel(), "hello sir good evening"},
		{models.NewExtractedIntel(), "i am calling from sbi bank about your account"},
		{models.NewExtractedIntel(), "urgent, verify your kyc now or account blocked"},
		{intelWith([]string{"fraudster@upi"}, nil, nil), "send the fee to fraudster@upi"},
		{intelWith(nil, []string{"http://sbi-verify.xyz"}, nil), "or use http://sbi-verify.xyz"},
	}

	prev := 0
	for _, step := range steps {
		session := store.AddIntelligence("s1", step.intel, msg(step.text))
		assert.GreaterOrEqual(t, session.Analysis.Confidence, prev,
			"confidence dropped after %q", step.text)
		prev = session.Analysis.Confidence
	}
	assert.Greater(t, prev, 0)
}

func TestSessionStoreClear(t *testing.T) {
	store := newTestStore()

	intel := models.NewExtractedIntel()
	intel.UPIIDs = []string{"rahul@okaxis"}
	store.AddIntelligence("s1", intel, msg("send to rahul@okaxis"))

	store.Clear("s1")

	session, ok := store.Get("s1")
	require.True(t, ok)
	assert.Equal(t, 0, session.MessageCount)
	assert.Empty(t, session.Intel.UPIIDs)
	assert.False(t, session.ScamDetected)
}

func TestSessionStoreDelete(t *testing.T) {
	store := newTestStore()

	store.AddIntelligence("s1", models.NewExtractedIntel(), msg("hello"))
	store.Delete("s1")

	_, ok := store.Get("s1")
	assert.False(t, ok)
}

func TestSessionStoreBackfillReplaysHistory(t *testing.T) {
	store := newTestStore()
	extractor := newTestExtractor()

	history := []models.Message{
		{Sender: "scammer", Text: "hello, this is from your bank"},
		{Sender: "user", Text: "oh no, what happened?"},
		{Sender: "scammer", Text: "your account is blocked, pay to restore"},
		{Sender: "user", Text: "how do i pay?"},
		{Sender: "scammer", Text: "send to rahul@okaxis immediately"},
		{Sender: "user", Text: "ok trying"},
		{Sender: "scammer", Text: "hurry up, do it now"},
	}

	session := store.Backfill("s1", history, extractor)

	assert.Equal(t, 7, session.MessageCount)
	assert.Equal(t, models.StateExtractionUPI, session.State)
	assert.Equal(t, []string{"rahul@okaxis"}, session.Intel.UPIIDs)
	assert.True(t, session.ScamDetected)
}

func TestSessionStoreBackfillSkipsWhenHistoryNotLonger(t *testing.T) {
	store := newTestStore()
	extractor := newTestExtractor()

	intel := models.NewExtractedIntel()
	intel.UPIIDs = []string{"rahul@okaxis"}
	store.AddIntelligence("s1", intel, msg("send to rahul@okaxis"))
	store.AddIntelligence("s1", models.NewExtractedIntel(), msg("hurry"))

	session := store.Backfill("s1", []models.Message{{Text: "hello"}}, extractor)

	// existing state is kept, nothing replayed
	assert.Equal(t, 2, session.MessageCount)
	assert.Equal(t, []string{"rahul@okaxis"}, session.Intel.UPIIDs)
}

func TestSessionStoreFinalReport(t *testing.T) {
	store := newTestStore()

	intel := models.NewExtractedIntel()
	intel.UPIIDs = []string{"fraudster@upi"}
	intel.PhoneNumbers = []string{"+919876543210"}
	intel.SuspiciousKeywords = []string{"urgent", "pay"}
	store.AddIntelligence("s1", intel, msg("this is sbi, pay urgent to fraudster@upi or face legal action"))

	report := store.FinalReport("s1", "")

	assert.Equal(t, "s1", report.SessionID)
	assert.True(t, report.ScamDetected)
	assert.Equal(t, 1, report.TotalMessagesExchanged)
	assert.Equal(t, []string{"fraudster@upi"}, report.ExtractedIntelligence.UPIIDs)
	assert.Contains(t, report.AgentNotes, "Scam type:")
	assert.Contains(t, report.AgentNotes, "Confidence:")
	assert.Contains(t, report.AgentNotes, "Impersonating: SBI (State Bank of India)")
	assert.Contains(t, report.AgentNotes, "Threats used: legal action")
}

func TestSessionStoreFinalReportCustomNotes(t *testing.T) {
	store := newTestStore()
	store.AddIntelligence("s1", models.NewExtractedIntel(), msg("hello"))

	report := store.FinalReport("s1", "operator escalation")

	assert.Equal(t, "operator escalation", report.AgentNotes)
}

func TestSessionStoreFinalReportEmptySession(t *testing.T) {
	store := newTestStore()

	report := store.FinalReport("ghost", "")

	assert.Equal(t, "No analysis available", report.AgentNotes)
	assert.False(t, report.ScamDetected)
}

func TestSessionStoreAgentContext(t *testing.T) {
	store := newTestStore()

	intel := models.NewExtractedIntel()
	intel.UPIIDs = []string{"fraudster@upi"}
	intel.PhishingLinks = []string{"http://bad.xyz"}
	intel.AllLinks = []string{"http://bad.xyz"}
	intel.LinkReports = []models.LinkRiskReport{{
		URL:       "http://bad.xyz",
		RiskLevel: models.RiskHighRisk,
		Reasons:   []string{"High-risk TLD: .xyz"},
	}}
	store.AddIntelligence("s1", intel, msg("click http://bad.xyz and pay to fraudster@upi"))

	ctx := store.AgentContext("s1")

	assert.True(t, ctx.ScamDetected)
	assert.Equal(t, []string{"fraudster@upi"}, ctx.Intel.UPIIDs)
	assert.Equal(t, []string{"http://bad.xyz (HIGH_RISK: High-risk TLD: .xyz)"}, ctx.Intel.RiskyLinks)
	assert.Equal(t, 1, ctx.Session.MessageCount)
}

func TestSessionStoreShouldReport(t *testing.T) {
	store := newTestStore()

	// nothing detected yet
	assert.False(t, store.ShouldReport("s1"))

	hot := models.NewExtractedIntel()
	hot.UPIIDs = []string{"fraudster@upi"}
	hot.SuspiciousKeywords = []string{"urgent", "pay"}
	store.AddIntelligence("s1", hot, msg("pay urgent to fraudster@upi"))

	// scam detected and a UPI handle captured
	assert.True(t, store.ShouldReport("s1"))

	// detected but no high-value identifiers and not concluded
	coldButScammy := models.NewExtractedIntel()
	coldButScammy.PhoneNumbers = []string{"+919876543210"}
	coldButScammy.SuspiciousKeywords = []string{"urgent", "blocked", "verify", "otp", "police"}
	store.AddIntelligence("s2", coldButScammy, msg("urgent, account blocked, verify otp or police case"))
	assert.False(t, store.ShouldReport("s2"))

	// concluded sessions report once detected
	store.SetState("s2", models.StateConclude)
	assert.True(t, store.ShouldReport("s2"))
}
