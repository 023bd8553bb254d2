package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"scamtrap-lab/internal/domain/models"
	"scamtrap-lab/pkg/logger"
)

// SessionStore aggregates intelligence per scammer session. Updates to a
// session are serialized by a per-session lock; the whole analysis is
// recomputed from the accumulated state on every merge, and scamDetected
// never flips back to false once set.
type SessionStore struct {
	mu         sync.RWMutex
	sessions   map[string]*sessionEntry
	classifier *ScamClassifier
	threshold  int
	logger     *logger.Logger
}

type sessionEntry struct {
	mu      sync.Mutex
	session models.SessionIntelligence
}

// NewSessionStore creates a store. threshold is the confidence at which a
// session is marked as a detected scam.
func NewSessionStore(classifier *ScamClassifier, threshold int, log *logger.Logger) *SessionStore {
	if threshold <= 0 {
		threshold = 30
	}
	return &SessionStore{
		sessions:   make(map[string]*sessionEntry),
		classifier: classifier,
		threshold:  threshold,
		logger:     log.WithComponent("session-store"),
	}
}

func (ss *SessionStore) entry(sessionID string) *sessionEntry {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	e, ok := ss.sessions[sessionID]
	if !ok {
		e = &sessionEntry{session: newSession(sessionID)}
		ss.sessions[sessionID] = e
	}
	return e
}

func newSession(sessionID string) models.SessionIntelligence {
	now := time.Now()
	return models.SessionIntelligence{
		SessionID: sessionID,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []models.Message{},
		Intel:     models.NewExtractedIntel(),
		Analysis: models.ScamAnalysis{
			ScamType: models.ScamUnknown,
			Urgency:  models.UrgencyLow,
			Threats:  []string{},
			AsksFor:  []string{},
		},
		State: models.StateInitialContact,
	}
}

// Get returns a copy of the session, and false if it does not exist.
func (ss *SessionStore) Get(sessionID string) (models.SessionIntelligence, bool) {
	ss.mu.RLock()
	e, ok := ss.sessions[sessionID]
	ss.mu.RUnlock()
	if !ok {
		return models.SessionIntelligence{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session, true
}

// Clear resets a session so a new conversation starts from scratch.
func (ss *SessionStore) Clear(sessionID string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[sessionID] = &sessionEntry{session: newSession(sessionID)}
}

// Delete removes a session entirely.
func (ss *SessionStore) Delete(sessionID string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, sessionID)
}

// AddIntelligence merges one message's intel delta into the session,
// bumps the message counter, appends the message if given, and
// reclassifies the whole conversation. Returns the updated session.
func (ss *SessionStore) AddIntelligence(sessionID string, intel models.ExtractedIntel, message *models.Message) models.SessionIntelligence {
	e := ss.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()

	ss.mergeLocked(e, intel, message)
	return e.session
}

func (ss *SessionStore) mergeLocked(e *sessionEntry, intel models.ExtractedIntel, message *models.Message) {
	s := &e.session

	s.Intel.BankAccounts = mergeUnique(s.Intel.BankAccounts, intel.BankAccounts)
	s.Intel.UPIIDs = mergeUnique(s.Intel.UPIIDs, intel.UPIIDs)
	s.Intel.PhishingLinks = mergeUnique(s.Intel.PhishingLinks, intel.PhishingLinks)
	s.Intel.PhoneNumbers = mergeUnique(s.Intel.PhoneNumbers, intel.PhoneNumbers)
	s.Intel.SuspiciousKeywords = mergeUnique(s.Intel.SuspiciousKeywords, intel.SuspiciousKeywords)
	s.Intel.Emails = mergeUnique(s.Intel.Emails, intel.Emails)
	s.Intel.AllLinks = mergeUnique(s.Intel.AllLinks, intel.AllLinks)

	// link reports dedupe by URL, first report wins
	seen := make(map[string]bool, len(s.Intel.LinkReports))
	for _, r := range s.Intel.LinkReports {
		seen[r.URL] = true
	}
	for _, r := range intel.LinkReports {
		if !seen[r.URL] {
			s.Intel.LinkReports = append(s.Intel.LinkReports, r)
			seen[r.URL] = true
		}
	}

	s.MessageCount++
	if message != nil {
		s.Messages = append(s.Messages, *message)
	}
	s.UpdatedAt = time.Now()

	fullText := conversationText(s.Messages)
	s.Analysis = ss.classifier.Classify(fullText, s.Intel)
	if s.Analysis.Confidence >= ss.threshold {
		s.ScamDetected = true
	}
}

func mergeUnique(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, v := range existing {
		seen[v] = true
	}
	for _, v := range incoming {
		if !seen[v] {
			existing = append(existing, v)
			seen[v] = true
		}
	}
	return existing
}

func conversationText(messages []models.Message) string {
	parts := make([]string, len(messages))
	for i, m := range messages {
		parts[i] = m.Text
	}
	return strings.Join(parts, " ")
}

// SetState records the conversation phase chosen for the next turn.
func (ss *SessionStore) SetState(sessionID string, state models.ConversationState) {
	e := ss.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.State = state
	e.session.UpdatedAt = time.Now()
}

// Backfill rebuilds a session from the conversation history carried on a
// request. When the server lost state the history is longer than what we
// hold; in that case the session is replayed from scratch and the phase
// is estimated from the message count.
func (ss *SessionStore) Backfill(sessionID string, history []models.Message, extractor *IntelExtractor) models.SessionIntelligence {
	e := ss.entry(sessionID)
	e.mu.Lock()
	if len(history) <= len(e.session.Messages) {
		defer e.mu.Unlock()
		return e.session
	}
	e.mu.Unlock()

	ss.logger.Info().
		Str("session_id", sessionID).
		Int("history_len", len(history)).
		Msg("Replaying conversation history")

	ss.Clear(sessionID)
	e = ss.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range history {
		msg := history[i]
		intel := extractor.Extract(msg.Text)
		ss.mergeLocked(e, intel, &msg)
	}
	e.session.State = StateByMessageCount(e.session.MessageCount)
	return e.session
}

// FinalReport builds the callback payload for a concluded session. When
// agentNotes is empty a summary is generated from the latest analysis.
func (ss *SessionStore) FinalReport(sessionID, agentNotes string) models.FinalReport {
	e := ss.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if agentNotes == "" {
		agentNotes = generateAgentNotes(s.Analysis, s.MessageCount)
	}

	return models.FinalReport{
		SessionID:              sessionID,
		ScamDetected:           s.ScamDetected,
		TotalMessagesExchanged: s.MessageCount,
		ExtractedIntelligence: models.ReportIntel{
			BankAccounts:       s.Intel.BankAccounts,
			UPIIDs:             s.Intel.UPIIDs,
			PhishingLinks:      s.Intel.PhishingLinks,
			PhoneNumbers:       s.Intel.PhoneNumbers,
			SuspiciousKeywords: s.Intel.SuspiciousKeywords,
		},
		AgentNotes: agentNotes,
	}
}

func generateAgentNotes(analysis models.ScamAnalysis, messageCount int) string {
	if messageCount == 0 {
		return "No analysis available"
	}
	notes := []string{
		fmt.Sprintf("Scam type: %s", analysis.ScamType),
		fmt.Sprintf("Confidence: %d%%", analysis.Confidence),
	}
	if analysis.Impersonating != "" {
		notes = append(notes, fmt.Sprintf("Impersonating: %s", analysis.Impersonating))
	}
	if len(analysis.Threats) > 0 {
		notes = append(notes, fmt.Sprintf("Threats used: %s", strings.Join(head(analysis.Threats, 3), ", ")))
	}
	if len(analysis.AsksFor) > 0 {
		notes = append(notes, fmt.Sprintf("Asked for: %s", strings.Join(head(analysis.AsksFor, 3), ", ")))
	}
	return strings.Join(notes, ". ")
}

func head(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// AgentContext builds the condensed session view for reply generation.
func (ss *SessionStore) AgentContext(sessionID string) models.AgentContext {
	e := ss.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	riskyLinks := []string{}
	for _, report := range s.Intel.LinkReports {
		if report.IsRisky() {
			reason := "Unknown reason"
			if len(report.Reasons) > 0 {
				reason = report.Reasons[0]
			}
			riskyLinks = append(riskyLinks, fmt.Sprintf("%s (%s: %s)", report.URL, report.RiskLevel, reason))
		}
	}

	return models.AgentContext{
		ScamDetected: s.ScamDetected,
		Confidence:   s.Analysis.Confidence,
		ScamType:     s.Analysis.ScamType,
		Urgency:      s.Analysis.Urgency,
		Tactics: models.ContextTactics{
			Impersonating: s.Analysis.Impersonating,
			Threats:       s.Analysis.Threats,
			AsksFor:       s.Analysis.AsksFor,
		},
		Intel: models.ContextIntel{
			UPIIDs:       s.Intel.UPIIDs,
			PhoneNumbers: s.Intel.PhoneNumbers,
			BankAccounts: s.Intel.BankAccounts,
			Emails:       s.Intel.Emails,
			RiskyLinks:   riskyLinks,
		},
		Session: models.ContextSession{
			MessageCount:    s.MessageCount,
			DurationSeconds: int(time.Since(s.CreatedAt).Seconds()),
		},
	}
}

// ShouldReport decides whether a final report is ready for delivery: the
// scam must be confirmed and the conversation either concluded or the
// high-value identifiers already captured.
func (ss *SessionStore) ShouldReport(sessionID string) bool {
	e := ss.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if !s.ScamDetected {
		return false
	}
	return s.State == models.StateConclude ||
		len(s.Intel.BankAccounts) > 0 || len(s.Intel.UPIIDs) > 0
}
