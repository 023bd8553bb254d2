package models

import "time"

// SessionIntelligence is the accumulated picture of one scammer session.
type SessionIntelligence struct {
	SessionID    string            `json:"sessionId"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
	MessageCount int               `json:"messageCount"`
	Messages     []Message         `json:"messages"`
	Intel        ExtractedIntel    `json:"intel"`
	Analysis     ScamAnalysis      `json:"analysis"`
	State        ConversationState `json:"state"`
	ScamDetected bool              `json:"scamDetected"`
}

// FinalReport is the callback payload delivered when a session concludes.
type FinalReport struct {
	SessionID              string          `json:"sessionId"`
	ScamDetected           bool            `json:"scamDetected"`
	TotalMessagesExchanged int             `json:"totalMessagesExchanged"`
	ExtractedIntelligence  ReportIntel     `json:"extractedIntelligence"`
	AgentNotes             string          `json:"agentNotes"`
}

// ReportIntel is the intelligence section of a final report.
type ReportIntel struct {
	BankAccounts       []string `json:"bankAccounts"`
	UPIIDs             []string `json:"upiIds"`
	PhishingLinks      []string `json:"phishingLinks"`
	PhoneNumbers       []string `json:"phoneNumbers"`
	SuspiciousKeywords []string `json:"suspiciousKeywords"`
}

// AgentContext is the condensed session view handed to a reply generator.
type AgentContext struct {
	ScamDetected bool           `json:"scamDetected"`
	Confidence   int            `json:"confidence"`
	ScamType     ScamType       `json:"scamType"`
	Urgency      UrgencyLevel   `json:"urgency"`
	Tactics      ContextTactics `json:"tactics"`
	Intel        ContextIntel   `json:"intel"`
	Session      ContextSession `json:"session"`
}

type ContextTactics struct {
	Impersonating string   `json:"impersonating"`
	Threats       []string `json:"threats"`
	AsksFor       []string `json:"asksFor"`
}

type ContextIntel struct {
	UPIIDs       []string `json:"upiIds"`
	PhoneNumbers []string `json:"phoneNumbers"`
	BankAccounts []string `json:"bankAccounts"`
	Emails       []string `json:"emails"`
	RiskyLinks   []string `json:"riskyLinks"`
}

type ContextSession struct {
	MessageCount    int `json:"messageCount"`
	DurationSeconds int `json:"durationSeconds"`
}
