package models

// ScamType is the category assigned by the classifier.
type ScamType string

const (
	ScamBankFraud   ScamType = "bank_fraud"
	ScamUPIFraud    ScamType = "upi_fraud"
	ScamPhishing    ScamType = "phishing"
	ScamLottery     ScamType = "lottery_scam"
	ScamJob         ScamType = "job_scam"
	ScamTechSupport ScamType = "tech_support"
	ScamLoan        ScamType = "loan_scam"
	ScamUnknown     ScamType = "unknown"
)

// UrgencyLevel reflects the pressure tactics seen in the conversation.
type UrgencyLevel string

const (
	UrgencyLow    UrgencyLevel = "LOW"
	UrgencyMedium UrgencyLevel = "MEDIUM"
	UrgencyHigh   UrgencyLevel = "HIGH"
)

// ScamAnalysis is the classifier output for a body of conversation text.
type ScamAnalysis struct {
	ScamType      ScamType     `json:"scamType"`
	Confidence    int          `json:"confidence"`
	Urgency       UrgencyLevel `json:"urgency"`
	Impersonating string       `json:"impersonating,omitempty"`
	Threats       []string     `json:"threats"`
	AsksFor       []string     `json:"asksFor"`
}

// ConversationState is the phase of the honeypot engagement.
type ConversationState string

const (
	StateInitialContact   ConversationState = "INITIAL_CONTACT"
	StateEstablishTrust   ConversationState = "ESTABLISH_TRUST"
	StateExtractionUPI    ConversationState = "EXTRACTION_UPI"
	StateExtractionBank   ConversationState = "EXTRACTION_BANK"
	StateExtractionLink   ConversationState = "EXTRACTION_LINK"
	StatePushbackHandling ConversationState = "PUSHBACK_HANDLING"
	StateLeakFakeInfo     ConversationState = "LEAK_FAKE_INFO"
	StateConclude         ConversationState = "CONCLUDE"
)

// Intent is the coarse reading of what the scammer's latest message does.
type Intent string

const (
	IntentRequestInfo Intent = "request_info"
	IntentProvideInfo Intent = "provide_info"
	IntentRefusal     Intent = "refusal"
	IntentPushback    Intent = "pushback"
	IntentChitChat    Intent = "chit_chat"
	IntentUnknown     Intent = "unknown"
)
