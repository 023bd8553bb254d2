package services

import (
	"strings"

	"scamtrap-lab/internal/domain/models"
	"scamtrap-lab/pkg/logger"
)

// ScamClassifier assigns a scam category, confidence score, urgency level,
// impersonation target, and tactic lists to conversation text. The whole
// analysis is recomputed from scratch on every call.
type ScamClassifier struct {
	logger *logger.Logger
}

var bankFraudKeywords = []string{
	"account", "blocked", "suspended", "kyc", "verify", "netbanking",
	"debit card", "credit card", "atm", "branch", "ifsc",
}

var upiFraudKeywords = []string{
	"upi", "paytm", "phonepe", "gpay", "google pay", "bhim",
	"send money", "transfer", "payment", "pay now", "collect",
}

var phishingKeywords = []string{
	"click", "link", "verify", "login", "password", "update",
	"confirm", "secure", "validate",
}

var lotteryKeywords = []string{
	"won", "winner", "prize", "lottery", "lucky", "congratulations",
	"claim", "reward", "gift", "free", "cashback",
}

var jobScamKeywords = []string{
	"job", "work from home", "earn", "income", "salary", "offer",
	"hiring", "vacancy", "part time", "full time", "wfh",
}

var techSupportKeywords = []string{
	"virus", "infected", "hacked", "malware", "security", "computer",
	"device", "phone", "sim", "locked", "compromised",
}

var loanScamKeywords = []string{
	"loan", "pre-approved", "sanction", "emi", "interest", "credit",
	"disbursement", "processing fee",
}

type impersonationEntity struct {
	keyword string
	entity  string
}

// impersonationEntities are checked in order; the first keyword found in
// the text names the impersonated entity.
var impersonationEntities = []impersonationEntity{
	{"sbi", "SBI (State Bank of India)"},
	{"hdfc", "HDFC Bank"},
	{"icici", "ICICI Bank"},
	{"axis", "Axis Bank"},
	{"kotak", "Kotak Mahindra Bank"},
	{"pnb", "Punjab National Bank"},
	{"rbi", "RBI (Reserve Bank of India)"},
	{"income tax", "Income Tax Department"},
	{"customs", "Customs Department"},
	{"police", "Police"},
	{"cyber cell", "Cyber Crime Cell"},
	{"court", "Court"},
	{"paytm", "Paytm"},
	{"phonepe", "PhonePe"},
	{"amazon", "Amazon"},
	{"flipkart", "Flipkart"},
}

var threatPatterns = []string{
	"account will be blocked",
	"account blocked",
	"account suspended",
	"legal action",
	"police case",
	"arrest",
	"fir",
	"court notice",
	"penalty",
	"fine",
	"freeze",
	"deactivate",
	"terminate",
	"close your account",
	"jail",
	"prosecution",
}

type asksForPattern struct {
	pattern string
	label   string
}

var asksForPatterns = []asksForPattern{
	{"otp", "OTP"},
	{"pin", "PIN"},
	{"password", "Password"},
	{"cvv", "CVV"},
	{"card number", "Card Number"},
	{"account number", "Account Number"},
	{"upi id", "UPI ID"},
	{"upi pin", "UPI PIN"},
	{"bank details", "Bank Details"},
	{"aadhaar", "Aadhaar Number"},
	{"pan", "PAN Card"},
	{"send money", "Money Transfer"},
	{"pay", "Payment"},
	{"transfer", "Money Transfer"},
	{"click", "Link Click"},
	{"verify", "Verification"},
}

var highUrgencyTerms = []string{
	"immediately", "now", "urgent", "asap", "hurry", "quick",
	"within 24 hours", "today", "right now", "instant",
}

var mediumUrgencyTerms = []string{
	"soon", "as soon as possible", "at the earliest", "before",
	"deadline", "expire", "last chance",
}

// NewScamClassifier creates a new classifier
func NewScamClassifier(log *logger.Logger) *ScamClassifier {
	return &ScamClassifier{logger: log.WithComponent("scam-classifier")}
}

// Classify analyzes the combined conversation text plus the aggregated
// intelligence and returns a full analysis.
func (sc *ScamClassifier) Classify(text string, intel models.ExtractedIntel) models.ScamAnalysis {
	textLower := strings.ToLower(text)

	return models.ScamAnalysis{
		ScamType:      sc.detectScamType(textLower, intel),
		Confidence:    sc.calculateConfidence(textLower, intel),
		Urgency:       detectUrgency(textLower),
		Impersonating: detectImpersonation(textLower),
		Threats:       detectThreats(textLower),
		AsksFor:       detectAsksFor(textLower),
	}
}

type categoryScore struct {
	scamType models.ScamType
	keywords []string
	bonus    int
}

func (sc *ScamClassifier) detectScamType(text string, intel models.ExtractedIntel) models.ScamType {
	categories := []categoryScore{
		{models.ScamBankFraud, bankFraudKeywords, 0},
		{models.ScamUPIFraud, upiFraudKeywords, 0},
		{models.ScamPhishing, phishingKeywords, 0},
		{models.ScamLottery, lotteryKeywords, 0},
		{models.ScamJob, jobScamKeywords, 0},
		{models.ScamTechSupport, techSupportKeywords, 0},
		{models.ScamLoan, loanScamKeywords, 0},
	}

	if len(intel.UPIIDs) > 0 {
		categories[1].bonus += 3
	}
	if len(intel.PhishingLinks) > 0 {
		categories[2].bonus += 3
	}
	if len(intel.BankAccounts) > 0 {
		categories[0].bonus += 2
	}

	best := models.ScamUnknown
	bestScore := 0
	for _, cat := range categories {
		score := cat.bonus
		for _, kw := range cat.keywords {
			if strings.Contains(text, kw) {
				score++
			}
		}
		// strict > keeps the earlier category on ties
		if score > bestScore {
			bestScore = score
			best = cat.scamType
		}
	}
	return best
}

func (sc *ScamClassifier) calculateConfidence(text string, intel models.ExtractedIntel) int {
	score := 0

	if len(intel.PhishingLinks) > 0 {
		score += 30
		for _, report := range intel.LinkReports {
			if report.RiskLevel == models.RiskCritical {
				score += 15
				break
			}
		}
	}
	if len(intel.UPIIDs) > 0 {
		score += 25
	}
	if len(intel.PhoneNumbers) > 0 {
		score += 10
	}
	if len(intel.BankAccounts) > 0 {
		score += 15
	}

	keywordScore := len(intel.SuspiciousKeywords) * 5
	if keywordScore > 25 {
		keywordScore = 25
	}
	score += keywordScore

	if len(detectThreats(text)) > 0 {
		score += 15
	}
	if detectImpersonation(text) != "" {
		score += 10
	}

	switch detectUrgency(text) {
	case models.UrgencyHigh:
		score += 10
	case models.UrgencyMedium:
		score += 5
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

func detectUrgency(text string) models.UrgencyLevel {
	if containsAny(text, highUrgencyTerms) {
		return models.UrgencyHigh
	}
	if containsAny(text, mediumUrgencyTerms) {
		return models.UrgencyMedium
	}
	return models.UrgencyLow
}

func detectImpersonation(text string) string {
	for _, e := range impersonationEntities {
		if strings.Contains(text, e.keyword) {
			return e.entity
		}
	}
	return ""
}

func detectThreats(text string) []string {
	threats := []string{}
	for _, pattern := range threatPatterns {
		if strings.Contains(text, pattern) {
			threats = append(threats, pattern)
		}
	}
	return threats
}

// detectAsksFor returns distinct requested-information labels in
// first-seen order. Two patterns may share a label.
func detectAsksFor(text string) []string {
	asks := []string{}
	seen := map[string]bool{}
	for _, p := range asksForPatterns {
		if strings.Contains(text, p.pattern) && !seen[p.label] {
			seen[p.label] = true
			asks = append(asks, p.label)
		}
	}
	return asks
}
