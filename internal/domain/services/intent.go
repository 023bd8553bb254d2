package services

import (
	"strings"

	"scamtrap-lab/internal/domain/models"
)

// IntentDetector labels the scammer's latest message with a coarse intent
// for the state machine: one of request_info, provide_info, refusal,
// pushback, chit_chat, unknown. Refusal and pushback vocabulary wins over
// provide-info signals since a reluctant scammer needs handling first.
type IntentDetector struct{}

var refusalPhrases = []string{
	"no", "not", "can't", "cannot", "won't", "will not", "refuse",
	"don't have", "do not have", "not sharing", "not possible",
}

var pushbackPhrases = []string{
	"why", "who are you", "suspicious", "scam", "fraud", "fake",
	"reporting", "police", "not comfortable", "stop messaging",
	"how do i know", "prove", "trust you",
}

var provideSignals = []string{
	"here is", "here's", "this is my", "send to", "pay to", "use this",
	"my number", "my account", "my upi",
}

var requestSignals = []string{
	"send me", "give me", "share your", "tell me your", "what is your",
	"need your", "provide your", "enter your",
}

// NewIntentDetector creates a new intent detector
func NewIntentDetector() *IntentDetector {
	return &IntentDetector{}
}

// Detect labels one message. A message that actually carries new
// intelligence counts as provide_info regardless of its wording.
func (id *IntentDetector) Detect(text string, intel models.ExtractedIntel) models.Intent {
	lower := strings.ToLower(text)

	if containsAny(lower, pushbackPhrases) {
		return models.IntentPushback
	}
	if containsAnyWord(lower, refusalPhrases) {
		return models.IntentRefusal
	}
	if len(intel.UPIIDs) > 0 || len(intel.BankAccounts) > 0 ||
		len(intel.AllLinks) > 0 || len(intel.PhoneNumbers) > 0 {
		return models.IntentProvideInfo
	}
	if containsAny(lower, provideSignals) {
		return models.IntentProvideInfo
	}
	if containsAny(lower, requestSignals) {
		return models.IntentRequestInfo
	}
	if strings.TrimSpace(lower) == "" {
		return models.IntentUnknown
	}
	return models.IntentChitChat
}

// containsAnyWord matches whole words so "no" does not fire inside
// "number" or "now".
func containsAnyWord(text string, words []string) bool {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '\'')
	})
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	for _, w := range words {
		if strings.Contains(w, " ") {
			if strings.Contains(text, w) {
				return true
			}
			continue
		}
		if set[w] {
			return true
		}
	}
	return false
}
