package services

import (
	"scamtrap-lab/internal/domain/models"
)

// StateMachine drives the honeypot conversation plan. Transitions depend
// only on the current state, the scammer's latest intent, and which
// intelligence goals are still open, so the machine is a pure function.
type StateMachine struct{}

// NewStateMachine creates a new conversation state machine
func NewStateMachine() *StateMachine {
	return &StateMachine{}
}

// Next determines the state for the upcoming honeypot turn.
func (sm *StateMachine) Next(current models.ConversationState, intent models.Intent, intel models.ExtractedIntel) models.ConversationState {
	if current == models.StateInitialContact {
		if intent == models.IntentProvideInfo {
			return nextExtractionGoal(intel)
		}
		return models.StateEstablishTrust
	}

	if intent == models.IntentRefusal || intent == models.IntentPushback {
		if current == models.StatePushbackHandling || current == models.StateLeakFakeInfo {
			// still refusing after damage control, switch goals
			return nextExtractionGoal(intel)
		}
		return models.StatePushbackHandling
	}

	if current == models.StatePushbackHandling {
		return models.StateLeakFakeInfo
	}
	if current == models.StateLeakFakeInfo {
		return nextExtractionGoal(intel)
	}

	if current == models.StateExtractionUPI && len(intel.UPIIDs) > 0 {
		return nextExtractionGoal(intel)
	}
	if current == models.StateExtractionBank && len(intel.BankAccounts) > 0 {
		return nextExtractionGoal(intel)
	}

	if current == models.StateEstablishTrust {
		return nextExtractionGoal(intel)
	}

	return current
}

// nextExtractionGoal picks the first missing piece of intelligence:
// UPI handle, then a phishing link, then a bank account. With all three
// in hand the conversation can wind down.
func nextExtractionGoal(intel models.ExtractedIntel) models.ConversationState {
	if len(intel.UPIIDs) == 0 {
		return models.StateExtractionUPI
	}
	if len(intel.PhishingLinks) == 0 {
		return models.StateExtractionLink
	}
	if len(intel.BankAccounts) == 0 {
		return models.StateExtractionBank
	}
	return models.StateConclude
}

// StateByMessageCount derives a plausible phase for backfilled sessions
// where no transition history exists.
func StateByMessageCount(count int) models.ConversationState {
	switch {
	case count >= 7:
		return models.StateExtractionUPI
	case count >= 3:
		return models.StateEstablishTrust
	default:
		return models.StateInitialContact
	}
}
