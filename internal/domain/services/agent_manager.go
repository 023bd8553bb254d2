package services

import (
	"context"

	"scamtrap-lab/internal/domain/models"
	"scamtrap-lab/pkg/logger"
)

// AgentManager drives one honeypot turn: it reads the scammer's intent,
// advances the conversation state, and asks the reply generator for the
// agent's next message. Intelligence must already be merged into the
// session before GenerateResponse is called.
type AgentManager struct {
	store        *SessionStore
	stateMachine *StateMachine
	intents      *IntentDetector
	replier      ReplyGenerator
	logger       *logger.Logger
}

// NewAgentManager creates a new agent manager
func NewAgentManager(store *SessionStore, replier ReplyGenerator, log *logger.Logger) *AgentManager {
	return &AgentManager{
		store:        store,
		stateMachine: NewStateMachine(),
		intents:      NewIntentDetector(),
		replier:      replier,
		logger:       log.WithComponent("agent-manager"),
	}
}

// GenerateResponse produces the honeypot's reply for the latest scammer
// message and records the state transition on the session.
func (am *AgentManager) GenerateResponse(ctx context.Context, sessionID, scammerText string, messageIntel models.ExtractedIntel) (string, models.ConversationState, error) {
	session, _ := am.store.Get(sessionID)

	intent := am.intents.Detect(scammerText, messageIntel)
	nextState := am.stateMachine.Next(session.State, intent, session.Intel)
	am.store.SetState(sessionID, nextState)

	am.logger.Info().
		Str("session_id", sessionID).
		Str("from", string(session.State)).
		Str("to", string(nextState)).
		Str("intent", string(intent)).
		Msg("Conversation state transition")

	reply, err := am.replier.Reply(ctx, nextState, am.store.AgentContext(sessionID))
	if err != nil {
		am.logger.Error().Err(err).Str("session_id", sessionID).Msg("Reply generation failed")
		// keep the conversation alive on generator failure
		return "sorry network issue... one min...", nextState, nil
	}
	return reply, nextState, nil
}
