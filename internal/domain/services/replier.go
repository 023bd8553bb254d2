package services

import (
	"context"
	"math/rand"

	"scamtrap-lab/internal/domain/models"
)

// ReplyGenerator produces the honeypot's next message for a conversation
// phase. An LLM-backed implementation can be plugged in; the template
// replier below is the built-in fallback.
type ReplyGenerator interface {
	Reply(ctx context.Context, state models.ConversationState, agentCtx models.AgentContext) (string, error)
}

// TemplateReplier picks a canned persona line per phase. The persona is a
// non-technical older adult who stalls by being slow, never by accusing.
type TemplateReplier struct{}

var stateReplies = map[models.ConversationState][]string{
	models.StateInitialContact: {
		"oh no, what happened?",
		"is my account safe? i dont understand",
		"who is this please? is something wrong?",
	},
	models.StateEstablishTrust: {
		"ok ji, i am listening. what should i do",
		"my son usually handles these things but he is not home",
		"sorry i am not good with phone. please explain slowly",
	},
	models.StateExtractionUPI: {
		"where specifically do i send? do you have a upi id?",
		"the app is asking for something called VPA... what do i type?",
		"i opened the app but i need your upi id to send, what is it",
	},
	models.StateExtractionBank: {
		"my upi app is not working. can i do direct bank transfer? give me account number and ifsc",
		"it says transaction failed. tell me your account number i will go to the branch",
	},
	models.StateExtractionLink: {
		"is there a website i can visit to fix this?",
		"the link you sent is not opening. send me the link properly",
	},
	models.StatePushbackHandling: {
		"im sorry sir, my phone is very slow. let me try again. just tell me the number",
		"sorry sorry, internet problem here. i am trying, please dont be angry",
	},
	models.StateLeakFakeInfo: {
		"my name is ramesh, i am calling from mumbai. is this the code? 4471",
		"ok my otp came... is it 8839? or do you need the other number",
	},
	models.StateConclude: {
		"ok i will go to the bank branch tomorrow morning and do it from there",
		"let me ask my son when he comes home, i will message you",
	},
}

// NewTemplateReplier creates a new template replier
func NewTemplateReplier() *TemplateReplier {
	return &TemplateReplier{}
}

// Reply returns a persona line for the given phase.
func (tr *TemplateReplier) Reply(_ context.Context, state models.ConversationState, _ models.AgentContext) (string, error) {
	replies, ok := stateReplies[state]
	if !ok || len(replies) == 0 {
		return "sorry network issue... one min...", nil
	}
	return replies[rand.Intn(len(replies))], nil
}
