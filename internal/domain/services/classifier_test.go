package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scamtrap-lab/internal/domain/models"
)

func TestClassifyBankFraud(t *testing.T) {
	sc := NewScamClassifier(testLogger())

	intel := models.NewExtractedIntel()
	intel.BankAccounts = []string{"123456789012"}

	analysis := sc.Classify("Your account blocked. Verify KYC at the branch.", intel)

	assert.Equal(t, models.ScamBankFraud, analysis.ScamType)
	assert.Contains(t, analysis.Threats, "account blocked")
}

func TestClassifyLotteryScam(t *testing.T) {
	sc := NewScamClassifier(testLogger())

	analysis := sc.Classify("Congratulations! You won a lottery prize of 25 lakh. Claim your reward.", models.NewExtractedIntel())

	assert.Equal(t, models.ScamLottery, analysis.ScamType)
	assert.Equal(t, models.UrgencyLow, analysis.Urgency)
	assert.Empty(t, analysis.Impersonating)
}

func TestClassifyUPIBonusBreaksKeywordTie(t *testing.T) {
	sc := NewScamClassifier(testLogger())

	intel := models.NewExtractedIntel()
	intel.UPIIDs = []string{"refund@okaxis"}

	analysis := sc.Classify("send the payment", intel)

	assert.Equal(t, models.ScamUPIFraud, analysis.ScamType)
}

func TestClassifyTieKeepsEarlierCategory(t *testing.T) {
	sc := NewScamClassifier(testLogger())

	// "verify" scores one point for bank fraud and one for phishing
	analysis := sc.Classify("verify", models.NewExtractedIntel())

	assert.Equal(t, models.ScamBankFraud, analysis.ScamType)
}

func TestClassifyNoSignalsIsUnknown(t *testing.T) {
	sc := NewScamClassifier(testLogger())

	analysis := sc.Classify("good morning, how are you", models.NewExtractedIntel())

	assert.Equal(t, models.ScamUnknown, analysis.ScamType)
	assert.Equal(t, 0, analysis.Confidence)
}

func TestConfidenceWeights(t *testing.T) {
	sc := NewScamClassifier(testLogger())

	tests := []struct {
		name  string
		text  string
		intel func() models.ExtractedIntel
		want  int
	}{
		{
			name:  "upi id alone",
			text:  "",
			intel: func() models.ExtractedIntel { i := models.NewExtractedIntel(); i.UPIIDs = []string{"a@ok"}; return i },
			want:  25,
		},
		{
			name:  "phone alone",
			text:  "",
			intel: func() models.ExtractedIntel { i := models.NewExtractedIntel(); i.PhoneNumbers = []string{"+919876543210"}; return i },
			want:  10,
		},
		{
			name:  "bank account alone",
			text:  "",
			intel: func() models.ExtractedIntel { i := models.NewExtractedIntel(); i.BankAccounts = []string{"123456789"}; return i },
			want:  15,
		},
		{
			name: "phishing link without critical report",
			text: "",
			intel: func() models.ExtractedIntel {
				i := models.NewExtractedIntel()
				i.PhishingLinks = []string{"http://bad.xyz"}
				i.LinkReports = []models.LinkRiskReport{{URL: "http://bad.xyz", RiskLevel: models.RiskHighRisk}}
				return i
			},
			want: 30,
		},
		{
			name: "phishing link with critical report",
			text: "",
			intel: func() models.ExtractedIntel {
				i := models.NewExtractedIntel()
				i.PhishingLinks = []string{"http://bad.xyz"}
				i.LinkReports = []models.LinkRiskReport{{URL: "http://bad.xyz", RiskLevel: models.RiskCritical}}
				return i
			},
			want: 45,
		},
		{
			name: "keyword score caps at 25",
			text: "",
			intel: func() models.ExtractedIntel {
				i := models.NewExtractedIntel()
				i.SuspiciousKeywords = []string{"urgent", "blocked", "verify", "otp", "bank", "police", "arrest"}
				return i
			},
			want: 25,
		},
		{
			name:  "threats add 15",
			text:  "pay now or face legal action",
			intel: models.NewExtractedIntel,
			want:  15 + 10, // legal action threat plus "now" urgency
		},
		{
			name:  "impersonation adds 10",
			text:  "this is sbi",
			intel: models.NewExtractedIntel,
			want:  10,
		},
		{
			name:  "medium urgency adds 5",
			text:  "do it before the deadline",
			intel: models.NewExtractedIntel,
			want:  5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := sc.Classify(tt.text, tt.intel())
			assert.Equal(t, tt.want, analysis.Confidence)
		})
	}
}

func TestConfidenceClampedAt100(t *testing.T) {
	sc := NewScamClassifier(testLogger())

	intel := models.NewExtractedIntel()
	intel.PhishingLinks = []string{"http://bad.xyz"}
	intel.LinkReports = []models.LinkRiskReport{{URL: "http://bad.xyz", RiskLevel: models.RiskCritical}}
	intel.UPIIDs = []string{"a@ok"}
	intel.PhoneNumbers = []string{"+919876543210"}
	intel.BankAccounts = []string{"123456789012"}
	intel.SuspiciousKeywords = []string{"urgent", "blocked", "verify", "otp", "police"}

	analysis := sc.Classify("this is sbi, pay immediately or face legal action", intel)

	assert.Equal(t, 100, analysis.Confidence)
}

func TestDetectUrgency(t *testing.T) {
	assert.Equal(t, models.UrgencyHigh, detectUrgency("transfer immediately"))
	assert.Equal(t, models.UrgencyHigh, detectUrgency("must be done within 24 hours"))
	assert.Equal(t, models.UrgencyMedium, detectUrgency("your card will expire"))
	assert.Equal(t, models.UrgencyLow, detectUrgency("hello there"))
}

func TestDetectImpersonationOrder(t *testing.T) {
	// sbi is checked before police, so it wins even when both appear
	assert.Equal(t, "SBI (State Bank of India)", detectImpersonation("police case against your sbi account"))
	assert.Equal(t, "Income Tax Department", detectImpersonation("notice from income tax office"))
	assert.Equal(t, "", detectImpersonation("hello friend"))
}

func TestDetectAsksForDeduplicatesLabels(t *testing.T) {
	// "send money" and "transfer" both map to Money Transfer
	asks := detectAsksFor("share your otp and pin, then send money to transfer funds and pay")

	assert.Equal(t, []string{"OTP", "PIN", "Money Transfer", "Payment"}, asks)
}

func TestDetectThreats(t *testing.T) {
	threats := detectThreats("your account will be blocked and we will file a police case")

	assert.Contains(t, threats, "account will be blocked")
	assert.Contains(t, threats, "police case")
}
