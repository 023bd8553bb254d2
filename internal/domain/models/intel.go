package models

// RiskLevel is an ordered verdict for a URL. Higher values dominate when
// combining findings about the same link.
type RiskLevel string

const (
	RiskSafe       RiskLevel = "SAFE"
	RiskUnknown    RiskLevel = "UNKNOWN"
	RiskSuspicious RiskLevel = "SUSPICIOUS"
	RiskHighRisk   RiskLevel = "HIGH_RISK"
	RiskCritical   RiskLevel = "CRITICAL"
)

var riskOrder = map[RiskLevel]int{
	RiskSafe:       0,
	RiskUnknown:    1,
	RiskSuspicious: 2,
	RiskHighRisk:   3,
	RiskCritical:   4,
}

// Severity returns the ordinal rank of the risk level. Unrecognized
// levels rank as UNKNOWN.
func (r RiskLevel) Severity() int {
	if s, ok := riskOrder[r]; ok {
		return s
	}
	return riskOrder[RiskUnknown]
}

// MaxRisk returns the more severe of two risk levels.
func MaxRisk(a, b RiskLevel) RiskLevel {
	if b.Severity() > a.Severity() {
		return b
	}
	return a
}

// LinkRiskReport is the analysis result for a single URL.
type LinkRiskReport struct {
	URL             string    `json:"url"`
	Domain          string    `json:"domain"`
	ETLDPlusOne     string    `json:"etldPlusOne,omitempty"`
	RiskLevel       RiskLevel `json:"riskLevel"`
	Reasons         []string  `json:"reasons"`
	DomainAgeDays   *int      `json:"domainAgeDays,omitempty"`
	CreationDate    string    `json:"creationDate,omitempty"`
	ChecksPerformed []string  `json:"checksPerformed"`
}

// IsRisky reports whether the link should be counted as a phishing link.
func (r LinkRiskReport) IsRisky() bool {
	switch r.RiskLevel {
	case RiskCritical, RiskHighRisk, RiskSuspicious:
		return true
	}
	return false
}

// Message is a single turn of a honeypot conversation. Sender is either
// "scammer" or "user"; Timestamp is an ISO-8601 string as carried on the
// wire.
type Message struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// ExtractedIntel holds the entities pulled out of one message. All slices
// preserve first-occurrence order and are deduplicated.
type ExtractedIntel struct {
	BankAccounts       []string         `json:"bankAccounts"`
	UPIIDs             []string         `json:"upiIds"`
	PhishingLinks      []string         `json:"phishingLinks"`
	PhoneNumbers       []string         `json:"phoneNumbers"`
	SuspiciousKeywords []string         `json:"suspiciousKeywords"`
	Emails             []string         `json:"emails"`
	AllLinks           []string         `json:"allLinks"`
	LinkReports        []LinkRiskReport `json:"linkReports"`
}

// NewExtractedIntel returns an intel delta with empty non-nil slices so
// JSON renders arrays rather than nulls.
func NewExtractedIntel() ExtractedIntel {
	return ExtractedIntel{
		BankAccounts:       []string{},
		UPIIDs:             []string{},
		PhishingLinks:      []string{},
		PhoneNumbers:       []string{},
		SuspiciousKeywords: []string{},
		Emails:             []string{},
		AllLinks:           []string{},
		LinkReports:        []LinkRiskReport{},
	}
}
