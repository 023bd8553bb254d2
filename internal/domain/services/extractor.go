package services

import (
	"regexp"
	"strings"

	"scamtrap-lab/internal/domain/models"
	"scamtrap-lab/pkg/logger"
)

// IntelExtractor pulls financial identifiers, contact details, links, and
// pressure keywords out of scammer messages using regex patterns tuned for
// Indian payment fraud.
type IntelExtractor struct {
	urlPattern     *regexp.Regexp
	upiPattern     *regexp.Regexp
	phonePattern   *regexp.Regexp
	accountPattern *regexp.Regexp
	emailPattern   *regexp.Regexp
	keywordPattern *regexp.Regexp
	analyzer       *LinkAnalyzer
	logger         *logger.Logger
}

// emailProviders are mail hosts whose handles collide with the UPI VPA
// syntax and must not be reported as UPI IDs.
var emailProviders = map[string]bool{
	"gmail":   true,
	"yahoo":   true,
	"hotmail": true,
	"outlook": true,
	"mail":    true,
	"email":   true,
}

// accountContextKeywords gate the bare digit-run pattern: a 9-18 digit
// number only counts as a bank account when the message also talks about
// accounts or transfers.
var accountContextKeywords = []string{
	"account", "a/c", "acc", "transfer", "neft", "imps", "rtgs",
}

var suspiciousKeywords = []string{
	"urgent", "immediately", "now", "today", "asap", "hurry",
	"blocked", "suspended", "closed", "deactivated", "frozen", "terminate",
	"legal action", "police", "arrest",
	"verify", "confirm", "update", "click", "link",
	"share", "send", "transfer", "pay",
	"bank", "rbi", "government", "income tax", "customs",
	"sbi", "hdfc", "icici", "axis",
	"refund", "cashback", "lottery", "prize", "winner",
	"credit", "loan", "emi",
	"otp", "pin", "password", "cvv", "card number",
}

// NewIntelExtractor creates an extractor wired to the given link analyzer.
func NewIntelExtractor(analyzer *LinkAnalyzer, log *logger.Logger) *IntelExtractor {
	alternation := make([]string, len(suspiciousKeywords))
	for i, kw := range suspiciousKeywords {
		alternation[i] = regexp.QuoteMeta(kw)
	}

	return &IntelExtractor{
		urlPattern:     regexp.MustCompile(`(?i)https?://[^\s<>"')\]]+`),
		upiPattern:     regexp.MustCompile(`\b[a-zA-Z0-9._-]{2,256}@[a-zA-Z]{2,64}\b`),
		phonePattern:   regexp.MustCompile(`(?:\+91[-\s]?|0)?[6-9]\d{9}\b`),
		accountPattern: regexp.MustCompile(`\b\d{9,18}\b`),
		emailPattern:   regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		keywordPattern: regexp.MustCompile(`(?i)\b(` + strings.Join(alternation, "|") + `)\b`),
		analyzer:       analyzer,
		logger:         log.WithComponent("intel-extractor"),
	}
}

// Extract analyzes one message and returns its intelligence delta. Every
// slice preserves first-occurrence order with duplicates removed.
func (ie *IntelExtractor) Extract(text string) models.ExtractedIntel {
	intel := models.NewExtractedIntel()
	if text == "" {
		return intel
	}

	intel.AllLinks = ie.ExtractURLs(text)
	intel.Emails = ie.ExtractEmails(text)
	intel.UPIIDs = ie.ExtractUPIIDs(text)
	intel.PhoneNumbers = ie.ExtractPhoneNumbers(text)
	intel.BankAccounts = ie.ExtractBankAccounts(text, intel.PhoneNumbers)
	intel.SuspiciousKeywords = ie.ExtractKeywords(text)

	for _, link := range intel.AllLinks {
		report := ie.analyzer.Analyze(link, text)
		intel.LinkReports = append(intel.LinkReports, report)
		if report.IsRisky() {
			intel.PhishingLinks = append(intel.PhishingLinks, link)
		}
	}

	if len(intel.UPIIDs) > 0 || len(intel.BankAccounts) > 0 || len(intel.PhishingLinks) > 0 {
		ie.logger.Info().
			Int("upi_ids", len(intel.UPIIDs)).
			Int("bank_accounts", len(intel.BankAccounts)).
			Int("phishing_links", len(intel.PhishingLinks)).
			Msg("Actionable intelligence extracted")
	}

	return intel
}

// ExtractURLs finds http/https links and strips trailing punctuation that
// regex matching drags in from surrounding prose.
func (ie *IntelExtractor) ExtractURLs(text string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, m := range ie.urlPattern.FindAllString(text, -1) {
		url := strings.TrimRight(m, ".,:;!?")
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		out = append(out, url)
	}
	return out
}

// ExtractUPIIDs finds UPI virtual payment addresses. Handles at common
// email providers are excluded since the syntax overlaps.
func (ie *IntelExtractor) ExtractUPIIDs(text string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, m := range ie.upiPattern.FindAllString(text, -1) {
		at := strings.LastIndex(m, "@")
		handle := strings.ToLower(m[at+1:])
		if emailProviders[handle] {
			continue
		}
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// ExtractPhoneNumbers finds Indian mobile numbers and normalizes them to
// +91 form.
func (ie *IntelExtractor) ExtractPhoneNumbers(text string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, m := range ie.phonePattern.FindAllString(text, -1) {
		normalized := normalizePhone(m)
		if seen[normalized] {
			continue
		}
		seen[normalized] = true
		out = append(out, normalized)
	}
	return out
}

func normalizePhone(raw string) string {
	cleaned := strings.NewReplacer("-", "", " ", "").Replace(raw)
	switch {
	case strings.HasPrefix(cleaned, "+91"):
		return cleaned
	case strings.HasPrefix(cleaned, "0"):
		return "+91" + cleaned[1:]
	default:
		return "+91" + cleaned
	}
}

// ExtractBankAccounts finds candidate account numbers. The digit-run
// pattern is gated on transfer vocabulary in the message, and matches that
// are really one of the already-extracted phone numbers are dropped.
func (ie *IntelExtractor) ExtractBankAccounts(text string, phones []string) []string {
	lower := strings.ToLower(text)
	hasContext := false
	for _, kw := range accountContextKeywords {
		if strings.Contains(lower, kw) {
			hasContext = true
			break
		}
	}
	if !hasContext {
		return []string{}
	}

	phoneDigits := map[string]bool{}
	for _, p := range phones {
		phoneDigits[strings.TrimPrefix(p, "+91")] = true
	}

	out := []string{}
	seen := map[string]bool{}
	for _, m := range ie.accountPattern.FindAllString(text, -1) {
		if phoneDigits[m] || (len(m) > 1 && phoneDigits[m[1:]]) {
			continue
		}
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// ExtractEmails finds email addresses.
func (ie *IntelExtractor) ExtractEmails(text string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, m := range ie.emailPattern.FindAllString(text, -1) {
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// ExtractKeywords finds pressure and fraud vocabulary, lowercased and
// deduplicated in order of first appearance.
func (ie *IntelExtractor) ExtractKeywords(text string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, m := range ie.keywordPattern.FindAllString(text, -1) {
		kw := strings.ToLower(m)
		if seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
	}
	return out
}
