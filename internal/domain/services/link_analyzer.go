package services

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"

	"scamtrap-lab/internal/domain/models"
	"scamtrap-lab/pkg/logger"
)

// WhoisClient resolves the registration age of a domain. Implementations
// return ok=false when the registry has no answer; errors are reserved for
// transport failures.
type WhoisClient interface {
	DomainAge(domain string) (ageDays int, creationDate string, ok bool, err error)
}

// ReputationSearcher counts independent web sources reporting a domain as
// a scam.
type ReputationSearcher interface {
	ScamMentions(domain string) (int, error)
}

// LinkAnalyzer scores URLs for phishing indicators. Checks run in a fixed
// order; institutional rule violations and subdomain masking dominate
// everything else.
type LinkAnalyzer struct {
	whois      WhoisClient
	reputation ReputationSearcher
	logger     *logger.Logger
	ipv4       *regexp.Regexp
}

var bankKeywords = []string{
	"hdfc", "sbi", "icici", "axis", "kotak", "pnb", "bob", "canara",
	"union", "idbi", "yes", "indusind", "federal", "rbl", "bandhan",
	"bank", "banking", "netbanking", "account",
}

var govtKeywords = []string{
	"fine", "fines", "tax", "taxes", "challan", "echallan", "legal",
	"notice", "court", "police", "rbi", "sebi", "customs", "income",
	"government", "ministry", "aadhaar", "pan", "gst",
}

// legacyBankDomains are pre-.bank.in bank domains still in legitimate use.
var legacyBankDomains = map[string]bool{
	"hdfcbank.com": true,
	"icicibank.com": true,
	"axisbank.com": true,
	"kotak.com":    true,
	"onlinesbi.sbi": true,
}

var highRiskTLDs = map[string]bool{
	"xyz": true, "vip": true, "top": true, "buzz": true, "live": true,
	"icu": true, "tk": true, "ml": true, "cf": true, "ga": true, "gq": true,
	"click": true, "link": true, "work": true, "site": true, "website": true,
	"online": true, "club": true, "zip": true, "mov": true,
}

var conditionalRiskTLDs = map[string]bool{
	"support": true, "help": true, "info": true,
}

var urgencyContextKeywords = []string{
	"blocked", "suspended", "immediate", "immediately", "urgent", "urgently",
	"expire", "expired", "verify", "verification", "action", "required",
	"warning", "alert", "attention",
}

var knownBrands = []string{
	"sbi", "hdfc", "icici", "axis", "kotak", "pnb", "canara", "bob",
	"paytm", "phonepe", "gpay", "amazon", "flipkart", "google",
	"facebook", "whatsapp", "instagram", "microsoft", "apple",
}

var trustedDomains = map[string]bool{
	"google.com": true, "facebook.com": true, "amazon.com": true,
	"microsoft.com": true, "apple.com": true, "github.com": true,
	"youtube.com": true, "twitter.com": true, "linkedin.com": true,
	"instagram.com": true, "whatsapp.com": true,
	"sbi.bank.in": true, "hdfc.bank.in": true, "icici.bank.in": true,
	"axis.bank.in": true, "kotak.bank.in": true, "pnb.bank.in": true,
	"onlinesbi.sbi": true, "hdfcbank.com": true, "icicibank.com": true,
	"axisbank.com": true, "kotak.com": true, "pnb.com": true,
	"paytm.com": true, "phonepe.com": true, "npci.org.in": true,
	"gov.in": true, "nic.in": true, "incometax.gov.in": true,
	"parivahan.gov.in": true, "echallan.parivahan.gov.in": true,
}

// subdomainMaskPatterns are trusted-looking fragments that scammers embed
// in subdomains, e.g. sbi.bank.in.verify-kyc.com.
var subdomainMaskPatterns = []string{
	".bank.in", ".gov.in", "sbi", "hdfc", "icici", "axis", "paytm", "phonepe",
}

// NewLinkAnalyzer creates an analyzer. whois and reputation may be nil to
// disable the corresponding lookups.
func NewLinkAnalyzer(whois WhoisClient, reputation ReputationSearcher, log *logger.Logger) *LinkAnalyzer {
	return &LinkAnalyzer{
		whois:      whois,
		reputation: reputation,
		logger:     log.WithComponent("link-analyzer"),
		ipv4:       regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`),
	}
}

// Analyze scores a single URL. messageContext is the full message the URL
// appeared in; institutional rules and conditional TLD scoring read it.
func (la *LinkAnalyzer) Analyze(rawURL, messageContext string) models.LinkRiskReport {
	reasons := []string{}
	checks := []string{}
	risk := models.RiskSafe

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return models.LinkRiskReport{
			URL:             rawURL,
			RiskLevel:       models.RiskUnknown,
			Reasons:         []string{"Could not parse URL"},
			Domain:          "",
			ChecksPerformed: []string{"URL parsing"},
		}
	}
	fullDomain := strings.ToLower(parsed.Hostname())
	fullDomain = strings.TrimPrefix(fullDomain, "www.")

	etldPlusOne := extractETLDPlusOne(fullDomain)
	checks = append(checks, "eTLD+1 extraction")

	if trustedDomains[etldPlusOne] || trustedDomains[fullDomain] {
		return models.LinkRiskReport{
			URL:             rawURL,
			RiskLevel:       models.RiskSafe,
			Reasons:         []string{"Known trusted domain"},
			Domain:          fullDomain,
			ETLDPlusOne:     etldPlusOne,
			ChecksPerformed: []string{"Trusted domain whitelist"},
		}
	}

	checks = append(checks, "Institutional rules")
	if instRisk, instReason := checkInstitutionalRules(etldPlusOne, messageContext); instReason != "" {
		reasons = append(reasons, instReason)
		risk = models.MaxRisk(risk, instRisk)
	}

	checks = append(checks, "Subdomain masking")
	if maskRisk, maskReason := checkSubdomainMasking(fullDomain, etldPlusOne); maskReason != "" {
		reasons = append(reasons, maskReason)
		risk = models.MaxRisk(risk, maskRisk)
	}

	checks = append(checks, "Typosquatting detection")
	if typoRisk, typoReason := checkTyposquatting(fullDomain); typoReason != "" {
		reasons = append(reasons, typoReason)
		risk = models.MaxRisk(risk, typoRisk)
	}

	checks = append(checks, "IP address check")
	if la.isIPAddress(fullDomain) {
		reasons = append(reasons, "URL uses IP address instead of domain name")
		risk = models.MaxRisk(risk, models.RiskHighRisk)
	}

	checks = append(checks, "TLD risk analysis")
	tld := ""
	if idx := strings.LastIndex(fullDomain, "."); idx >= 0 {
		tld = fullDomain[idx+1:]
	}
	if highRiskTLDs[tld] {
		reasons = append(reasons, fmt.Sprintf("High-risk TLD: .%s", tld))
		risk = models.MaxRisk(risk, models.RiskHighRisk)
	} else if conditionalRiskTLDs[tld] {
		if containsAny(strings.ToLower(messageContext), urgencyContextKeywords) {
			reasons = append(reasons, fmt.Sprintf("Suspicious TLD .%s with urgency context", tld))
			risk = models.MaxRisk(risk, models.RiskSuspicious)
		}
	}

	checks = append(checks, "Subdomain depth")
	if strings.Count(fullDomain, ".") > 3 {
		reasons = append(reasons, "Unusually deep subdomain structure")
		risk = models.MaxRisk(risk, models.RiskSuspicious)
	}

	var domainAge *int
	creationDate := ""
	if la.whois != nil {
		checks = append(checks, "WHOIS domain age")
		if age, created, ok, err := la.whois.DomainAge(etldPlusOne); err != nil {
			la.logger.Warn().Err(err).Str("domain", etldPlusOne).Msg("WHOIS lookup failed")
		} else if ok {
			domainAge = &age
			creationDate = created
			if age < 30 {
				reasons = append(reasons, fmt.Sprintf("Domain created only %d days ago (registered: %s)", age, created))
				risk = models.MaxRisk(risk, models.RiskHighRisk)
			} else if age < 90 {
				reasons = append(reasons, fmt.Sprintf("Domain is relatively new (%d days old, registered: %s)", age, created))
				risk = models.MaxRisk(risk, models.RiskSuspicious)
			}
		}
	}

	if la.reputation != nil && risk != models.RiskCritical && risk != models.RiskHighRisk {
		checks = append(checks, "Web reputation search")
		if mentions, err := la.reputation.ScamMentions(etldPlusOne); err != nil {
			la.logger.Warn().Err(err).Str("domain", etldPlusOne).Msg("Web reputation search failed")
		} else if mentions >= 2 {
			reasons = append(reasons, fmt.Sprintf("Multiple scam reports found online (%d sources)", mentions))
			risk = models.MaxRisk(risk, models.RiskHighRisk)
		} else if mentions == 1 {
			reasons = append(reasons, "Some negative reports found online")
			risk = models.MaxRisk(risk, models.RiskSuspicious)
		}
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "No obvious indicators found")
	}

	return models.LinkRiskReport{
		URL:             rawURL,
		RiskLevel:       risk,
		Reasons:         reasons,
		Domain:          fullDomain,
		ETLDPlusOne:     etldPlusOne,
		DomainAgeDays:   domainAge,
		CreationDate:    creationDate,
		ChecksPerformed: checks,
	}
}

// extractETLDPlusOne resolves the registrable domain via the public suffix
// list, falling back to a multi-label suffix heuristic for hosts the list
// rejects.
func extractETLDPlusOne(domain string) string {
	if etld, err := publicsuffix.EffectiveTLDPlusOne(domain); err == nil {
		return etld
	}
	parts := strings.Split(domain, ".")
	if len(parts) >= 2 {
		switch {
		case len(parts) >= 3 && isSecondLevelSuffix(parts[len(parts)-2]):
			return strings.Join(parts[len(parts)-3:], ".")
		default:
			return strings.Join(parts[len(parts)-2:], ".")
		}
	}
	return domain
}

func isSecondLevelSuffix(label string) bool {
	switch label {
	case "co", "com", "org", "net", "gov", "ac", "bank":
		return true
	}
	return false
}

// checkInstitutionalRules enforces .bank.in for banking context and
// .gov.in for government or legal context.
func checkInstitutionalRules(etldPlusOne, message string) (models.RiskLevel, string) {
	messageLower := strings.ToLower(message)

	if containsAny(messageLower, bankKeywords) {
		if !strings.HasSuffix(etldPlusOne, ".bank.in") && !legacyBankDomains[etldPlusOne] {
			return models.RiskCritical,
				fmt.Sprintf("Bank context but URL is not .bank.in (domain: %s)", etldPlusOne)
		}
	}

	if containsAny(messageLower, govtKeywords) {
		if !strings.HasSuffix(etldPlusOne, ".gov.in") {
			return models.RiskCritical,
				fmt.Sprintf("Government/legal context but URL is not .gov.in (domain: %s)", etldPlusOne)
		}
	}

	return models.RiskSafe, ""
}

// checkSubdomainMasking catches hosts like sbi.bank.in.verify-kyc.com
// where the registrable domain is attacker-controlled and the trusted name
// lives in the subdomain.
func checkSubdomainMasking(fullDomain, etldPlusOne string) (models.RiskLevel, string) {
	if etldPlusOne == "" || fullDomain == etldPlusOne {
		return models.RiskSafe, ""
	}
	subdomain := strings.TrimRight(strings.ReplaceAll(fullDomain, etldPlusOne, ""), ".")
	for _, pattern := range subdomainMaskPatterns {
		if strings.Contains(subdomain, pattern) {
			return models.RiskCritical,
				fmt.Sprintf("Subdomain masking: '%s' in subdomain but real domain is '%s'", pattern, etldPlusOne)
		}
	}
	return models.RiskSafe, ""
}

// checkTyposquatting flags hyphenated brand names and near-miss spellings
// of known brands. An exact brand label never counts.
func checkTyposquatting(domain string) (models.RiskLevel, string) {
	domainLower := strings.ToLower(domain)
	for _, brand := range knownBrands {
		if strings.Contains(domainLower, brand+"-") {
			return models.RiskHighRisk,
				fmt.Sprintf("Hyphenated brand name: '%s-' in domain", brand)
		}
	}

	parts := strings.Split(strings.ReplaceAll(domainLower, "-", "."), ".")
	for _, part := range parts {
		if len(part) < 3 {
			continue
		}
		for _, brand := range knownBrands {
			if part == brand {
				continue
			}
			ratio := sequenceRatio(part, brand)
			if ratio > 0.7 && ratio < 1.0 {
				return models.RiskHighRisk,
					fmt.Sprintf("Possible typosquatting: '%s' similar to '%s' (%d%% match)", part, brand, int(ratio*100))
			}
		}
	}
	return models.RiskSafe, ""
}

func (la *LinkAnalyzer) isIPAddress(domain string) bool {
	if la.ipv4.MatchString(domain) {
		return true
	}
	return strings.Contains(domain, ":")
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
