package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"scamtrap-lab/pkg/logger"
)

// RDAPClient implements WhoisClient against an RDAP gateway. RDAP is the
// structured successor to WHOIS and answers over plain HTTPS.
type RDAPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// RDAPConfig holds configuration for the RDAP client
type RDAPConfig struct {
	BaseURL string
	Timeout time.Duration
}

// NewRDAPClient creates a new RDAP client
func NewRDAPClient(config RDAPConfig, log *logger.Logger) *RDAPClient {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://rdap.org"
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &RDAPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log.WithComponent("rdap-client"),
	}
}

type rdapDomainResponse struct {
	Events []struct {
		EventAction string `json:"eventAction"`
		EventDate   string `json:"eventDate"`
	} `json:"events"`
}

// DomainAge returns the days since registration of a domain. ok is false
// when the registry publishes no registration event.
func (c *RDAPClient) DomainAge(domain string) (int, string, bool, error) {
	resp, err := c.httpClient.Get(fmt.Sprintf("%s/domain/%s", c.baseURL, url.PathEscape(domain)))
	if err != nil {
		return 0, "", false, fmt.Errorf("rdap request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, "", false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return 0, "", false, fmt.Errorf("rdap returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, "", false, fmt.Errorf("failed to read rdap response: %w", err)
	}

	var data rdapDomainResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return 0, "", false, fmt.Errorf("failed to parse rdap response: %w", err)
	}

	for _, event := range data.Events {
		if event.EventAction != "registration" {
			continue
		}
		created, err := time.Parse(time.RFC3339, event.EventDate)
		if err != nil {
			continue
		}
		ageDays := int(time.Since(created).Hours() / 24)
		return ageDays, created.Format("2006-01-02"), true, nil
	}

	return 0, "", false, nil
}

// DomainAgeCache stores domain age lookups keyed by registrable domain.
type DomainAgeCache interface {
	GetCachedDomainAge(ctx context.Context, domain string, dest any) error
	CacheDomainAge(ctx context.Context, domain string, record any, ttl time.Duration) error
}

type domainAgeRecord struct {
	CreationDate string `json:"creationDate"`
	Found        bool   `json:"found"`
}

// CachedWhoisClient caches registry lookups so repeated analyses of the
// same registrable domain do not hit the registry each time. Only the
// creation date is stored; the age in days is recomputed on each hit.
type CachedWhoisClient struct {
	upstream WhoisClient
	cache    DomainAgeCache
	ttl      time.Duration
	logger   *logger.Logger
}

// NewCachedWhoisClient wraps a WhoisClient with a cache
func NewCachedWhoisClient(upstream WhoisClient, cache DomainAgeCache, ttl time.Duration, log *logger.Logger) *CachedWhoisClient {
	if ttl == 0 {
		ttl = time.Hour
	}
	return &CachedWhoisClient{
		upstream: upstream,
		cache:    cache,
		ttl:      ttl,
		logger:   log.WithComponent("whois-cache"),
	}
}

// DomainAge implements WhoisClient, consulting the cache first. Lookup
// errors are returned without being cached.
func (c *CachedWhoisClient) DomainAge(domain string) (int, string, bool, error) {
	ctx := context.Background()

	var rec domainAgeRecord
	if err := c.cache.GetCachedDomainAge(ctx, domain, &rec); err == nil {
		if !rec.Found {
			return 0, "", false, nil
		}
		if created, err := time.Parse("2006-01-02", rec.CreationDate); err == nil {
			return int(time.Since(created).Hours() / 24), rec.CreationDate, true, nil
		}
	}

	age, created, ok, err := c.upstream.DomainAge(domain)
	if err != nil {
		return 0, "", false, err
	}
	rec = domainAgeRecord{CreationDate: created, Found: ok}
	if cacheErr := c.cache.CacheDomainAge(ctx, domain, rec, c.ttl); cacheErr != nil {
		c.logger.Warn().Err(cacheErr).Str("domain", domain).Msg("failed to cache domain age")
	}
	return age, created, ok, nil
}

// DDGSearcher implements ReputationSearcher against the DuckDuckGo HTML
// endpoint. It counts result snippets mentioning scam vocabulary.
type DDGSearcher struct {
	baseURL    string
	maxResults int
	httpClient *http.Client
	logger     *logger.Logger
}

// DDGConfig holds configuration for the reputation searcher
type DDGConfig struct {
	BaseURL    string
	MaxResults int
	Timeout    time.Duration
}

var scamReportKeywords = []string{
	"scam", "fraud", "fake", "phishing", "malware", "spam",
	"dangerous", "warning", "avoid", "beware", "alert",
	"cybercrime", "hacked", "stolen",
}

// NewDDGSearcher creates a new reputation searcher
func NewDDGSearcher(config DDGConfig, log *logger.Logger) *DDGSearcher {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://html.duckduckgo.com/html"
	}
	maxResults := config.MaxResults
	if maxResults == 0 {
		maxResults = 5
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &DDGSearcher{
		baseURL:    baseURL,
		maxResults: maxResults,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log.WithComponent("ddg-searcher"),
	}
}

// ScamMentions searches for scam reports about a domain and returns how
// many of the top results mention scam vocabulary.
func (s *DDGSearcher) ScamMentions(domain string) (int, error) {
	query := fmt.Sprintf(`"%s" scam OR fraud OR phishing`, domain)

	req, err := http.NewRequest(http.MethodGet, s.baseURL+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; scamtrap-lab/1.0)")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return 0, fmt.Errorf("failed to read search response: %w", err)
	}

	snippets := extractResultSnippets(string(body), s.maxResults)
	mentions := 0
	for _, snippet := range snippets {
		lower := strings.ToLower(snippet)
		for _, kw := range scamReportKeywords {
			if strings.Contains(lower, kw) {
				mentions++
				break
			}
		}
	}
	return mentions, nil
}

// extractResultSnippets pulls the text of result blocks out of the DDG
// HTML page. The markup is stable enough for a substring scan.
func extractResultSnippets(page string, max int) []string {
	var snippets []string
	marker := `class="result__snippet"`
	for len(snippets) < max {
		idx := strings.Index(page, marker)
		if idx < 0 {
			break
		}
		page = page[idx:]
		start := strings.Index(page, ">")
		if start < 0 {
			break
		}
		end := strings.Index(page[start:], "</a>")
		if end < 0 {
			end = strings.Index(page[start:], "</div>")
		}
		if end < 0 {
			break
		}
		snippet := stripTags(page[start+1 : start+end])
		if snippet != "" {
			snippets = append(snippets, snippet)
		}
		page = page[start+end:]
	}
	return snippets
}

func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
