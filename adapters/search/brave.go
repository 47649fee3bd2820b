// Package search adapts the Brave web-search API to the fact-check port.
// When no API key is configured, or the live call fails, the client degrades
// to deterministic sample results so the pipeline keeps moving.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hoaxlens/internal"
	"hoaxlens/models"
	"hoaxlens/ports"
)

const defaultBaseURL = "https://api.search.brave.com/res/v1/web/search"

// Config holds the Brave Search connection settings.
type Config struct {
	APIKey     string
	BaseURL    string
	UseRealAPI bool
	Timeout    time.Duration
}

// BraveClient implements ports.SearchPort.
type BraveClient struct {
	apiKey     string
	baseURL    string
	useRealAPI bool
	httpClient *http.Client
	logger     *internal.Logger
}

func NewBraveClient(config Config) *BraveClient {
	baseURL := strings.TrimSpace(config.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &BraveClient{
		apiKey:     config.APIKey,
		baseURL:    baseURL,
		useRealAPI: config.UseRealAPI && config.APIKey != "",
		httpClient: &http.Client{Timeout: timeout},
		logger:     internal.NewDefaultLogger("search"),
	}
}

var _ ports.SearchPort = (*BraveClient)(nil)

// Search runs the fact-check query. Live-API failures fall back to sample
// results; only context cancellation propagates as an error.
func (c *BraveClient) Search(ctx context.Context, query string) (*models.FactCheckResults, error) {
	if c.useRealAPI {
		results, err := c.realSearch(ctx, query)
		if err == nil {
			return results, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("brave search failed, serving sample results: %v", err)
	}
	return c.sampleSearch(query), nil
}

func (c *BraveClient) realSearch(ctx context.Context, query string) (*models.FactCheckResults, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", "10")
	params.Set("offset", "0")
	params.Set("safesearch", "moderate")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Subscription-Token", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("brave request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("brave http %d: %s", resp.StatusCode, string(raw))
	}

	var decoded struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	results := make([]models.SearchResult, 0, len(decoded.Web.Results))
	for _, r := range decoded.Web.Results {
		result := models.SearchResult{
			Title:       r.Title,
			URL:         r.URL,
			Description: r.Description,
			Source:      extractDomain(r.URL),
			Relevance:   relevanceScore(r.Title, r.Description, query),
		}
		result.Stance = classifyStance(result)
		results = append(results, result)
	}
	return assembleResults(query, results), nil
}

// assembleResults rates each source and groups results by stance into the
// fact-check shape.
func assembleResults(query string, results []models.SearchResult) *models.FactCheckResults {
	for i := range results {
		results[i].Credibility = SourceCredibility(results[i].Source)
	}
	out := &models.FactCheckResults{
		Query:        query,
		TotalResults: len(results),
		Results:      results,
	}
	for _, r := range results {
		switch r.Stance {
		case models.StanceSupporting:
			out.Supporting = append(out.Supporting, r)
		case models.StanceContradicting:
			out.Contradicting = append(out.Contradicting, r)
		default:
			out.Neutral = append(out.Neutral, r)
		}
	}
	return out
}

// relevanceScore counts query-word hits in title and description.
func relevanceScore(title, description, query string) float64 {
	title = strings.ToLower(title)
	description = strings.ToLower(description)

	relevance := 0.0
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if strings.Contains(title, word) {
			relevance += 0.4
		}
		if strings.Contains(description, word) {
			relevance += 0.2
		}
	}
	if relevance > 1 {
		relevance = 1
	}
	return models.Round3(relevance)
}

// Markers used to infer stance from live result text.
var (
	contradictingMarkers = []string{"hoax", "bantah", "dibantah", "tidak benar", "fakta atau", "klarifikasi", "debunk", "false claim", "misleading"}
	supportingMarkers    = []string{"terbukti", "dikonfirmasi", "confirmed", "resmi mengumumkan", "penelitian menunjukkan", "studi"}
)

func classifyStance(result models.SearchResult) string {
	text := strings.ToLower(result.Title + " " + result.Description)
	for _, marker := range contradictingMarkers {
		if strings.Contains(text, marker) {
			return models.StanceContradicting
		}
	}
	for _, marker := range supportingMarkers {
		if strings.Contains(text, marker) {
			return models.StanceSupporting
		}
	}
	return models.StanceNeutral
}

func extractDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	return parsed.Host
}

// Source credibility tiers keyed by domain. Unlisted domains fall back to
// suffix rules.
var trustedSources = map[string]string{
	"kemkes.go.id":   "high",
	"bmkg.go.id":     "high",
	"who.int":        "high",
	"kompas.com":     "high",
	"detik.com":      "high",
	"cnn.com":        "high",
	"bbc.com":        "high",
	"reuters.com":    "high",
	"liputan6.com":   "medium",
	"okezone.com":    "medium",
	"tribunnews.com": "medium",
}

var suspiciousSources = map[string]string{
	"blog.com":      "low",
	"wordpress.com": "low",
	"blogspot.com":  "low",
}

// SourceCredibility rates a domain as high, medium, or low.
func SourceCredibility(domain string) string {
	if tier, ok := trustedSources[domain]; ok {
		return tier
	}
	if tier, ok := suspiciousSources[domain]; ok {
		return tier
	}
	switch {
	case strings.HasSuffix(domain, ".go.id"), strings.HasSuffix(domain, ".edu"):
		return "high"
	case strings.HasSuffix(domain, ".org"):
		return "medium"
	default:
		return "medium"
	}
}
