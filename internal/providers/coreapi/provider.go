// Package coreapi provides an article provider backed by the CORE academic
// paper API (api.core.ac.uk).
package coreapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/newsearch/internal/core/domain"
	"github.com/custodia-labs/newsearch/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.ArticleProvider = (*Provider)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.core.ac.uk/v3"
	DefaultLimit   = 10
	DefaultTimeout = 60 * time.Second

	// CORE rate-limits registered keys to 10 requests per minute.
	requestsPerSecond = 10.0 / 60.0
)

// Config holds configuration for the CORE provider.
type Config struct {
	// APIKey is the CORE API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.core.ac.uk/v3).
	BaseURL string

	// Limit is the maximum number of works per fetch (default: 10).
	Limit int

	// Timeout is the request timeout (default: 60s, full texts are large).
	Timeout time.Duration
}

// Provider fetches academic works with full text from the CORE search API.
type Provider struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
	limit   int
}

// searchResponse is the CORE works search response format.
type searchResponse struct {
	Results []struct {
		Title         string `json:"title"`
		URL           string `json:"url"`
		DownloadURL   string `json:"downloadUrl"`
		FullText      string `json:"fullText"`
		Abstract      string `json:"abstract"`
		PublishedDate string `json:"publishedDate"`
	} `json:"results"`
}

// New creates a new CORE provider.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("coreapi: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Provider{
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		limit:   cfg.Limit,
	}, nil
}

// Key returns the registry key for this provider.
func (p *Provider) Key() string {
	return "coreapi"
}

// Fetch returns works whose title matches the query and that carry full
// text. Entries without a title or download URL are skipped.
func (p *Provider) Fetch(ctx context.Context, query string) ([]domain.RawArticle, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("q", fmt.Sprintf(`(title:%q) AND _exists_:fullText`, query))
	params.Set("limit", fmt.Sprintf("%d", p.limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.baseURL+"/search/works?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("coreapi error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	articles := make([]domain.RawArticle, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if r.Title == "" || r.DownloadURL == "" {
			continue
		}
		articles = append(articles, domain.RawArticle{
			Title:       r.Title,
			URL:         r.URL,
			Content:     r.FullText,
			Preview:     r.Abstract,
			SourceName:  p.Key(),
			PublishedAt: parseTime(r.PublishedDate),
		})
	}
	return articles, nil
}

// parseTime accepts the date formats CORE uses across records.
func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
