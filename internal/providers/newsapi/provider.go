// Package newsapi provides an article provider backed by newsapi.org.
package newsapi

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
	DefaultBaseURL  = "https://newsapi.org/v2"
	DefaultPageSize = 20
	DefaultTimeout  = 30 * time.Second

	// Free-tier accounts allow 100 requests per day; half a request per
	// second keeps bursts of ingestion calls well under the limit.
	requestsPerSecond = 0.5
)

// Config holds configuration for the NewsAPI provider.
type Config struct {
	// APIKey is the newsapi.org API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://newsapi.org/v2).
	BaseURL string

	// PageSize is the number of articles per fetch (default: 20, max 100).
	PageSize int

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Provider fetches articles from the newsapi.org everything endpoint.
type Provider struct {
	client   *http.Client
	limiter  *rate.Limiter
	baseURL  string
	apiKey   string
	pageSize int
}

// everythingResponse is the newsapi.org response format.
type everythingResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Content     string `json:"content"`
		Description string `json:"description"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// New creates a new NewsAPI provider.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("newsapi: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PageSize <= 0 || cfg.PageSize > 100 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Provider{
		client:   &http.Client{Timeout: cfg.Timeout},
		limiter:  rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		pageSize: cfg.PageSize,
	}, nil
}

// Key returns the registry key for this provider.
func (p *Provider) Key() string {
	return "newsapi"
}

// Fetch returns English-language articles matching the query, sorted by
// popularity. Entries without a title or URL are skipped.
func (p *Provider) Fetch(ctx context.Context, query string) ([]domain.RawArticle, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("language", "en")
	params.Set("sortBy", "popularity")
	params.Set("pageSize", fmt.Sprintf("%d", p.pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.baseURL+"/everything?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Api-Key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed everythingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if parsed.Status != "ok" {
		return nil, fmt.Errorf("newsapi error (%s): %s", parsed.Code, parsed.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi error (status %d): %s", resp.StatusCode, string(body))
	}

	articles := make([]domain.RawArticle, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		if a.Title == "" || a.URL == "" {
			continue
		}
		articles = append(articles, domain.RawArticle{
			Title:       a.Title,
			URL:         a.URL,
			Content:     a.Content,
			Preview:     a.Description,
			SourceName:  p.Key(),
			PublishedAt: parseTime(a.PublishedAt),
		})
	}
	return articles, nil
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
