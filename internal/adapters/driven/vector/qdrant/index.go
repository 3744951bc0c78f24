// Package qdrant provides a vector index backed by a Qdrant server,
// accessed over its REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/newsearch/internal/core/domain"
	"github.com/custodia-labs/newsearch/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

const (
	defaultCollection = "newsearch_chunks"
	defaultTimeout    = 15 * time.Second
)

// Config holds connection settings for a Qdrant server.
type Config struct {
	BaseURL    string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// Index is a Qdrant-backed implementation of driven.VectorIndex.
//
// Qdrant point IDs must be UUIDs or integers, so the UUID suffix of a
// composite vector ID becomes the point ID and the full composite ID is
// carried in the point payload.
type Index struct {
	baseURL    string
	apiKey     string
	collection string
	client     *http.Client
}

// NewIndex creates a Qdrant index client. It does not touch the server;
// call EnsureCollection before the first upsert.
func NewIndex(cfg Config) *Index {
	collection := cfg.Collection
	if collection == "" {
		collection = defaultCollection
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Index{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		collection: collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// EnsureCollection creates the collection with cosine distance if it does
// not exist. Qdrant returns 200 for an existing collection with the same
// schema and 409 when it already exists, both of which are fine.
func (ix *Index) EnsureCollection(ctx context.Context, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("qdrant: invalid dimensions %d", dimensions)
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimensions,
			"distance": "Cosine",
		},
	}
	err := ix.doJSON(ctx, http.MethodPut,
		fmt.Sprintf("%s/collections/%s", ix.baseURL, ix.collection), body, nil)
	if err != nil && !strings.Contains(err.Error(), "409") {
		return fmt.Errorf("%w: %w", domain.ErrVectorIndexUnavailable, err)
	}
	return nil
}

// Upsert writes all records in one call.
func (ix *Index) Upsert(ctx context.Context, records []driven.VectorUpsert) error {
	if len(records) == 0 {
		return nil
	}

	points := make([]map[string]any, len(records))
	for i, r := range records {
		points[i] = map[string]any{
			"id":     pointID(r.VectorID),
			"vector": r.Vector,
			"payload": map[string]any{
				"vector_id": r.VectorID,
			},
		}
	}

	body := map[string]any{"points": points}
	err := ix.doJSON(ctx, http.MethodPut,
		fmt.Sprintf("%s/collections/%s/points?wait=true", ix.baseURL, ix.collection), body, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrVectorIndexUnavailable, err)
	}
	return nil
}

// Query returns the k nearest points, ascending by cosine distance.
// Qdrant reports cosine similarity as the score, so distance is 1 - score.
func (ix *Index) Query(ctx context.Context, vector []float32, k int) ([]domain.SearchHit, error) {
	if k <= 0 {
		return nil, nil
	}

	body := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	err := ix.doJSON(ctx, http.MethodPost,
		fmt.Sprintf("%s/collections/%s/points/search", ix.baseURL, ix.collection), body, &resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrVectorIndexUnavailable, err)
	}

	hits := make([]domain.SearchHit, 0, len(resp.Result))
	for _, r := range resp.Result {
		id, ok := r.Payload["vector_id"].(string)
		if !ok {
			continue
		}
		hits = append(hits, domain.SearchHit{
			VectorID: id,
			Distance: 1 - r.Score,
		})
	}
	return hits, nil
}

// Close releases resources.
func (ix *Index) Close() error {
	ix.client.CloseIdleConnections()
	return nil
}

// pointID extracts the UUID suffix from a composite vector ID, falling
// back to the full string for IDs without a separator.
func pointID(vectorID string) string {
	if _, suffix, found := strings.Cut(vectorID, domain.VectorIDSeparator); found {
		return suffix
	}
	return vectorID
}

func (ix *Index) doJSON(ctx context.Context, method, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if ix.apiKey != "" {
		req.Header.Set("api-key", ix.apiKey)
	}

	resp, err := ix.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling qdrant: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s: %s", method, url, resp.Status)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
