// Package semantic provides an embedding-driven chunking strategy. It splits
// text into sentences, embeds each sentence, and starts a new chunk wherever
// the cosine distance between adjacent sentences exceeds a percentile
// threshold of all adjacent distances.
package semantic

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/custodia-labs/newsearch/internal/core/ports/driven"
)

// Ensure Chunker implements the interface.
var _ driven.ChunkingStrategy = (*Chunker)(nil)

// DefaultPercentile is the breakpoint percentile for adjacent-sentence
// distances. Higher values produce fewer, larger chunks.
const DefaultPercentile = 95.0

var sentenceEnd = regexp.MustCompile(`([.!?])\s+`)

// Chunker groups sentences into chunks at semantic breakpoints.
type Chunker struct {
	embedder   driven.EmbeddingService
	percentile float64
}

// Option configures the chunker.
type Option func(*Chunker)

// WithPercentile sets the breakpoint percentile (0 < p <= 100).
func WithPercentile(p float64) Option {
	return func(c *Chunker) {
		if p > 0 && p <= 100 {
			c.percentile = p
		}
	}
}

// New creates a new semantic chunker backed by the given embedding service.
func New(embedder driven.EmbeddingService, opts ...Option) *Chunker {
	c := &Chunker{
		embedder:   embedder,
		percentile: DefaultPercentile,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the strategy name.
func (c *Chunker) Name() string {
	return "semantic"
}

// Chunk splits text at semantic breakpoints. Texts with fewer than three
// sentences come back as a single chunk without calling the embedder.
func (c *Chunker) Chunk(ctx context.Context, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	sentences := splitSentences(text)
	if len(sentences) < 3 {
		return []string{text}, nil
	}

	vectors, err := c.embedder.EmbedBatch(ctx, sentences)
	if err != nil {
		return nil, fmt.Errorf("embedding sentences: %w", err)
	}
	if len(vectors) != len(sentences) {
		return nil, fmt.Errorf("embedding count mismatch: %d sentences, %d vectors",
			len(sentences), len(vectors))
	}

	distances := make([]float64, len(sentences)-1)
	for i := range distances {
		distances[i] = cosineDistance(vectors[i], vectors[i+1])
	}
	threshold := percentileOf(distances, c.percentile)

	chunks := make([]string, 0, len(sentences)/2)
	current := []string{sentences[0]}
	for i, d := range distances {
		if d > threshold {
			chunks = append(chunks, strings.Join(current, " "))
			current = current[:0]
		}
		current = append(current, sentences[i+1])
	}
	chunks = append(chunks, strings.Join(current, " "))

	return chunks, nil
}

// splitSentences breaks text on sentence-ending punctuation followed by
// whitespace, keeping the punctuation with the preceding sentence.
func splitSentences(text string) []string {
	marked := sentenceEnd.ReplaceAllString(text, "$1\x00")
	parts := strings.Split(marked, "\x00")

	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// percentileOf returns the p-th percentile of values using nearest-rank.
func percentileOf(values []float64, p float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	rank := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return sorted[rank]
}

func cosineDistance(a, b []float32) float64 {
	var dot, magA, magB float64
	for i := range a {
		if i >= len(b) {
			break
		}
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(magA)*math.Sqrt(magB))
}
