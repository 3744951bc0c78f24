// Package fixed provides a fixed-size text chunking strategy.
package fixed

import (
	"context"
	"strings"

	"github.com/custodia-labs/newsearch/internal/core/ports/driven"
)

// Ensure Chunker implements the interface.
var _ driven.ChunkingStrategy = (*Chunker)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Chunker splits article content into fixed-size character windows with
// overlap between consecutive windows.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a new fixed-size chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// Name returns the strategy name.
func (c *Chunker) Name() string {
	return "fixed"
}

// Chunk splits text into overlapping fixed-size segments in document order.
func (c *Chunker) Chunk(_ context.Context, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	contentLen := len(text)
	estimated := (contentLen / (c.chunkSize - c.overlap)) + 1
	chunks := make([]string, 0, estimated)

	start := 0
	for start < contentLen {
		end := start + c.chunkSize
		if end > contentLen {
			end = contentLen
		}

		segment := strings.TrimSpace(text[start:end])
		if segment != "" {
			chunks = append(chunks, segment)
		}

		start += c.chunkSize - c.overlap
	}

	return chunks, nil
}
