package driven

import "context"

// ChunkingStrategy segments normalised article content into an ordered
// sequence of text spans for embedding.
//
// Contract: for non-empty input the result is non-empty and every segment is
// non-empty after trimming surrounding whitespace. Segments appear in
// document order. Strategies choose their own boundaries (fixed-size,
// semantic, paragraph); segments need not partition the text exactly.
type ChunkingStrategy interface {
	// Name returns the strategy name for logging and configuration.
	Name() string

	// Chunk splits text into ordered segments.
	Chunk(ctx context.Context, text string) ([]string, error)
}
