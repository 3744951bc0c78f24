package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/newsearch/internal/core/domain"
	"github.com/custodia-labs/newsearch/internal/core/ports/driven"
)

// ChunkIndexer embeds article chunks and writes them to the vector index
// under fresh composite vector-record IDs.
type ChunkIndexer struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
}

// NewChunkIndexer creates a new chunk indexer.
func NewChunkIndexer(embedder driven.EmbeddingService, index driven.VectorIndex) *ChunkIndexer {
	return &ChunkIndexer{
		embedder: embedder,
		index:    index,
	}
}

// UpsertChunks embeds every chunk, generates one fresh vector-record ID per
// chunk and upserts all (id, vector) pairs in a single batched call.
// It returns the generated IDs in chunk order so callers can pair chunk text
// with its stored ID.
func (ix *ChunkIndexer) UpsertChunks(ctx context.Context, articleID int64, chunks []string) ([]string, error) {
	if ix.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if ix.index == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	vectors, err := ix.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embed chunks: got %d vectors for %d chunks", len(vectors), len(chunks))
	}

	ids := make([]string, len(chunks))
	records := make([]driven.VectorUpsert, len(chunks))
	for i := range chunks {
		ids[i] = domain.MakeVectorID(articleID)
		records[i] = driven.VectorUpsert{
			VectorID: ids[i],
			Vector:   vectors[i],
		}
	}

	if err := ix.index.Upsert(ctx, records); err != nil {
		return nil, fmt.Errorf("upsert vectors: %w", err)
	}

	return ids, nil
}
