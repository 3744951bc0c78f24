package driven

import (
	"context"

	"github.com/custodia-labs/newsearch/internal/core/domain"
)

// VectorUpsert pairs a composite vector-record ID with its embedding for a
// batched index write.
type VectorUpsert struct {
	// VectorID is the composite "<articleID>/<suffix>" identifier.
	VectorID string

	// Vector is the chunk embedding.
	Vector []float32
}

// VectorIndex provides nearest-neighbour search over chunk embeddings.
type VectorIndex interface {
	// Upsert writes all records in one batched call. Re-upserting an
	// existing ID overwrites its vector, it never duplicates.
	Upsert(ctx context.Context, records []VectorUpsert) error

	// Query returns the k nearest neighbours to the query vector, ascending
	// by distance. The index may return fewer than k when the corpus is
	// small.
	Query(ctx context.Context, vector []float32, k int) ([]domain.SearchHit, error)

	// Close releases resources.
	Close() error
}
