// Package memory provides an in-process brute-force vector index.
//
// It scans every stored vector on each query, which is fine for local use
// and tests; production deployments point at a remote index instead.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/newsearch/internal/core/domain"
	"github.com/custodia-labs/newsearch/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an in-memory implementation of driven.VectorIndex using cosine
// distance (1 - cosine similarity), ascending.
type Index struct {
	mu      sync.RWMutex
	vectors map[string][]float32
	dim     int
}

// NewIndex creates a new in-memory vector index.
func NewIndex() *Index {
	return &Index{
		vectors: make(map[string][]float32),
	}
}

// Upsert writes all records in one call. Re-upserting an existing ID
// overwrites its vector.
func (ix *Index) Upsert(_ context.Context, records []driven.VectorUpsert) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for _, r := range records {
		if len(r.Vector) == 0 {
			return fmt.Errorf("memory index: empty vector for id %q", r.VectorID)
		}
		if ix.dim == 0 {
			ix.dim = len(r.Vector)
		}
		if len(r.Vector) != ix.dim {
			return fmt.Errorf("memory index: vector dim %d for id %q, index dim %d",
				len(r.Vector), r.VectorID, ix.dim)
		}
		ix.vectors[r.VectorID] = append([]float32(nil), r.Vector...)
	}
	return nil
}

// Query returns the k nearest stored vectors, ascending by cosine distance.
func (ix *Index) Query(_ context.Context, vector []float32, k int) ([]domain.SearchHit, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if len(ix.vectors) == 0 {
		return nil, nil
	}
	if len(vector) != ix.dim {
		return nil, fmt.Errorf("memory index: query dim %d, index dim %d", len(vector), ix.dim)
	}

	qmag := magnitude(vector)
	if qmag == 0 {
		return nil, nil
	}

	hits := make([]domain.SearchHit, 0, len(ix.vectors))
	for id, stored := range ix.vectors {
		smag := magnitude(stored)
		if smag == 0 {
			continue
		}
		similarity := dot(vector, stored) / (qmag * smag)
		if math.IsNaN(similarity) {
			continue
		}
		hits = append(hits, domain.SearchHit{
			VectorID: id,
			Distance: 1 - similarity,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].VectorID < hits[j].VectorID
	})
	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of stored vectors.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.vectors)
}

// Close releases resources.
func (ix *Index) Close() error {
	return nil
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

func magnitude(v []float32) float64 {
	return math.Sqrt(dot(v, v))
}
