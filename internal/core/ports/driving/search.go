package driving

import (
	"context"

	"github.com/custodia-labs/newsearch/internal/core/domain"
)

// Searcher answers semantic queries with ranked, per-article results.
type Searcher interface {
	// Search embeds the query, collects up to k nearest chunk hits and
	// reconciles them into at most k distinct articles ordered ascending by
	// distance. Returns domain.ErrEmptyQuery for blank input.
	Search(ctx context.Context, query string, k int) ([]domain.RankedResult, error)
}
