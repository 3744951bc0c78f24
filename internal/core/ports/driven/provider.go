package driven

import (
	"context"

	"github.com/custodia-labs/newsearch/internal/core/domain"
)

// ArticleProvider fetches articles from an external source.
// Each provider type (newsapi, coreapi, filesystem, ...) implements this
// interface and normalises the upstream payload into RawArticle values.
type ArticleProvider interface {
	// Key returns the registry key used to select this provider.
	Key() string

	// Fetch returns the articles matching the query, in the order the
	// upstream source reports them. An empty slice is a legitimate result,
	// not an error. Transport or auth failures must be reported as an error;
	// the orchestrator treats them as fatal to the ingestion call.
	Fetch(ctx context.Context, query string) ([]domain.RawArticle, error)
}

// WatchingProvider is implemented by providers that can push newly appeared
// articles without being polled, such as the filesystem drop directory.
type WatchingProvider interface {
	ArticleProvider

	// Watch emits batches of articles as they appear until ctx is cancelled.
	Watch(ctx context.Context) (<-chan []domain.RawArticle, error)
}
