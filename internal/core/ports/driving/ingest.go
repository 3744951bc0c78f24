package driving

import (
	"context"

	"github.com/custodia-labs/newsearch/internal/core/domain"
)

// Ingestor drives the article ingestion pipeline for one source and query.
type Ingestor interface {
	// Ingest fetches articles for sourceKey, deduplicates, cleans, persists
	// and indexes them. Per-article failures are absorbed into the summary;
	// only precondition failures (unknown source, provider error) are
	// returned as errors.
	Ingest(ctx context.Context, sourceKey, query string) (*domain.IngestSummary, error)

	// Sources returns the registered provider keys, sorted.
	Sources() []string
}
