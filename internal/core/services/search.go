package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/newsearch/internal/core/domain"
	"github.com/custodia-labs/newsearch/internal/core/ports/driven"
	"github.com/custodia-labs/newsearch/internal/core/ports/driving"
	"github.com/custodia-labs/newsearch/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.Searcher = (*SearchService)(nil)

// DefaultSearchLimit is used when the caller passes k <= 0.
const DefaultSearchLimit = 10

// SearchService reconciles chunk-level nearest-neighbour hits into a ranked,
// deduplicated list of articles. The index's notion of a neighbour is a
// chunk; the product's notion of a result is an article. Collapsing multiple
// chunk hits into one entry with the minimum distance converts chunk-level
// similarity into article-level relevance without double-counting.
type SearchService struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	store    driven.ArticleStore
}

// NewSearchService creates a new search reconciler.
func NewSearchService(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	store driven.ArticleStore,
) *SearchService {
	return &SearchService{
		embedder: embedder,
		index:    index,
		store:    store,
	}
}

// Search embeds the query once, fetches up to k chunk neighbours and maps
// them back to at most k distinct articles, ascending by distance.
func (s *SearchService) Search(ctx context.Context, query string, k int) ([]domain.RankedResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrEmptyQuery
	}
	if k <= 0 {
		k = DefaultSearchLimit
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.index == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}

	logger.Section("Search Execution")
	logger.Debug("Query: %q, k=%d", query, k)

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.index.Query(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("query vector index: %w", err)
	}
	logger.Debug("Raw hits: %d chunks", len(hits))

	best := s.collapseHits(hits)
	logger.Debug("Distinct articles: %d", len(best))

	results, err := s.hydrate(ctx, best)
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Article.ID < results[j].Article.ID
	})
	if len(results) > k {
		results = results[:k]
	}

	logger.Info("Search %q: %d results", query, len(results))
	return results, nil
}

// collapseHits groups chunk hits by owning article, keeping the minimum
// distance per article. Hits whose ID fails to parse are discarded; the
// index is append-only but not assumed internally consistent.
func (s *SearchService) collapseHits(hits []domain.SearchHit) map[int64]float64 {
	best := make(map[int64]float64, len(hits))
	for _, hit := range hits {
		articleID, err := domain.ParseArticleID(hit.VectorID)
		if err != nil {
			logger.Debug("Dropping malformed hit: %v", err)
			continue
		}
		if d, ok := best[articleID]; !ok || hit.Distance < d {
			best[articleID] = hit.Distance
		}
	}
	return best
}

// hydrate loads each distinct article's metadata record. Articles deleted
// out-of-band are dropped silently; the vector index and metadata store are
// not transactionally linked.
func (s *SearchService) hydrate(ctx context.Context, best map[int64]float64) ([]domain.RankedResult, error) {
	results := make([]domain.RankedResult, 0, len(best))
	for articleID, distance := range best {
		record, err := s.store.GetByID(ctx, articleID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				logger.Debug("Article %d gone from store, dropping hit", articleID)
				continue
			}
			return nil, fmt.Errorf("get article %d: %w", articleID, err)
		}
		results = append(results, domain.RankedResult{
			Article:  *record,
			Distance: distance,
		})
	}
	return results, nil
}
