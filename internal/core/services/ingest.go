package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/newsearch/internal/core/domain"
	"github.com/custodia-labs/newsearch/internal/core/ports/driven"
	"github.com/custodia-labs/newsearch/internal/core/ports/driving"
	"github.com/custodia-labs/newsearch/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.Ingestor = (*IngestionService)(nil)

// DefaultIngestWorkers bounds per-article concurrency within one stage.
const DefaultIngestWorkers = 4

// IngestionService drives the per-article pipeline over a fetched batch:
// dedupe -> clean -> persist -> chunk+embed+index. Stages run strictly in
// order; articles within a stage are processed independently, so a failing
// article is dropped without affecting the rest of the batch.
//
// Persistence is the durability boundary: a metadata record is never created
// for an article that failed cleaning, and never rolled back because
// chunking or indexing failed afterwards.
type IngestionService struct {
	registry *ProviderRegistry
	cleaner  driven.Cleaner
	strategy driven.ChunkingStrategy
	store    driven.ArticleStore
	indexer  *ChunkIndexer
	events   driven.EventPublisher
	workers  int
}

// IngestOption configures the ingestion service.
type IngestOption func(*IngestionService)

// WithWorkers sets the per-stage worker pool size.
func WithWorkers(n int) IngestOption {
	return func(s *IngestionService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithEventPublisher wires an optional publisher notified for every fully
// indexed article.
func WithEventPublisher(pub driven.EventPublisher) IngestOption {
	return func(s *IngestionService) {
		s.events = pub
	}
}

// NewIngestionService creates a new ingestion orchestrator.
func NewIngestionService(
	registry *ProviderRegistry,
	cleaner driven.Cleaner,
	strategy driven.ChunkingStrategy,
	store driven.ArticleStore,
	indexer *ChunkIndexer,
	opts ...IngestOption,
) *IngestionService {
	s := &IngestionService{
		registry: registry,
		cleaner:  cleaner,
		strategy: strategy,
		store:    store,
		indexer:  indexer,
		workers:  DefaultIngestWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sources returns the registered provider keys, sorted.
func (s *IngestionService) Sources() []string {
	return s.registry.Keys()
}

// persistedArticle pairs a stored record ID with its cleaned article for the
// indexing stage.
type persistedArticle struct {
	id      int64
	article domain.Article
}

// Ingest runs the full pipeline for one source and query.
//
// Unknown source and provider fetch failures abort the call before any side
// effect. Everything after a successful fetch is per-article: failures are
// logged, counted and absorbed into the summary.
func (s *IngestionService) Ingest(ctx context.Context, sourceKey, query string) (*domain.IngestSummary, error) {
	provider, err := s.registry.Get(sourceKey)
	if err != nil {
		return nil, err
	}

	fetched, err := provider.Fetch(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderFailure, err)
	}

	summary := &domain.IngestSummary{Fetched: len(fetched)}
	if len(fetched) == 0 {
		summary.Message = "no articles found from the external source"
		logger.Info("Ingest %s/%q: %s", sourceKey, query, summary.Message)
		return summary, nil
	}

	logger.Section("Ingestion")
	logger.Info("Fetched %d articles from %s for %q", len(fetched), sourceKey, query)

	fresh, err := s.dedupe(ctx, fetched)
	if err != nil {
		return nil, err
	}
	summary.New = len(fresh)
	if len(fresh) == 0 {
		summary.Message = "no new articles to process; all fetched articles already exist"
		logger.Info("Ingest %s/%q: %s", sourceKey, query, summary.Message)
		return summary, nil
	}

	cleaned := s.cleanAll(ctx, fresh)
	summary.Cleaned = len(cleaned)
	if len(cleaned) == 0 {
		summary.Message = "all new articles failed during cleaning"
		logger.Warn("Ingest %s/%q: %s", sourceKey, query, summary.Message)
		return summary, nil
	}

	persisted := s.persistAll(ctx, cleaned)
	summary.Persisted = len(persisted)
	if len(persisted) == 0 {
		summary.Message = "failed to store any articles in the database"
		logger.Warn("Ingest %s/%q: %s", sourceKey, query, summary.Message)
		return summary, nil
	}

	summary.Indexed = s.indexAll(ctx, sourceKey, persisted)
	summary.Message = fmt.Sprintf("successfully processed and indexed %d articles", summary.Indexed)
	logger.Info("Ingest %s/%q: fetched=%d new=%d cleaned=%d persisted=%d indexed=%d",
		sourceKey, query, summary.Fetched, summary.New, summary.Cleaned, summary.Persisted, summary.Indexed)

	return summary, nil
}

// dedupe drops articles whose title is already stored, and titles repeated
// within the fetched batch itself.
func (s *IngestionService) dedupe(ctx context.Context, fetched []domain.RawArticle) ([]domain.RawArticle, error) {
	fresh := make([]domain.RawArticle, 0, len(fetched))
	seen := make(map[string]struct{}, len(fetched))

	for _, raw := range fetched {
		if _, dup := seen[raw.Title]; dup {
			logger.Debug("Duplicate title within batch, skipping: %q", raw.Title)
			continue
		}
		seen[raw.Title] = struct{}{}

		exists, err := s.store.ExistsByTitle(ctx, raw.Title)
		if err != nil {
			return nil, fmt.Errorf("check title %q: %w", raw.Title, err)
		}
		if exists {
			logger.Debug("Already ingested, skipping: %q", raw.Title)
			continue
		}
		fresh = append(fresh, raw)
	}
	return fresh, nil
}

// cleanAll normalises article content on the worker pool. Articles whose
// clean fails are dropped; order of survivors follows the input batch.
func (s *IngestionService) cleanAll(ctx context.Context, fresh []domain.RawArticle) []domain.Article {
	results := make([]*domain.Article, len(fresh))

	s.forEach(ctx, len(fresh), func(i int) {
		content, err := s.cleaner.Clean(fresh[i].Content)
		if err != nil {
			logger.Error("Failed to clean article %q: %v", fresh[i].Title, err)
			return
		}
		article := fresh[i].Cleaned(content)
		results[i] = &article
	})

	cleaned := make([]domain.Article, 0, len(fresh))
	for _, a := range results {
		if a != nil {
			cleaned = append(cleaned, *a)
		}
	}
	return cleaned
}

// persistAll inserts cleaned articles on the worker pool. A duplicate title
// here means another ingestion won the check-then-insert race; that article
// is dropped like any other per-article failure.
func (s *IngestionService) persistAll(ctx context.Context, cleaned []domain.Article) []persistedArticle {
	results := make([]*persistedArticle, len(cleaned))

	s.forEach(ctx, len(cleaned), func(i int) {
		id, err := s.store.Insert(ctx, &cleaned[i])
		if err != nil {
			if errors.Is(err, domain.ErrDuplicateTitle) {
				logger.Info("Lost insert race for %q, dropping", cleaned[i].Title)
			} else {
				logger.Error("Failed to store article %q: %v", cleaned[i].Title, err)
			}
			return
		}
		results[i] = &persistedArticle{id: id, article: cleaned[i]}
	})

	persisted := make([]persistedArticle, 0, len(cleaned))
	for _, p := range results {
		if p != nil {
			persisted = append(persisted, *p)
		}
	}
	return persisted
}

// indexAll chunks, embeds and upserts each persisted article on the worker
// pool, returning the number of articles fully indexed. An article with no
// chunks keeps its metadata record; that partial state is accepted.
func (s *IngestionService) indexAll(ctx context.Context, sourceKey string, persisted []persistedArticle) int {
	var (
		mu      sync.Mutex
		indexed int
	)

	s.forEach(ctx, len(persisted), func(i int) {
		p := persisted[i]

		chunks, err := s.strategy.Chunk(ctx, p.article.Content)
		if err != nil {
			logger.Error("Failed to chunk article %q (ID %d): %v", p.article.Title, p.id, err)
			return
		}
		if len(chunks) == 0 {
			logger.Warn("No chunks generated for article %q (ID %d)", p.article.Title, p.id)
			return
		}

		ids, err := s.indexer.UpsertChunks(ctx, p.id, chunks)
		if err != nil {
			logger.Error("Failed to index article %q (ID %d): %v", p.article.Title, p.id, err)
			return
		}
		logger.Debug("Indexed article %d with %d chunks", p.id, len(ids))

		mu.Lock()
		indexed++
		mu.Unlock()

		s.publishIndexed(ctx, sourceKey, p, len(ids))
	})

	return indexed
}

// publishIndexed emits an optional event; failures are logged only.
func (s *IngestionService) publishIndexed(ctx context.Context, sourceKey string, p persistedArticle, chunks int) {
	if s.events == nil {
		return
	}
	event := driven.ArticleIndexedEvent{
		ArticleID: p.id,
		Title:     p.article.Title,
		Source:    sourceKey,
		Chunks:    chunks,
	}
	if err := s.events.PublishArticleIndexed(ctx, event); err != nil {
		logger.Warn("Failed to publish indexed event for article %d: %v", p.id, err)
	}
}

// forEach runs fn(i) for i in [0, n) on a bounded worker pool and waits for
// completion. Slots are indexed so stage output keeps batch order.
func (s *IngestionService) forEach(ctx context.Context, n int, fn func(i int)) {
	workers := s.workers
	if workers <= 0 {
		workers = DefaultIngestWorkers
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(i)
		}(i)
	}
	wg.Wait()
}
