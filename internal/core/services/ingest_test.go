package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/newsearch/internal/core/domain"
)

func rawArticle(title, content string) domain.RawArticle {
	return domain.RawArticle{Title: title, Content: content, URL: "https://example.com/" + title}
}

type ingestFixture struct {
	provider *mockProvider
	cleaner  *mockCleaner
	strategy *mockStrategy
	store    *mockStore
	embedder *mockEmbedder
	index    *mockIndex
	service  *IngestionService
}

func newIngestFixture(articles []domain.RawArticle, opts ...IngestOption) *ingestFixture {
	f := &ingestFixture{
		provider: &mockProvider{key: "newsapi", articles: articles},
		cleaner:  &mockCleaner{},
		strategy: &mockStrategy{},
		store:    newMockStore(),
		embedder: &mockEmbedder{},
		index:    &mockIndex{},
	}
	f.service = NewIngestionService(
		NewProviderRegistry(f.provider),
		f.cleaner,
		f.strategy,
		f.store,
		NewChunkIndexer(f.embedder, f.index),
		opts...,
	)
	return f
}

func TestIngest_UnknownSource(t *testing.T) {
	f := newIngestFixture(nil)

	_, err := f.service.Ingest(context.Background(), "perigon", "query")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownSource)
	assert.Zero(t, f.provider.fetches, "no provider should be called")
}

func TestIngest_ProviderFailure(t *testing.T) {
	f := newIngestFixture(nil)
	f.provider.err = errors.New("upstream 503")

	_, err := f.service.Ingest(context.Background(), "newsapi", "query")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderFailure)
	assert.Empty(t, f.store.records, "no side effects on fetch failure")
}

func TestIngest_NothingFetched(t *testing.T) {
	f := newIngestFixture(nil)

	summary, err := f.service.Ingest(context.Background(), "newsapi", "query")
	require.NoError(t, err)
	assert.Zero(t, summary.Fetched)
	assert.Equal(t, "no articles found from the external source", summary.Message)
}

func TestIngest_FullPipeline(t *testing.T) {
	f := newIngestFixture([]domain.RawArticle{
		rawArticle("First", "line one\nline two"),
		rawArticle("Second", "only line"),
	})

	summary, err := f.service.Ingest(context.Background(), "newsapi", "query")
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Fetched)
	assert.Equal(t, 2, summary.New)
	assert.Equal(t, 2, summary.Cleaned)
	assert.Equal(t, 2, summary.Persisted)
	assert.Equal(t, 2, summary.Indexed)
	assert.Equal(t, "successfully processed and indexed 2 articles", summary.Message)

	// Three chunks across both articles, all owned by stored records
	assert.Len(t, f.index.upserted, 3)
	for _, record := range f.index.upserted {
		articleID, err := domain.ParseArticleID(record.VectorID)
		require.NoError(t, err)
		_, ok := f.store.records[articleID]
		assert.True(t, ok, "vector belongs to a persisted article")
	}
}

func TestIngest_Idempotent(t *testing.T) {
	articles := []domain.RawArticle{rawArticle("Only", "body")}
	f := newIngestFixture(articles)

	first, err := f.service.Ingest(context.Background(), "newsapi", "query")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Indexed)

	second, err := f.service.Ingest(context.Background(), "newsapi", "query")
	require.NoError(t, err)
	assert.Equal(t, 1, second.Fetched)
	assert.Zero(t, second.New)
	assert.Equal(t, "no new articles to process; all fetched articles already exist", second.Message)
	assert.Len(t, f.store.records, 1, "no duplicate records on re-ingest")
}

func TestIngest_DedupesWithinBatch(t *testing.T) {
	f := newIngestFixture([]domain.RawArticle{
		rawArticle("Same Title", "first body"),
		rawArticle("Same Title", "second body"),
	})

	summary, err := f.service.Ingest(context.Background(), "newsapi", "query")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Fetched)
	assert.Equal(t, 1, summary.New)
	assert.Len(t, f.store.records, 1)
}

func TestIngest_DedupeCheckFailureIsFatal(t *testing.T) {
	f := newIngestFixture([]domain.RawArticle{rawArticle("A", "body")})
	f.store.existsErr = errors.New("db gone")

	_, err := f.service.Ingest(context.Background(), "newsapi", "query")
	assert.Error(t, err)
}

func TestIngest_CleanFailureDropsOnlyThatArticle(t *testing.T) {
	f := newIngestFixture([]domain.RawArticle{
		rawArticle("Good", "good body"),
		rawArticle("Bad", "bad body"),
	})
	f.cleaner.failOn = map[string]error{"bad body": errors.New("unparseable")}

	summary, err := f.service.Ingest(context.Background(), "newsapi", "query")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.New)
	assert.Equal(t, 1, summary.Cleaned)
	assert.Equal(t, 1, summary.Indexed)

	_, exists := f.store.byTitle["Good"]
	assert.True(t, exists)
	_, exists = f.store.byTitle["Bad"]
	assert.False(t, exists, "failed article must not be persisted")
}

func TestIngest_AllCleansFail(t *testing.T) {
	f := newIngestFixture([]domain.RawArticle{rawArticle("A", "body")})
	f.cleaner.failOn = map[string]error{"body": errors.New("nope")}

	summary, err := f.service.Ingest(context.Background(), "newsapi", "query")
	require.NoError(t, err)
	assert.Zero(t, summary.Cleaned)
	assert.Equal(t, "all new articles failed during cleaning", summary.Message)
}

func TestIngest_InsertRaceDropsArticle(t *testing.T) {
	f := newIngestFixture([]domain.RawArticle{
		rawArticle("Winner", "body one"),
		rawArticle("Raced", "body two"),
	})
	f.store.insertFail = map[string]error{"Raced": domain.ErrDuplicateTitle}

	summary, err := f.service.Ingest(context.Background(), "newsapi", "query")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Cleaned)
	assert.Equal(t, 1, summary.Persisted)
	assert.Equal(t, 1, summary.Indexed)
}

func TestIngest_IndexFailureKeepsMetadataRecord(t *testing.T) {
	f := newIngestFixture([]domain.RawArticle{rawArticle("Kept", "body")})
	f.index.upsertErr = errors.New("index down")

	summary, err := f.service.Ingest(context.Background(), "newsapi", "query")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Persisted)
	assert.Zero(t, summary.Indexed)

	// Persistence is the durability boundary; no rollback on index failure
	_, exists := f.store.byTitle["Kept"]
	assert.True(t, exists)
}

func TestIngest_ChunkFailureDropsArticle(t *testing.T) {
	f := newIngestFixture([]domain.RawArticle{
		rawArticle("Chunky", "good body"),
		rawArticle("Broken", "broken body"),
	})
	f.strategy.failOn = map[string]error{"broken body": errors.New("cannot split")}

	summary, err := f.service.Ingest(context.Background(), "newsapi", "query")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Persisted)
	assert.Equal(t, 1, summary.Indexed)
}

func TestIngest_PublishesEvents(t *testing.T) {
	publisher := &mockPublisher{}
	f := newIngestFixture(
		[]domain.RawArticle{rawArticle("Evented", "body")},
		WithEventPublisher(publisher),
	)

	summary, err := f.service.Ingest(context.Background(), "newsapi", "query")
	require.NoError(t, err)
	require.Equal(t, 1, summary.Indexed)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, "Evented", publisher.events[0].Title)
	assert.Equal(t, "newsapi", publisher.events[0].Source)
	assert.Equal(t, 1, publisher.events[0].Chunks)
}

func TestIngest_PublishFailureDoesNotAffectSummary(t *testing.T) {
	publisher := &mockPublisher{err: errors.New("broker down")}
	f := newIngestFixture(
		[]domain.RawArticle{rawArticle("Evented", "body")},
		WithEventPublisher(publisher),
	)

	summary, err := f.service.Ingest(context.Background(), "newsapi", "query")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Indexed)
}

func TestSources(t *testing.T) {
	f := newIngestFixture(nil)
	assert.Equal(t, []string{"newsapi"}, f.service.Sources())
}
