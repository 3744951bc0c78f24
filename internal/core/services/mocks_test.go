package services

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/newsearch/internal/core/domain"
	"github.com/custodia-labs/newsearch/internal/core/ports/driven"
)

// mockProvider returns a canned batch or error.
type mockProvider struct {
	key      string
	articles []domain.RawArticle
	err      error
	fetches  int
}

func (m *mockProvider) Key() string { return m.key }

func (m *mockProvider) Fetch(_ context.Context, _ string) ([]domain.RawArticle, error) {
	m.fetches++
	return m.articles, m.err
}

// mockCleaner passes content through, optionally failing specific inputs.
type mockCleaner struct {
	failOn map[string]error
}

func (m *mockCleaner) Clean(text string) (string, error) {
	if err, ok := m.failOn[text]; ok {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// mockStrategy splits on newlines, optionally failing specific inputs.
type mockStrategy struct {
	failOn map[string]error
}

func (m *mockStrategy) Name() string { return "mock" }

func (m *mockStrategy) Chunk(_ context.Context, text string) ([]string, error) {
	if err, ok := m.failOn[text]; ok {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}
	var chunks []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			chunks = append(chunks, line)
		}
	}
	return chunks, nil
}

// mockStore is an in-memory article store with injectable failures.
type mockStore struct {
	mu         sync.Mutex
	nextID     int64
	byTitle    map[string]int64
	records    map[int64]domain.ArticleRecord
	existsErr  error
	insertFail map[string]error
	getErr     error
}

func newMockStore() *mockStore {
	return &mockStore{
		nextID:  1,
		byTitle: make(map[string]int64),
		records: make(map[int64]domain.ArticleRecord),
	}
}

func (m *mockStore) Insert(_ context.Context, article *domain.Article) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.insertFail[article.Title]; ok {
		return 0, err
	}
	if _, dup := m.byTitle[article.Title]; dup {
		return 0, domain.ErrDuplicateTitle
	}

	id := m.nextID
	m.nextID++
	m.byTitle[article.Title] = id
	m.records[id] = domain.ArticleRecord{
		ID:          id,
		Title:       article.Title,
		URL:         article.URL,
		PublishedAt: article.PublishedAt,
		Preview:     article.Preview,
	}
	return id, nil
}

func (m *mockStore) GetByID(_ context.Context, id int64) (*domain.ArticleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return nil, m.getErr
	}
	record, ok := m.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &record, nil
}

func (m *mockStore) ExistsByTitle(_ context.Context, title string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.byTitle[title]
	return ok, nil
}

func (m *mockStore) Close() error { return nil }

// mockEmbedder returns one-hot vectors and counts calls.
type mockEmbedder struct {
	mu         sync.Mutex
	err        error
	embeds     int
	batchCalls int
	shortBatch bool
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embeds++
	if m.err != nil {
		return nil, m.err
	}
	return []float32{1, 0}, nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls++
	if m.err != nil {
		return nil, m.err
	}
	n := len(texts)
	if m.shortBatch && n > 0 {
		n--
	}
	out := make([][]float32, n)
	for i := range out {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return 2 }
func (m *mockEmbedder) ModelName() string            { return "mock" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockIndex records upserts and serves canned query hits.
type mockIndex struct {
	mu       sync.Mutex
	upserted []driven.VectorUpsert
	hits     []domain.SearchHit
	upsertErr error
	queryErr  error
	queries   int
}

func (m *mockIndex) Upsert(_ context.Context, records []driven.VectorUpsert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, records...)
	return nil
}

func (m *mockIndex) Query(_ context.Context, _ []float32, _ int) ([]domain.SearchHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries++
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.hits, nil
}

func (m *mockIndex) Close() error { return nil }

// mockPublisher records published events.
type mockPublisher struct {
	mu     sync.Mutex
	events []driven.ArticleIndexedEvent
	err    error
}

func (m *mockPublisher) PublishArticleIndexed(_ context.Context, event driven.ArticleIndexedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockPublisher) Close() error { return nil }
