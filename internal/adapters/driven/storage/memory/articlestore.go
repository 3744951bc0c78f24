// Package memory provides in-memory storage adapters used for tests and as
// lightweight defaults when no database is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/newsearch/internal/core/domain"
	"github.com/custodia-labs/newsearch/internal/core/ports/driven"
)

// Ensure ArticleStore implements the interface.
var _ driven.ArticleStore = (*ArticleStore)(nil)

// ArticleStore is an in-memory implementation of driven.ArticleStore.
type ArticleStore struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]domain.ArticleRecord
	byTitle map[string]int64
}

// NewArticleStore creates a new in-memory article store.
func NewArticleStore() *ArticleStore {
	return &ArticleStore{
		nextID:  1,
		byID:    make(map[int64]domain.ArticleRecord),
		byTitle: make(map[string]int64),
	}
}

// Insert stores a new article and returns its assigned ID.
func (s *ArticleStore) Insert(_ context.Context, article *domain.Article) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byTitle[article.Title]; exists {
		return 0, fmt.Errorf("%w: %q", domain.ErrDuplicateTitle, article.Title)
	}

	id := s.nextID
	s.nextID++
	s.byID[id] = domain.ArticleRecord{
		ID:          id,
		Title:       article.Title,
		URL:         article.URL,
		PublishedAt: article.PublishedAt,
		Preview:     article.Preview,
	}
	s.byTitle[article.Title] = id
	return id, nil
}

// GetByID retrieves a record by primary key.
func (s *ArticleStore) GetByID(_ context.Context, id int64) (*domain.ArticleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &record, nil
}

// ExistsByTitle reports whether a record with the exact title exists.
func (s *ArticleStore) ExistsByTitle(_ context.Context, title string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byTitle[title]
	return ok, nil
}

// Delete removes a record. Used by tests to simulate out-of-band deletion;
// the ingestion core never deletes.
func (s *ArticleStore) Delete(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record, ok := s.byID[id]; ok {
		delete(s.byTitle, record.Title)
		delete(s.byID, id)
	}
}

// Close releases resources.
func (s *ArticleStore) Close() error {
	return nil
}
