package driven

import (
	"context"

	"github.com/custodia-labs/newsearch/internal/core/domain"
)

// ArticleStore persists article metadata.
// Backed by SQLite; title is unique across all records.
type ArticleStore interface {
	// Insert stores a new article and returns its assigned ID.
	// Returns domain.ErrDuplicateTitle when a record with the same title
	// already exists, including when a concurrent ingestion won the race.
	Insert(ctx context.Context, article *domain.Article) (int64, error)

	// GetByID retrieves a record by primary key.
	// Returns domain.ErrNotFound when no record exists.
	GetByID(ctx context.Context, id int64) (*domain.ArticleRecord, error)

	// ExistsByTitle reports whether a record with the exact title exists.
	ExistsByTitle(ctx context.Context, title string) (bool, error)

	// Close releases resources.
	Close() error
}
