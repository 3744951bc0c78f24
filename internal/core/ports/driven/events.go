package driven

import "context"

// ArticleIndexedEvent is published after an article has been persisted and
// all of its chunks upserted into the vector index.
type ArticleIndexedEvent struct {
	ArticleID int64  `json:"article_id"`
	Title     string `json:"title"`
	Source    string `json:"source"`
	Chunks    int    `json:"chunks"`
}

// EventPublisher notifies downstream consumers about ingestion outcomes.
// This is an optional service - when nil, no events are published.
type EventPublisher interface {
	// PublishArticleIndexed emits one event per fully indexed article.
	// Publish failures are logged by the caller and never affect ingestion.
	PublishArticleIndexed(ctx context.Context, event ArticleIndexedEvent) error

	// Close releases resources.
	Close() error
}
