package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnknownSource indicates the requested provider key is not registered.
	ErrUnknownSource = errors.New("unknown article source")

	// ErrEmptyQuery indicates a search was requested with a blank query.
	ErrEmptyQuery = errors.New("search query cannot be empty")

	// ErrDuplicateTitle indicates an article with the same title already
	// exists in the metadata store. Title is the deduplication key.
	ErrDuplicateTitle = errors.New("article title already exists")

	// ErrProviderFailure indicates an upstream fetch failed. This aborts the
	// whole ingestion call; no side effects have occurred yet.
	ErrProviderFailure = errors.New("provider fetch failed")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Both ingestion and semantic search require embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")
)
