// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): article providers, the text cleaner, chunking
// strategies, the embedding service, the vector index and the metadata store.
package driven
