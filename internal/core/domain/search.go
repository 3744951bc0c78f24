package domain

// SearchHit is a raw nearest-neighbour result from the vector index. It
// references a chunk via its composite vector-record ID, not an article;
// several hits may belong to the same article.
type SearchHit struct {
	// VectorID is the composite "<articleID>/<suffix>" identifier.
	VectorID string

	// Distance is the distance to the query vector. Smaller is closer.
	Distance float64
}

// RankedResult is one entry of a reconciled search response: a distinct
// article together with the best (minimum) distance observed across all of
// its matching chunks.
type RankedResult struct {
	Article  ArticleRecord
	Distance float64
}

// IngestSummary reports the outcome of one ingestion call. Counts decrease
// monotonically through the pipeline stages; Indexed is the number of
// articles that reached full success.
type IngestSummary struct {
	// Fetched is the number of articles returned by the provider.
	Fetched int

	// New is the number of articles surviving title deduplication.
	New int

	// Cleaned is the number of articles that were normalised successfully.
	Cleaned int

	// Persisted is the number of metadata records created.
	Persisted int

	// Indexed is the number of articles whose chunks were embedded and
	// upserted into the vector index.
	Indexed int

	// Message is a human-readable description of the outcome, set when the
	// pipeline returned early (nothing fetched, nothing new, all dropped).
	Message string
}
