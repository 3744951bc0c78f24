// Package domain contains the core business entities and rules for the
// newsearch pipeline: articles in their raw, cleaned and persisted forms,
// the composite vector-record identity scheme, and search result types.
//
// The domain has no dependencies on adapters or external services.
package domain
