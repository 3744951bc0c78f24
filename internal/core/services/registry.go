package services

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/newsearch/internal/core/domain"
	"github.com/custodia-labs/newsearch/internal/core/ports/driven"
)

// ProviderRegistry is an immutable mapping from source key to provider,
// built once at startup and handed to the ingestion service.
type ProviderRegistry struct {
	providers map[string]driven.ArticleProvider
}

// NewProviderRegistry creates a registry from the given providers, keyed by
// their Key(). A later provider with a duplicate key replaces the earlier one.
func NewProviderRegistry(providers ...driven.ArticleProvider) *ProviderRegistry {
	m := make(map[string]driven.ArticleProvider, len(providers))
	for _, p := range providers {
		m[p.Key()] = p
	}
	return &ProviderRegistry{providers: m}
}

// Get returns the provider for the given source key.
// Returns domain.ErrUnknownSource if no provider is registered under key.
func (r *ProviderRegistry) Get(key string) (driven.ArticleProvider, error) {
	p, ok := r.providers[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSource, key)
	}
	return p, nil
}

// Keys returns all registered source keys, sorted.
func (r *ProviderRegistry) Keys() []string {
	keys := make([]string, 0, len(r.providers))
	for k := range r.providers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
