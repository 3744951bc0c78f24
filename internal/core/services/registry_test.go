package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/newsearch/internal/core/domain"
)

func TestRegistry_Get(t *testing.T) {
	provider := &mockProvider{key: "newsapi"}
	registry := NewProviderRegistry(provider)

	got, err := registry.Get("newsapi")
	require.NoError(t, err)
	assert.Same(t, provider, got.(*mockProvider))
}

func TestRegistry_Get_Unknown(t *testing.T) {
	registry := NewProviderRegistry(&mockProvider{key: "newsapi"})

	_, err := registry.Get("perigon")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownSource)
	assert.Contains(t, err.Error(), "perigon")
}

func TestRegistry_Keys_Sorted(t *testing.T) {
	registry := NewProviderRegistry(
		&mockProvider{key: "newsapi"},
		&mockProvider{key: "coreapi"},
		&mockProvider{key: "filesystem"},
	)

	assert.Equal(t, []string{"coreapi", "filesystem", "newsapi"}, registry.Keys())
}

func TestRegistry_DuplicateKeyReplaces(t *testing.T) {
	first := &mockProvider{key: "newsapi"}
	second := &mockProvider{key: "newsapi"}
	registry := NewProviderRegistry(first, second)

	got, err := registry.Get("newsapi")
	require.NoError(t, err)
	assert.Same(t, second, got.(*mockProvider))
	assert.Len(t, registry.Keys(), 1)
}
