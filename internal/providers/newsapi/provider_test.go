package newsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/everything", r.URL.Path)
		assert.Equal(t, "climate", r.URL.Query().Get("q"))
		assert.Equal(t, "en", r.URL.Query().Get("language"))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))

		w.Write([]byte(`{"status":"ok","articles":[
			{"title":"Heatwave Continues","url":"https://example.com/1",
			 "content":"Full body","description":"Short summary",
			 "publishedAt":"2025-06-01T10:00:00Z"},
			{"title":"","url":"https://example.com/2","content":"no title"},
			{"title":"No URL","url":"","content":"no url"}
		]}`))
	}))
	defer server.Close()

	provider, err := New(Config{APIKey: "secret", BaseURL: server.URL})
	require.NoError(t, err)

	articles, err := provider.Fetch(context.Background(), "climate")
	require.NoError(t, err)

	// Entries missing title or URL are skipped
	require.Len(t, articles, 1)
	assert.Equal(t, "Heatwave Continues", articles[0].Title)
	assert.Equal(t, "https://example.com/1", articles[0].URL)
	assert.Equal(t, "Full body", articles[0].Content)
	assert.Equal(t, "Short summary", articles[0].Preview)
	assert.Equal(t, "newsapi", articles[0].SourceName)
	require.NotNil(t, articles[0].PublishedAt)
	assert.Equal(t, 2025, articles[0].PublishedAt.Year())
}

func TestFetch_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"bad key"}`))
	}))
	defer server.Close()

	provider, err := New(Config{APIKey: "bad", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = provider.Fetch(context.Background(), "climate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apiKeyInvalid")
}

func TestFetch_EmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","articles":[]}`))
	}))
	defer server.Close()

	provider, err := New(Config{APIKey: "secret", BaseURL: server.URL})
	require.NoError(t, err)

	articles, err := provider.Fetch(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestKey(t *testing.T) {
	provider, err := New(Config{APIKey: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "newsapi", provider.Key())
}
