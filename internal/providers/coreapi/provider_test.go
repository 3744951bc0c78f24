package coreapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
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
		assert.Equal(t, "/search/works", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		q := r.URL.Query().Get("q")
		assert.True(t, strings.Contains(q, "fullText"), "query should require full text")

		w.Write([]byte(`{"results":[
			{"title":"Deep Learning Survey","url":"https://core.example/1",
			 "downloadUrl":"https://core.example/1.pdf",
			 "fullText":"full body text","abstract":"a survey",
			 "publishedDate":"2024-11-02"},
			{"title":"No Download","url":"https://core.example/2","downloadUrl":""}
		]}`))
	}))
	defer server.Close()

	provider, err := New(Config{APIKey: "secret", BaseURL: server.URL})
	require.NoError(t, err)

	articles, err := provider.Fetch(context.Background(), "deep learning")
	require.NoError(t, err)

	require.Len(t, articles, 1)
	assert.Equal(t, "Deep Learning Survey", articles[0].Title)
	assert.Equal(t, "full body text", articles[0].Content)
	assert.Equal(t, "a survey", articles[0].Preview)
	assert.Equal(t, "coreapi", articles[0].SourceName)
	require.NotNil(t, articles[0].PublishedAt)
	assert.Equal(t, 11, int(articles[0].PublishedAt.Month()))
}

func TestFetch_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider, err := New(Config{APIKey: "secret", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = provider.Fetch(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestKey(t *testing.T) {
	provider, err := New(Config{APIKey: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "coreapi", provider.Key())
}
