package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRawArticle_Cleaned(t *testing.T) {
	published := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	raw := RawArticle{
		Title:       "Quantum Networking Advances",
		URL:         "https://example.com/quantum",
		Content:     "  raw   body  ",
		SourceName:  "Example Wire",
		PublishedAt: &published,
		Preview:     "A short preview.",
	}

	clean := raw.Cleaned("raw body")

	assert.Equal(t, "raw body", clean.Content)
	assert.Equal(t, raw.Title, clean.Title)
	assert.Equal(t, raw.URL, clean.URL)
	assert.Equal(t, raw.SourceName, clean.SourceName)
	assert.Equal(t, raw.PublishedAt, clean.PublishedAt)
	assert.Equal(t, raw.Preview, clean.Preview)
}
