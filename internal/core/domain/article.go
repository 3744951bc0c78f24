package domain

import "time"

// RawArticle is an article as fetched from an external provider, before any
// normalisation. It lives only for the duration of one ingestion call.
type RawArticle struct {
	// Title is the headline. It doubles as the deduplication key.
	Title string

	// URL is the original location of the article.
	URL string

	// Content is the full raw body text.
	Content string

	// SourceName is the publisher name, if the provider reports one.
	SourceName string

	// PublishedAt is the publication timestamp, if known.
	PublishedAt *time.Time

	// Preview is a short description or abstract, if the provider has one.
	Preview string
}

// Article is a RawArticle whose content has been normalised by a Cleaner.
type Article struct {
	Title       string
	URL         string
	Content     string
	SourceName  string
	PublishedAt *time.Time
	Preview     string
}

// Cleaned returns the article with its content replaced by the normalised
// form. All other fields are carried over unchanged.
func (r RawArticle) Cleaned(content string) Article {
	return Article{
		Title:       r.Title,
		URL:         r.URL,
		Content:     content,
		SourceName:  r.SourceName,
		PublishedAt: r.PublishedAt,
		Preview:     r.Preview,
	}
}

// ArticleRecord is the persisted form of an article. The record holds
// metadata only; the full content is never stored, it exists solely to be
// chunked and indexed.
//
// At most one record exists per distinct title. Records are created once on
// first successful ingestion and never mutated afterwards.
type ArticleRecord struct {
	// ID is assigned by the metadata store on insert.
	ID int64

	Title       string
	URL         string
	PublishedAt *time.Time
	Preview     string
}
