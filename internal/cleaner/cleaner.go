// Package cleaner normalises raw article text before chunking. It targets
// the artifacts typical of scraped news and PDF extractions: citation lines,
// page numbers, stray URLs and mojibake from bad encodings.
package cleaner

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/newsearch/internal/core/ports/driven"
)

// Ensure Cleaner implements the interface.
var _ driven.Cleaner = (*Cleaner)(nil)

var (
	// Lines that start with a bare number followed by text (numbered
	// footnotes, reference lists).
	footnoteLine = regexp.MustCompile(`(?m)^\d+\s+.*$`)

	// Lines that are only a number (page numbers).
	pageNumberLine = regexp.MustCompile(`(?m)^\d+$`)

	// URLs embedded in body text or citations.
	urlPattern = regexp.MustCompile(`(?:https?://|www\.)\S+`)

	// Runs of non-ASCII characters, usually encoding garbage in the
	// source feeds.
	nonASCII = regexp.MustCompile(`[^\x00-\x7F]+`)

	whitespace = regexp.MustCompile(`\s+`)
)

// Cleaner applies a fixed pipeline of text normalisation passes.
type Cleaner struct{}

// New creates a new cleaner.
func New() *Cleaner {
	return &Cleaner{}
}

// Clean runs the full pipeline. Empty input yields empty output without
// error; callers decide whether an empty result drops the article.
func (c *Cleaner) Clean(text string) (string, error) {
	if text == "" {
		return "", nil
	}

	cleaned := footnoteLine.ReplaceAllString(text, "")
	cleaned = pageNumberLine.ReplaceAllString(cleaned, "")
	cleaned = urlPattern.ReplaceAllString(cleaned, "")
	cleaned = nonASCII.ReplaceAllString(cleaned, " ")
	cleaned = whitespace.ReplaceAllString(cleaned, " ")

	return strings.TrimSpace(cleaned), nil
}
