// Package filesystem provides an article provider that reads JSON article
// files from a local drop directory. It is useful for offline ingestion and
// for feeding hand-curated corpora, and supports watching the directory for
// newly dropped files.
package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/newsearch/internal/core/domain"
	"github.com/custodia-labs/newsearch/internal/core/ports/driven"
	"github.com/custodia-labs/newsearch/internal/logger"
)

// Ensure Provider implements the interfaces.
var (
	_ driven.ArticleProvider  = (*Provider)(nil)
	_ driven.WatchingProvider = (*Provider)(nil)
)

// articleFile is the on-disk JSON format for dropped articles.
type articleFile struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Content     string `json:"content"`
	Preview     string `json:"preview"`
	PublishedAt string `json:"published_at"`
}

// Provider reads articles from *.json files in a directory.
type Provider struct {
	dir string
}

// New creates a filesystem provider rooted at dir.
func New(dir string) (*Provider, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("filesystem: stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("filesystem: %s is not a directory", dir)
	}
	return &Provider{dir: dir}, nil
}

// Key returns the registry key for this provider.
func (p *Provider) Key() string {
	return "filesystem"
}

// Fetch reads every JSON article file in the directory and returns those
// matching the query. An empty query matches everything; otherwise the match
// is a case-insensitive substring check on title and content. Unreadable or
// malformed files are skipped.
func (p *Provider) Fetch(ctx context.Context, query string) ([]domain.RawArticle, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, fmt.Errorf("filesystem: reading %s: %w", p.dir, err)
	}

	needle := strings.ToLower(strings.TrimSpace(query))

	var articles []domain.RawArticle
	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		article, err := p.readFile(filepath.Join(p.dir, entry.Name()))
		if err != nil {
			logger.Warn("Skipping %s: %v", entry.Name(), err)
			continue
		}
		if needle != "" && !matches(article, needle) {
			continue
		}
		articles = append(articles, article)
	}
	return articles, nil
}

// Watch emits a batch for every JSON file created or rewritten in the
// directory until ctx is cancelled.
func (p *Provider) Watch(ctx context.Context) (<-chan []domain.RawArticle, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("filesystem: creating watcher: %w", err)
	}
	if err := watcher.Add(p.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("filesystem: watching %s: %w", p.dir, err)
	}

	out := make(chan []domain.RawArticle)
	go func() {
		defer close(out)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
					continue
				}
				if !strings.HasSuffix(event.Name, ".json") {
					continue
				}

				article, err := p.readFile(event.Name)
				if err != nil {
					logger.Warn("Skipping %s: %v", filepath.Base(event.Name), err)
					continue
				}
				select {
				case out <- []domain.RawArticle{article}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watcher error: %v", err)
			}
		}
	}()
	return out, nil
}

func (p *Provider) readFile(path string) (domain.RawArticle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.RawArticle{}, fmt.Errorf("reading file: %w", err)
	}

	var file articleFile
	if err := json.Unmarshal(data, &file); err != nil {
		return domain.RawArticle{}, fmt.Errorf("parsing JSON: %w", err)
	}
	if file.Title == "" {
		return domain.RawArticle{}, fmt.Errorf("missing title")
	}

	return domain.RawArticle{
		Title:       file.Title,
		URL:         file.URL,
		Content:     file.Content,
		Preview:     file.Preview,
		SourceName:  p.Key(),
		PublishedAt: parseTime(file.PublishedAt),
	}, nil
}

func matches(article domain.RawArticle, needle string) bool {
	return strings.Contains(strings.ToLower(article.Title), needle) ||
		strings.Contains(strings.ToLower(article.Content), needle)
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
