// Command newsearch ingests news articles into a vector index and serves
// semantic search over them, via CLI, TUI or HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/newsearch/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/newsearch/internal/adapters/driven/embedding/openai"
	kafkaevents "github.com/custodia-labs/newsearch/internal/adapters/driven/events/kafka"
	"github.com/custodia-labs/newsearch/internal/adapters/driven/storage/sqlite"
	vectormemory "github.com/custodia-labs/newsearch/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/newsearch/internal/adapters/driven/vector/qdrant"
	"github.com/custodia-labs/newsearch/internal/adapters/driving/api"
	"github.com/custodia-labs/newsearch/internal/adapters/driving/cli"
	"github.com/custodia-labs/newsearch/internal/chunkers/fixed"
	"github.com/custodia-labs/newsearch/internal/chunkers/semantic"
	"github.com/custodia-labs/newsearch/internal/cleaner"
	"github.com/custodia-labs/newsearch/internal/config"
	"github.com/custodia-labs/newsearch/internal/core/ports/driven"
	"github.com/custodia-labs/newsearch/internal/core/services"
	"github.com/custodia-labs/newsearch/internal/logger"
	"github.com/custodia-labs/newsearch/internal/providers/coreapi"
	"github.com/custodia-labs/newsearch/internal/providers/filesystem"
	"github.com/custodia-labs/newsearch/internal/providers/newsapi"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening article store: %w", err)
	}
	defer store.Close()

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}
	defer embedder.Close()

	index, err := buildIndex(cfg, embedder)
	if err != nil {
		return err
	}
	defer index.Close()

	strategy, err := buildStrategy(cfg, embedder)
	if err != nil {
		return err
	}

	providers, watcher, err := buildProviders(cfg)
	if err != nil {
		return err
	}

	ingestOpts := []services.IngestOption{services.WithWorkers(cfg.Workers)}
	if len(cfg.Events.Brokers) > 0 {
		publisher, err := kafkaevents.NewPublisher(kafkaevents.Config{
			Brokers: cfg.Events.Brokers,
			Topic:   cfg.Events.Topic,
		})
		if err != nil {
			return fmt.Errorf("creating event publisher: %w", err)
		}
		defer publisher.Close()
		ingestOpts = append(ingestOpts, services.WithEventPublisher(publisher))
	}

	ingestor := services.NewIngestionService(
		services.NewProviderRegistry(providers...),
		cleaner.New(),
		strategy,
		store,
		services.NewChunkIndexer(embedder, index),
		ingestOpts...,
	)
	searcher := services.NewSearchService(embedder, index, store)

	svc := &cli.Services{
		Ingestor: ingestor,
		Searcher: searcher,
		Watcher:  watcher,
		ServeFunc: func(cmd *cobra.Command) error {
			return serveHTTP(cmd.Context(), cfg, ingestor, searcher)
		},
	}
	cli.SetServices(svc)
	return cli.Execute()
}

func loadConfig() (*config.Config, error) {
	path := os.Getenv("NEWSEARCH_CONFIG")
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

func buildEmbedder(cfg *config.Config) (driven.EmbeddingService, error) {
	switch cfg.Embedding.Backend {
	case "openai":
		return openai.NewEmbeddingService(openai.Config{
			APIKey:  cfg.Embedding.APIKey,
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		})
	case "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding backend %q", cfg.Embedding.Backend)
	}
}

func buildIndex(cfg *config.Config, embedder driven.EmbeddingService) (driven.VectorIndex, error) {
	switch cfg.Vector.Backend {
	case "memory":
		return vectormemory.NewIndex(), nil
	case "qdrant":
		index := qdrant.NewIndex(qdrant.Config{
			BaseURL:    cfg.Vector.BaseURL,
			APIKey:     cfg.Vector.APIKey,
			Collection: cfg.Vector.Collection,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := index.EnsureCollection(ctx, embedder.Dimensions()); err != nil {
			return nil, err
		}
		return index, nil
	default:
		return nil, fmt.Errorf("unknown vector backend %q", cfg.Vector.Backend)
	}
}

func buildStrategy(cfg *config.Config, embedder driven.EmbeddingService) (driven.ChunkingStrategy, error) {
	switch cfg.Chunking.Strategy {
	case "fixed":
		return fixed.New(
			fixed.WithChunkSize(cfg.Chunking.ChunkSize),
			fixed.WithOverlap(cfg.Chunking.Overlap),
		), nil
	case "semantic":
		return semantic.New(embedder, semantic.WithPercentile(cfg.Chunking.Percentile)), nil
	default:
		return nil, fmt.Errorf("unknown chunking strategy %q", cfg.Chunking.Strategy)
	}
}

// buildProviders creates every provider that has credentials or a directory
// configured. The filesystem provider doubles as the watch source.
func buildProviders(cfg *config.Config) ([]driven.ArticleProvider, driven.WatchingProvider, error) {
	var providers []driven.ArticleProvider
	var watcher driven.WatchingProvider

	if cfg.Providers.NewsAPIKey != "" {
		p, err := newsapi.New(newsapi.Config{APIKey: cfg.Providers.NewsAPIKey})
		if err != nil {
			return nil, nil, err
		}
		providers = append(providers, p)
	}
	if cfg.Providers.CoreAPIKey != "" {
		p, err := coreapi.New(coreapi.Config{APIKey: cfg.Providers.CoreAPIKey})
		if err != nil {
			return nil, nil, err
		}
		providers = append(providers, p)
	}
	if cfg.Providers.DropDir != "" {
		p, err := filesystem.New(cfg.Providers.DropDir)
		if err != nil {
			return nil, nil, err
		}
		providers = append(providers, p)
		watcher = p
	}

	if len(providers) == 0 {
		logger.Warn("No article providers configured; ingestion will have no sources")
	}
	return providers, watcher, nil
}

// serveHTTP runs the API until the context is cancelled or an interrupt
// arrives, then shuts down gracefully.
func serveHTTP(ctx context.Context, cfg *config.Config, ingestor *services.IngestionService, searcher *services.SearchService) error {
	server := api.NewServer(api.Config{
		Addr:           cfg.Server.Addr,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
	}, ingestor, searcher)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
