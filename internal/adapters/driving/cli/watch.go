package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/newsearch/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the drop directory and ingest new article files",
	Long: `Watches the configured filesystem drop directory. Whenever article
files appear, the ingestion pipeline runs against the filesystem source.
Title deduplication makes repeated runs safe.

Runs until interrupted.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if services == nil || services.Watcher == nil {
		return errors.New("no drop directory configured")
	}
	if services.Ingestor == nil {
		return errors.New("ingestion service not configured")
	}

	ctx := cmd.Context()
	batches, err := services.Watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("starting watch: %w", err)
	}

	cmd.Printf("Watching for article drops (source %q). Ctrl-C to stop.\n", services.Watcher.Key())
	for range batches {
		summary, err := services.Ingestor.Ingest(ctx, services.Watcher.Key(), "")
		if err != nil {
			logger.Error("Watch ingest failed: %v", err)
			continue
		}
		cmd.Printf("Ingested %d new articles (%d fetched)\n", summary.Indexed, summary.Fetched)
	}
	return nil
}
