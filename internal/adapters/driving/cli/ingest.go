package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [source] [query]",
	Short: "Fetch, clean and index articles from a source",
	Long: `Runs the full ingestion pipeline for one source: fetch articles
matching the query, drop known titles, clean the content, persist metadata
and index chunk embeddings.

Use "newsearch sources" to list the available source keys.`,
	Args: cobra.ExactArgs(2),
	RunE: runIngest,
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured article sources",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if services == nil || services.Ingestor == nil {
			return errors.New("ingestion service not configured")
		}
		for _, key := range services.Ingestor.Sources() {
			cmd.Println(key)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(sourcesCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if services == nil || services.Ingestor == nil {
		return errors.New("ingestion service not configured")
	}

	source, query := args[0], args[1]
	summary, err := services.Ingestor.Ingest(cmd.Context(), source, query)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Fetched:   %d\n", summary.Fetched)
	cmd.Printf("New:       %d\n", summary.New)
	cmd.Printf("Cleaned:   %d\n", summary.Cleaned)
	cmd.Printf("Persisted: %d\n", summary.Persisted)
	cmd.Printf("Indexed:   %d\n", summary.Indexed)
	if summary.Message != "" {
		cmd.Println(summary.Message)
	}
	return nil
}
