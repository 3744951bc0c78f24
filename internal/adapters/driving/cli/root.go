// Package cli wires the driving ports into cobra commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/newsearch/internal/core/ports/driven"
	"github.com/custodia-labs/newsearch/internal/core/ports/driving"
	"github.com/custodia-labs/newsearch/internal/logger"
)

// Services holds the wired services the commands operate on. The composition
// root builds it once and hands it to SetServices before Execute.
type Services struct {
	Ingestor driving.Ingestor
	Searcher driving.Searcher

	// Watcher is the push-capable provider used by the watch command,
	// nil when no drop directory is configured.
	Watcher driven.WatchingProvider

	// ServeFunc starts the HTTP API and blocks until shutdown.
	ServeFunc func(cmd *cobra.Command) error
}

var (
	services *Services
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "newsearch",
	Short: "Ingest news articles and search them semantically",
	Long: `newsearch fetches articles from configured providers, cleans and
chunks their content, indexes chunk embeddings in a vector index and serves
semantic search over the result.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

// SetServices injects the wired services used by all commands.
func SetServices(s *Services) {
	services = s
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
