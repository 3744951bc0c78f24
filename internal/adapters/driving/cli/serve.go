package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Starts the HTTP API exposing ingestion and search:

  GET /health
  GET /api/v1/articles/{source}?q=<query>
  GET /api/v1/search?q=<query>&k=<limit>`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if services == nil || services.ServeFunc == nil {
			return errors.New("HTTP server not configured")
		}
		return services.ServeFunc(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
