package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/keepsake-labs/recall-cli/internal/adapters/driving/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts an HTTP server exposing observations, sync, and search.

Endpoints:
  POST /api/observations     record an observation
  GET  /api/observations/{id} fetch an observation
  POST /api/sync             sync observations by id
  GET  /api/search           search observations
  GET  /healthz              liveness check`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":7777", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if observationService == nil && syncService == nil && searchService == nil {
		return errors.New("no services configured")
	}

	server := httpapi.NewServer(observationService, syncService, searchService)
	cmd.Printf("HTTP API listening on %s\n", serveAddr)
	return server.Run(cmd.Context(), serveAddr)
}
