// Command recall is the entry point for the recall CLI.
// It wires the driven adapters into the core services and hands the
// assembled services to the command tree.
package main

import (
	"fmt"
	"os"

	"github.com/keepsake-labs/recall-cli/internal/adapters/driven/ai"
	configfile "github.com/keepsake-labs/recall-cli/internal/adapters/driven/config/file"
	"github.com/keepsake-labs/recall-cli/internal/adapters/driven/storage/sqlite"
	"github.com/keepsake-labs/recall-cli/internal/adapters/driving/cli"
	"github.com/keepsake-labs/recall-cli/internal/core/services"
	"github.com/keepsake-labs/recall-cli/internal/logger"
)

// version is injected at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	aiResult := ai.Initialise(*settings)
	defer aiResult.Close()
	for _, warning := range aiResult.Warnings {
		logger.Warn("%s", warning)
	}

	observationService := services.NewObservationService(
		store.ObservationStore(), store.SessionStore(), aiResult.LLMService)
	syncService := services.NewSyncService(
		store.ObservationStore(), aiResult.Index, store.SyncStateStore())
	searchService := services.NewSearchService(
		store.ObservationStore(), aiResult.Index, aiResult.LLMService, settings.Search.Mode)

	cli.SetServices(observationService, syncService, searchService, settingsService)
	cli.SetVersion(version)

	return cli.Execute()
}
