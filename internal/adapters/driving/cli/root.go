// Package cli implements the recall command-line interface. It is a driving
// adapter: commands hold no business logic and delegate to core services
// through the driving ports.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/keepsake-labs/recall-cli/internal/core/ports/driving"
	"github.com/keepsake-labs/recall-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services wired in by the composition root before Execute.
var (
	observationService driving.ObservationService
	syncService        driving.SyncService
	searchService      driving.SearchService
	settingsService    driving.SettingsService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Local-first memory for AI coding agents",
	Long: `Recall records observations from agent sessions into a local store
and syncs them into an embedding index for semantic retrieval.

Run without arguments in a terminal to launch the interactive UI.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Bare invocation in a terminal launches the TUI.
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return runTUI(cmd, args)
		}
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices wires the core services into the command tree.
func SetServices(
	observation driving.ObservationService,
	syncSvc driving.SyncService,
	search driving.SearchService,
	settings driving.SettingsService,
) {
	observationService = observation
	syncService = syncSvc
	searchService = search
	settingsService = settings
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
