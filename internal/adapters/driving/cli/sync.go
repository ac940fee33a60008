package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
)

var syncProject string

var syncCmd = &cobra.Command{
	Use:   "sync [id...]",
	Short: "Sync observations into the embedding index",
	Long: `Pushes stored observations into the embedding index.

With ids, only those observations are synced. Without ids, all observations
not yet embedded are swept, optionally scoped to one project.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVarP(&syncProject, "project", "p", "", "scope the pending sweep to one project")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncService == nil {
		return errors.New("sync service not configured")
	}

	ctx := context.Background()

	var result *domain.SyncResult
	if len(args) > 0 {
		ids := make([]int64, 0, len(args))
		for _, arg := range args {
			id, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid observation id %q", arg)
			}
			ids = append(ids, id)
		}

		cmd.Printf("Syncing %d observation(s)...\n", len(ids))
		var err error
		result, err = syncService.SyncObservations(ctx, ids)
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
	} else {
		if syncProject != "" {
			cmd.Printf("Syncing pending observations for project %s...\n", syncProject)
		} else {
			cmd.Println("Syncing pending observations...")
		}
		var err error
		result, err = syncService.SyncPending(ctx, syncProject)
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
	}

	cmd.Printf("Embedded %d of %d fetched (%d requested).\n",
		result.Embedded, result.Fetched, result.Requested)
	if result.Note != "" {
		cmd.Printf("Note: %s\n", result.Note)
	}

	return nil
}
