package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/keepsake-labs/recall-cli/internal/adapters/driving/watch"
)

var (
	importInbox string
	importSync  bool

	watchInbox   string
	watchArchive string
	watchSync    bool
)

var importCmd = &cobra.Command{
	Use:   "import [file...]",
	Short: "Import observation files",
	Long: `Imports JSONL observation files dropped by agent hooks.

Each line is one observation. Imported files are moved into the archive
directory next to the inbox. Lines that fail to parse are skipped and
counted; the rest are recorded.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the inbox directory and import continuously",
	Long: `Watches the inbox directory for observation files and imports them
as they appear. Existing files are imported on startup. Runs until
interrupted.`,
	RunE: runWatch,
}

func init() {
	importCmd.Flags().StringVar(&importInbox, "inbox", "", "inbox directory (archive is created next to it)")
	importCmd.Flags().BoolVar(&importSync, "sync", false, "sync pending observations after import")
	rootCmd.AddCommand(importCmd)

	watchCmd.Flags().StringVar(&watchInbox, "inbox", "", "inbox directory to watch")
	watchCmd.Flags().StringVar(&watchArchive, "archive", "", "archive directory (default inbox/archive)")
	watchCmd.Flags().BoolVar(&watchSync, "sync", true, "sync pending observations after each import")
	rootCmd.AddCommand(watchCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if observationService == nil {
		return errors.New("observation service not configured")
	}

	inbox := importInbox
	if inbox == "" {
		inbox = defaultInboxDir()
	}

	watcher, err := watch.NewWatcher(observationService, syncService, watch.Config{
		InboxDir:        inbox,
		SyncAfterImport: importSync,
	})
	if err != nil {
		return fmt.Errorf("failed to create importer: %w", err)
	}

	ctx := context.Background()
	totalRecorded, totalFailed := 0, 0
	for _, path := range args {
		result, err := watcher.ImportFile(ctx, path)
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", path, err)
		}
		cmd.Printf("%s: %d recorded, %d failed\n", path, result.Recorded, result.Failed)
		totalRecorded += result.Recorded
		totalFailed += result.Failed
	}

	cmd.Printf("Imported %d observation(s), %d line(s) failed.\n", totalRecorded, totalFailed)
	return nil
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if observationService == nil {
		return errors.New("observation service not configured")
	}

	inbox := watchInbox
	if inbox == "" {
		inbox = defaultInboxDir()
	}

	watcher, err := watch.NewWatcher(observationService, syncService, watch.Config{
		InboxDir:        inbox,
		ArchiveDir:      watchArchive,
		SyncAfterImport: watchSync,
	})
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	cmd.Printf("Watching %s for observation files. Ctrl+C to stop.\n", inbox)
	return watcher.Run(cmd.Context())
}

// defaultInboxDir is where agent hooks drop observation files when no
// inbox is given: ~/.recall/inbox.
func defaultInboxDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "inbox"
	}
	return filepath.Join(home, ".recall", "inbox")
}
