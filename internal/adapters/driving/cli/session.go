package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var sessionSummary string

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage agent sessions",
}

var sessionEndCmd = &cobra.Command{
	Use:   "end [session-id]",
	Short: "End a session",
	Long: `Ends a session. When no summary is given and an LLM provider is
configured, a closing summary is generated from the session's observations.`,
	Args: cobra.ExactArgs(1),
	RunE: runSessionEnd,
}

var sessionShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionShow,
}

func init() {
	sessionEndCmd.Flags().StringVar(&sessionSummary, "summary", "", "closing summary (generated when empty)")
	sessionCmd.AddCommand(sessionEndCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	rootCmd.AddCommand(sessionCmd)
}

func runSessionEnd(cmd *cobra.Command, args []string) error {
	if observationService == nil {
		return errors.New("observation service not configured")
	}

	session, err := observationService.EndSession(context.Background(), args[0], sessionSummary)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	cmd.Printf("Session %s ended.\n", session.ID)
	if session.Summary != "" {
		cmd.Printf("Summary: %s\n", session.Summary)
	}
	return nil
}

func runSessionShow(cmd *cobra.Command, args []string) error {
	if observationService == nil {
		return errors.New("observation service not configured")
	}

	session, err := observationService.GetSession(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	cmd.Printf("Session %s\n", session.ID)
	cmd.Printf("  Project: %s\n", session.Project)
	cmd.Printf("  Started: %s\n", formatEpoch(session.StartedAtEpoch))
	if session.Open() {
		cmd.Println("  Status:  open")
	} else {
		cmd.Printf("  Ended:   %s\n", formatEpoch(session.EndedAtEpoch))
	}
	if session.Summary != "" {
		cmd.Printf("  Summary: %s\n", session.Summary)
	}
	return nil
}

func formatEpoch(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(ms).Format(time.RFC3339)
}
