package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
)

var (
	observeSession       string
	observeProject       string
	observeType          string
	observeSubtitle      string
	observeNarrative     string
	observeFacts         []string
	observeConcepts      []string
	observeFilesRead     []string
	observeFilesModified []string

	observeListProject string
	observeListSession string
	observeListType    string
	observeListLimit   int
)

var observeCmd = &cobra.Command{
	Use:   "observe [title]",
	Short: "Record an observation",
	Long: `Records an observation into the local store.

Observations capture what an agent learned, decided, or did during a
session. A session id is generated when none is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runObserve,
}

var observeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded observations",
	RunE:  runObserveList,
}

var observeShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one observation in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runObserveShow,
}

func init() {
	observeCmd.Flags().StringVarP(&observeSession, "session", "s", "", "session id (generated when empty)")
	observeCmd.Flags().StringVarP(&observeProject, "project", "p", "", "project label")
	observeCmd.Flags().StringVarP(&observeType, "type", "t", "", "observation type (discovery, decision, action, note)")
	observeCmd.Flags().StringVar(&observeSubtitle, "subtitle", "", "optional subtitle")
	observeCmd.Flags().StringVarP(&observeNarrative, "narrative", "n", "", "free-text account")
	observeCmd.Flags().StringArrayVar(&observeFacts, "fact", nil, "discrete fact (repeatable)")
	observeCmd.Flags().StringArrayVar(&observeConcepts, "concept", nil, "topic label (repeatable)")
	observeCmd.Flags().StringArrayVar(&observeFilesRead, "file-read", nil, "file consulted (repeatable)")
	observeCmd.Flags().StringArrayVar(&observeFilesModified, "file-modified", nil, "file changed (repeatable)")

	observeListCmd.Flags().StringVarP(&observeListProject, "project", "p", "", "filter by project")
	observeListCmd.Flags().StringVarP(&observeListSession, "session", "s", "", "filter by session")
	observeListCmd.Flags().StringVarP(&observeListType, "type", "t", "", "filter by type")
	observeListCmd.Flags().IntVarP(&observeListLimit, "limit", "l", 20, "maximum rows")

	observeCmd.AddCommand(observeListCmd)
	observeCmd.AddCommand(observeShowCmd)
	rootCmd.AddCommand(observeCmd)
}

func runObserve(cmd *cobra.Command, args []string) error {
	if observationService == nil {
		return errors.New("observation service not configured")
	}

	sessionID := observeSession
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	obs := domain.Observation{
		SessionID:     sessionID,
		Project:       observeProject,
		Type:          domain.ObservationType(observeType),
		Title:         args[0],
		Subtitle:      observeSubtitle,
		Narrative:     observeNarrative,
		Facts:         domain.NewFlexList(observeFacts...),
		Concepts:      domain.NewFlexList(observeConcepts...),
		FilesRead:     domain.NewFlexList(observeFilesRead...),
		FilesModified: domain.NewFlexList(observeFilesModified...),
	}

	id, err := observationService.Record(context.Background(), obs)
	if err != nil {
		return fmt.Errorf("failed to record observation: %w", err)
	}

	cmd.Printf("Recorded observation %d (session %s)\n", id, sessionID)
	return nil
}

func runObserveList(cmd *cobra.Command, _ []string) error {
	if observationService == nil {
		return errors.New("observation service not configured")
	}

	filter := domain.ObservationFilter{
		Project:   observeListProject,
		SessionID: observeListSession,
		Type:      domain.ObservationType(observeListType),
		Limit:     observeListLimit,
	}

	observations, err := observationService.List(context.Background(), filter)
	if err != nil {
		return fmt.Errorf("failed to list observations: %w", err)
	}

	if len(observations) == 0 {
		cmd.Println("No observations found.")
		return nil
	}

	for i := range observations {
		o := &observations[i]
		cmd.Printf("  [%d] (%s) %s\n", o.ID, o.Type, o.Title)
		cmd.Printf("      project: %s  session: %s  %s\n", o.Project, o.SessionID, o.CreatedAt)
	}

	return nil
}

func runObserveShow(cmd *cobra.Command, args []string) error {
	if observationService == nil {
		return errors.New("observation service not configured")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid observation id %q", args[0])
	}

	obs, err := observationService.Get(context.Background(), id)
	if err != nil {
		return fmt.Errorf("failed to get observation: %w", err)
	}

	cmd.Printf("Observation %d\n", obs.ID)
	cmd.Printf("  Title:     %s\n", obs.Title)
	if obs.Subtitle != "" {
		cmd.Printf("  Subtitle:  %s\n", obs.Subtitle)
	}
	cmd.Printf("  Type:      %s\n", obs.Type)
	cmd.Printf("  Project:   %s\n", obs.Project)
	cmd.Printf("  Session:   %s\n", obs.SessionID)
	cmd.Printf("  Created:   %s\n", obs.CreatedAt)
	if obs.Narrative != "" {
		cmd.Printf("  Narrative: %s\n", obs.Narrative)
	}
	cmd.Printf("  Facts:     %s\n", obs.Facts.Serialized())
	cmd.Printf("  Concepts:  %s\n", obs.Concepts.Serialized())
	cmd.Printf("  Read:      %s\n", obs.FilesRead.Serialized())
	cmd.Printf("  Modified:  %s\n", obs.FilesModified.Serialized())

	return nil
}
