package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
)

var (
	searchLimit   int
	searchProject string
	searchJSON    bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search recorded observations",
	Long: `Searches observations using the configured retrieval mode.
Semantic and hybrid modes use the embedding index; keyword mode matches
against the local store and needs no providers.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().StringVarP(&searchProject, "project", "p", "", "restrict to one project")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	ctx := context.Background()
	opts := domain.SearchOptions{
		Limit:   searchLimit,
		Project: searchProject,
	}

	results, err := searchService.Search(ctx, query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		obs := &results[i].Observation
		cmd.Printf("  [%d] #%d %s (%.2f)\n", i+1, obs.ID, obs.Title, results[i].Score)
		cmd.Printf("      %s · %s · %s\n", obs.Type, obs.Project, obs.CreatedAt)
		if len(results[i].Highlights) > 0 {
			cmd.Printf("      %s\n", results[i].Highlights[0])
		}
		cmd.Println()
	}

	return nil
}
