package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
)

// ObserveInput is the input schema for the recall_observe tool.
type ObserveInput struct {
	SessionID       string   `json:"session_id" jsonschema:"identifier of the agent session recording this observation"`
	Project         string   `json:"project,omitempty" jsonschema:"project label the session runs against"`
	Type            string   `json:"type,omitempty" jsonschema:"observation type: discovery, decision, action or note"`
	Title           string   `json:"title" jsonschema:"short summary of the observation"`
	Subtitle        string   `json:"subtitle,omitempty" jsonschema:"optional refinement of the title"`
	Narrative       string   `json:"narrative,omitempty" jsonschema:"free-text account of what happened"`
	Facts           []string `json:"facts,omitempty" jsonschema:"discrete statements extracted from the narrative"`
	Concepts        []string `json:"concepts,omitempty" jsonschema:"topic labels for retrieval"`
	FilesRead       []string `json:"files_read,omitempty" jsonschema:"files consulted while the observation formed"`
	FilesModified   []string `json:"files_modified,omitempty" jsonschema:"files changed while the observation formed"`
	PromptNumber    int      `json:"prompt_number,omitempty" jsonschema:"ordinal of the prompt within the session"`
	DiscoveryTokens int      `json:"discovery_tokens,omitempty" jsonschema:"tokens spent reaching the observation"`
}

// ObserveOutput is the output schema for the recall_observe tool.
type ObserveOutput struct {
	ID int64 `json:"id"`
}

// SyncInput is the input schema for the recall_sync tool.
type SyncInput struct {
	IDs []int64 `json:"ids" jsonschema:"observation ids to push into the embedding index"`
}

// SyncOutput is the output schema for the recall_sync tool. Failures are
// reported structurally rather than as protocol errors so callers always get
// a parseable result.
type SyncOutput struct {
	Success  bool   `json:"success"`
	Embedded int    `json:"embedded"`
	Fetched  int    `json:"fetched,omitempty"`
	Note     string `json:"note,omitempty"`
	Error    string `json:"error,omitempty"`
}

// SearchInput is the input schema for the recall_search tool.
type SearchInput struct {
	Query   string `json:"query" jsonschema:"the search query over recorded observations"`
	Project string `json:"project,omitempty" jsonschema:"restrict hits to one project label"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the recall_search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ObservationID int64    `json:"observation_id"`
	SessionID     string   `json:"session_id"`
	Project       string   `json:"project"`
	Type          string   `json:"type"`
	Title         string   `json:"title"`
	Score         float64  `json:"score"`
	Highlights    []string `json:"highlights,omitempty"`
	Narrative     string   `json:"narrative,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "recall_observe",
		Description: "Record an observation into the agent's memory",
	}, s.handleObserve)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "recall_sync",
		Description: "Push specific observations into the embedding index so they become searchable",
	}, s.handleSync)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "recall_search",
		Description: "Search recorded observations",
	}, s.handleSearch)
}

// handleObserve handles the recall_observe tool invocation.
func (s *Server) handleObserve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ObserveInput,
) (*mcp.CallToolResult, ObserveOutput, error) {
	o := domain.Observation{
		SessionID:       input.SessionID,
		Project:         input.Project,
		Type:            domain.ObservationType(input.Type),
		Title:           input.Title,
		Subtitle:        input.Subtitle,
		Narrative:       input.Narrative,
		Facts:           domain.NewFlexList(input.Facts...),
		Concepts:        domain.NewFlexList(input.Concepts...),
		FilesRead:       domain.NewFlexList(input.FilesRead...),
		FilesModified:   domain.NewFlexList(input.FilesModified...),
		PromptNumber:    input.PromptNumber,
		DiscoveryTokens: input.DiscoveryTokens,
	}

	id, err := s.ports.Observation.Record(ctx, o)
	if err != nil {
		return nil, ObserveOutput{}, err
	}

	return nil, ObserveOutput{ID: id}, nil
}

// handleSync handles the recall_sync tool invocation. Service errors are
// folded into the structured output: the sync boundary distinguishes success
// by flag, not by transport status.
func (s *Server) handleSync(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SyncInput,
) (*mcp.CallToolResult, SyncOutput, error) {
	if s.ports.Sync == nil {
		return nil, SyncOutput{Error: "sync service not configured"}, nil
	}

	result, err := s.ports.Sync.SyncObservations(ctx, input.IDs)
	if err != nil {
		return nil, SyncOutput{Error: err.Error()}, nil
	}

	return nil, SyncOutput{
		Success:  true,
		Embedded: result.Embedded,
		Fetched:  result.Fetched,
		Note:     result.Note,
	}, nil
}

// handleSearch handles the recall_search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	if s.ports.Search == nil {
		return nil, SearchOutput{}, domain.ErrNotImplemented
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	opts := domain.SearchOptions{Limit: limit, Project: input.Project}
	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		o := results[i].Observation
		output.Results[i] = SearchResultOutput{
			ObservationID: o.ID,
			SessionID:     o.SessionID,
			Project:       o.Project,
			Type:          string(o.Type),
			Title:         o.Title,
			Score:         results[i].Score,
			Highlights:    results[i].Highlights,
			Narrative:     o.Narrative,
		}
	}

	return nil, output, nil
}
