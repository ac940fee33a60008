package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for Recall resources.
	uriScheme = "recall://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for recent observations.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "observations",
		Name:        "observations",
		Description: "Recently recorded observations, newest first",
		MIMEType:    "application/json",
	}, s.handleObservationsResource)

	// Template for a single observation.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "observations/{observationId}",
		Name:        "observation",
		Description: "A single recorded observation",
		MIMEType:    "application/json",
	}, s.handleObservationResource)

	// Template for a session.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sessions/{sessionId}",
		Name:        "session",
		Description: "A recorded agent session",
		MIMEType:    "application/json",
	}, s.handleSessionResource)
}

// observationInfo is the JSON shape resources render observations into.
type observationInfo struct {
	ID        int64    `json:"id"`
	SessionID string   `json:"session_id"`
	Project   string   `json:"project"`
	Type      string   `json:"type"`
	Title     string   `json:"title"`
	Subtitle  string   `json:"subtitle,omitempty"`
	Narrative string   `json:"narrative,omitempty"`
	Facts     []string `json:"facts,omitempty"`
	Concepts  []string `json:"concepts,omitempty"`
	CreatedAt string   `json:"created_at"`
}

func toObservationInfo(o domain.Observation) observationInfo {
	return observationInfo{
		ID:        o.ID,
		SessionID: o.SessionID,
		Project:   o.Project,
		Type:      string(o.Type),
		Title:     o.Title,
		Subtitle:  o.Subtitle,
		Narrative: o.Narrative,
		Facts:     o.Facts.Items(),
		Concepts:  o.Concepts.Items(),
		CreatedAt: o.CreatedAt,
	}
}

// handleObservationsResource returns recently recorded observations.
func (s *Server) handleObservationsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	observations, err := s.ports.Observation.List(ctx, domain.ObservationFilter{Limit: 50})
	if err != nil {
		return nil, fmt.Errorf("listing observations: %w", err)
	}

	infos := make([]observationInfo, len(observations))
	for i := range observations {
		infos[i] = toObservationInfo(observations[i])
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling observations: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleObservationResource returns one observation by id.
func (s *Server) handleObservationResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract the id from a URI like recall://observations/{observationId}
	id := extractObservationID(req.Params.URI)
	if id == 0 {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	observation, err := s.ports.Observation.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("getting observation: %w", err)
	}

	data, err := json.MarshalIndent(toObservationInfo(*observation), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling observation: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleSessionResource returns one session by id.
func (s *Server) handleSessionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract the id from a URI like recall://sessions/{sessionId}
	sessionID := extractSessionID(req.Params.URI)
	if sessionID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	session, err := s.ports.Observation.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("getting session: %w", err)
	}

	info := struct {
		ID             string `json:"id"`
		Project        string `json:"project"`
		StartedAtEpoch int64  `json:"started_at_epoch"`
		EndedAtEpoch   int64  `json:"ended_at_epoch,omitempty"`
		Summary        string `json:"summary,omitempty"`
	}{
		ID:             session.ID,
		Project:        session.Project,
		StartedAtEpoch: session.StartedAtEpoch,
		EndedAtEpoch:   session.EndedAtEpoch,
		Summary:        session.Summary,
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling session: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractObservationID extracts the numeric id from a URI like
// recall://observations/{observationId}. Returns 0 when the URI does not match.
func extractObservationID(uri string) int64 {
	const prefix = uriScheme + "observations/"

	if !strings.HasPrefix(uri, prefix) {
		return 0
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(uri, prefix), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// extractSessionID extracts the session id from a URI like recall://sessions/{sessionId}.
func extractSessionID(uri string) string {
	const prefix = uriScheme + "sessions/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
