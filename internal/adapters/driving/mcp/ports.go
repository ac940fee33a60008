package mcp

import (
	"github.com/keepsake-labs/recall-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Observation records and reads observations.
	Observation driving.ObservationService

	// Sync pushes observations into the embedding index on demand.
	Sync driving.SyncService

	// Search provides search over recorded observations.
	Search driving.SearchService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Observation == nil {
		return ErrMissingObservationService
	}
	// Sync and Search degrade per tool: their tools report a structured
	// failure when the service is absent.
	return nil
}
