// Package tui provides the interactive terminal interface for Recall.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/keepsake-labs/recall-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides search over recorded observations.
	Search driving.SearchService

	// Sync re-pushes observations into the embedding index. Optional: the
	// sync keybinding reports unavailability when nil.
	Sync driving.SyncService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
