package driven

import (
	"context"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
)

// ObservationStore persists observations.
// Backed by SQLite for local storage.
type ObservationStore interface {
	// Insert stores a new observation and returns its assigned id.
	Insert(ctx context.Context, o *domain.Observation) (int64, error)

	// GetByID retrieves a single observation.
	// Returns domain.ErrNotFound if it does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Observation, error)

	// GetByIDs retrieves all observations matching the given ids in one
	// round trip. Missing ids are omitted from the result, never errors.
	// The filter further narrows which of the matched rows are returned.
	GetByIDs(ctx context.Context, ids []int64, filter domain.ObservationFilter) ([]domain.Observation, error)

	// List returns observations matching the filter, newest first.
	List(ctx context.Context, filter domain.ObservationFilter) ([]domain.Observation, error)

	// SearchKeyword returns observations whose title, narrative, or facts
	// match the query terms, newest first.
	SearchKeyword(ctx context.Context, query string, filter domain.ObservationFilter) ([]domain.Observation, error)

	// CountBySession returns how many observations a session holds.
	CountBySession(ctx context.Context, sessionID string) (int, error)

	// Delete removes an observation.
	Delete(ctx context.Context, id int64) error
}
