package driving

import (
	"context"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
)

// ObservationService records and reads observations.
type ObservationService interface {
	// Record validates and stores an observation, creating its session row
	// if this is the first observation for the session. Returns the
	// datastore-assigned id.
	Record(ctx context.Context, o domain.Observation) (int64, error)

	// Get retrieves an observation by id.
	Get(ctx context.Context, id int64) (*domain.Observation, error)

	// List returns observations matching the filter, newest first.
	List(ctx context.Context, filter domain.ObservationFilter) ([]domain.Observation, error)

	// Recent returns the latest observations, optionally scoped to a
	// project. A non-positive limit uses a sensible default.
	Recent(ctx context.Context, project string, limit int) ([]domain.Observation, error)

	// EndSession closes a session, generating a summary when an LLM is
	// configured and none was supplied.
	EndSession(ctx context.Context, sessionID, summary string) (*domain.Session, error)

	// GetSession retrieves a session by id.
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
}
