package driven

import (
	"context"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
)

// SessionStore persists sessions.
type SessionStore interface {
	// Save stores or updates a session.
	Save(ctx context.Context, s *domain.Session) error

	// Get retrieves a session by id.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// List returns sessions, newest first, optionally filtered by project.
	List(ctx context.Context, project string, limit int) ([]domain.Session, error)

	// Delete removes a session.
	Delete(ctx context.Context, id string) error
}
