package driving

import (
	"context"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
)

// SearchService provides search over recorded observations.
type SearchService interface {
	// Search runs the configured retrieval mode for the query, degrading to
	// keyword matching when the embedding index is unavailable.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
