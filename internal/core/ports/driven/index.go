package driven

import (
	"context"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
)

// EmbeddingIndex is the embedding subsystem: it turns normalized documents
// into vectors and makes them searchable. This is an optional service - when
// nil, sync requests fail cleanly and search degrades to keyword mode.
//
// The default implementation composes an EmbeddingService with a VectorStore;
// callers only see this boundary.
type EmbeddingIndex interface {
	// SyncDocuments upserts a batch of normalized documents and returns how
	// many were successfully embedded. Upserts are idempotent per document
	// id: re-syncing an id updates its point rather than duplicating it.
	// A count lower than len(docs) is a normal outcome; only a failure of
	// the call as a whole is an error.
	SyncDocuments(ctx context.Context, docs []domain.SearchDocument) (int, error)

	// Search embeds the query and returns the closest observation ids with
	// similarity scores, best first.
	Search(ctx context.Context, query string, limit int) ([]IndexHit, error)

	// RemoveByIDs deletes documents from the index.
	RemoveByIDs(ctx context.Context, ids []int64) error

	// Ping validates that both the embedding provider and the vector store
	// are reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// IndexHit represents a similarity search result from the embedding index.
type IndexHit struct {
	// ObservationID is the matched observation.
	ObservationID int64

	// Score is the cosine similarity score (0-1, higher is closer).
	Score float64
}
