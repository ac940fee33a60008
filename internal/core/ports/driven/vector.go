package driven

import "context"

// VectorStore provides vector persistence and similarity search.
// Backed by a Qdrant collection reached over gRPC.
type VectorStore interface {
	// Upsert inserts or replaces points. Point ids are observation ids, so
	// re-upserting an observation overwrites its previous vector.
	Upsert(ctx context.Context, points []VectorPoint) error

	// Search finds the limit nearest neighbours to the query vector.
	Search(ctx context.Context, query []float32, limit int) ([]VectorHit, error)

	// Delete removes points by observation id.
	Delete(ctx context.Context, ids []int64) error

	// Ping validates the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the connection.
	Close() error
}

// VectorPoint is one vector with its payload, keyed by observation id.
type VectorPoint struct {
	// ID is the observation id the vector belongs to.
	ID int64

	// Vector is the embedding.
	Vector []float32

	// Payload carries display fields stored alongside the vector.
	Payload map[string]string
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ID is the matched observation id.
	ID int64

	// Score is the cosine similarity score (0-1).
	Score float64

	// Payload carries the stored display fields.
	Payload map[string]string
}
