package driven

import (
	"context"
)

// SyncStateStore records which observations have been embedded.
// Only the pending sweep writes here; the request-driven sync flow reads
// and writes nothing beyond its own datastore read and index upsert.
type SyncStateStore interface {
	// MarkEmbedded records that the given observations were embedded at
	// the given epoch milliseconds.
	MarkEmbedded(ctx context.Context, ids []int64, embeddedAtEpoch int64) error

	// PendingIDs returns ids of observations with no embedded record yet,
	// oldest first, optionally scoped to a project. limit caps the batch;
	// 0 means no cap.
	PendingIDs(ctx context.Context, project string, limit int) ([]int64, error)

	// LastEmbeddedAt returns the most recent embedded epoch, or 0 when
	// nothing has been embedded yet.
	LastEmbeddedAt(ctx context.Context) (int64, error)

	// Clear removes embedded records for the given ids, returning them to
	// the pending set.
	Clear(ctx context.Context, ids []int64) error
}
