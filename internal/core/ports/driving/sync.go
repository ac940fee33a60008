package driving

import (
	"context"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
)

// SyncService pushes stored observations into the embedding index on demand.
type SyncService interface {
	// SyncObservations fetches the observations with the given ids in one
	// bulk read, normalizes them, and upserts them into the embedding index
	// in one batch call. ids must be non-empty with positive values, or the
	// call fails with domain.ErrInvalidInput before touching any collaborator.
	// Asking for ids that do not exist is harmless: the result reports zero.
	SyncObservations(ctx context.Context, ids []int64) (*domain.SyncResult, error)

	// SyncPending finds observations not yet embedded, runs them through
	// SyncObservations in batches, and records the embedded ids. project
	// optionally scopes the sweep.
	SyncPending(ctx context.Context, project string) (*domain.SyncResult, error)
}
