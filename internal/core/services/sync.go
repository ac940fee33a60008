package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
	"github.com/keepsake-labs/recall-cli/internal/core/ports/driven"
	"github.com/keepsake-labs/recall-cli/internal/core/ports/driving"
	"github.com/keepsake-labs/recall-cli/internal/logger"
)

// Ensure SyncService implements the interface.
var _ driving.SyncService = (*SyncService)(nil)

// sweepBatchSize caps how many pending observations one sweep iteration syncs.
const sweepBatchSize = 100

// SyncService pushes stored observations into the embedding index.
type SyncService struct {
	store driven.ObservationStore
	index driven.EmbeddingIndex

	// syncState is only consulted by the pending sweep; the request-driven
	// path never reads or writes it.
	syncState driven.SyncStateStore

	mu       sync.Mutex
	sweeping bool
}

// NewSyncService creates a new sync service. The index is optional - if nil,
// sync requests fail cleanly with domain.ErrEmbeddingUnavailable. syncState
// may be nil when the pending sweep is not used.
func NewSyncService(
	store driven.ObservationStore,
	index driven.EmbeddingIndex,
	syncState driven.SyncStateStore,
) *SyncService {
	return &SyncService{
		store:     store,
		index:     index,
		syncState: syncState,
	}
}

// SyncObservations fetches the observations with the given ids, normalizes
// them, and upserts them into the embedding index. The pipeline is strictly
// sequential with no retries: validate, fetch once, transform, delegate once,
// report. Asking for ids that do not exist is harmless and reports zero.
func (s *SyncService) SyncObservations(ctx context.Context, ids []int64) (*domain.SyncResult, error) {
	// 1. Validate before any collaborator is touched. Duplicates pass
	// through unmodified; deduplication is the store's concern.
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: ids must be a non-empty list", domain.ErrInvalidInput)
	}
	for _, id := range ids {
		if id <= 0 {
			return nil, fmt.Errorf("%w: ids must be positive, got %d", domain.ErrInvalidInput, id)
		}
	}
	if s.index == nil {
		return nil, fmt.Errorf("sync observations: %w", domain.ErrEmbeddingUnavailable)
	}

	logger.Debug("Sync requested for %d ids", len(ids))

	// 2. Fetch everything in one bulk read. Missing ids are omitted by the
	// store, never errors.
	observations, err := s.store.GetByIDs(ctx, ids, domain.ObservationFilter{})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLookupFailed, err)
	}

	result := &domain.SyncResult{
		Requested: len(ids),
		Fetched:   len(observations),
	}

	// 3. Zero matches is a valid, harmless request.
	if len(observations) == 0 {
		result.Note = "no matching observations found"
		logger.Info("Sync complete: no matching observations for %d ids", len(ids))
		return result, nil
	}

	// 4. Transform every record. Normalization is total over the stored
	// shape, so this loop cannot fail.
	docs := make([]domain.SearchDocument, 0, len(observations))
	for _, o := range observations {
		docs = append(docs, domain.NormalizeObservation(o))
	}

	// 5. Delegate the full batch in one call. The index decides internally
	// how many documents succeed.
	embedded, err := s.index.SyncDocuments(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDelegationFailed, err)
	}

	// 6. Report the index's count. A shortfall is a normal outcome the
	// caller can inspect and act on.
	result.Embedded = embedded
	if embedded < result.Fetched {
		result.Note = fmt.Sprintf("embedded %d of %d fetched observations", embedded, result.Fetched)
	}

	logger.Info("Sync complete: %d fetched, %d embedded", result.Fetched, result.Embedded)
	return result, nil
}

// SyncPending sweeps observations that have no embedded record yet through
// the same pipeline, in batches, then marks the swept ids. Only one sweep
// runs at a time.
func (s *SyncService) SyncPending(ctx context.Context, project string) (*domain.SyncResult, error) {
	if s.syncState == nil {
		return nil, fmt.Errorf("sync pending: sync state store not configured")
	}

	s.mu.Lock()
	if s.sweeping {
		s.mu.Unlock()
		return nil, domain.ErrSyncInProgress
	}
	s.sweeping = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.sweeping = false
		s.mu.Unlock()
	}()

	total := &domain.SyncResult{}
	for {
		ids, err := s.syncState.PendingIDs(ctx, project, sweepBatchSize)
		if err != nil {
			return nil, fmt.Errorf("list pending: %w", err)
		}
		if len(ids) == 0 {
			break
		}

		result, err := s.SyncObservations(ctx, ids)
		if err != nil {
			return nil, err
		}
		total.Requested += result.Requested
		total.Fetched += result.Fetched
		total.Embedded += result.Embedded

		// Swept ids are marked whether or not the index embedded them all.
		// Upserts are idempotent, so a shortfall can be re-pushed explicitly
		// without the sweep spinning on it.
		if err := s.syncState.MarkEmbedded(ctx, ids, time.Now().UnixMilli()); err != nil {
			return nil, fmt.Errorf("mark embedded: %w", err)
		}
	}

	if total.Requested == 0 {
		total.Note = "nothing pending"
	}
	logger.Info("Pending sweep complete: %d swept, %d embedded", total.Fetched, total.Embedded)
	return total, nil
}
