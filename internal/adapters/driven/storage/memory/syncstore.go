package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
	"github.com/keepsake-labs/recall-cli/internal/core/ports/driven"
)

// Ensure SyncStateStore implements the interface.
var _ driven.SyncStateStore = (*SyncStateStore)(nil)

// SyncStateStore is an in-memory implementation of driven.SyncStateStore.
// Pending ids are derived from the observation store it wraps, mirroring the
// SQLite implementation's join against the observations table.
type SyncStateStore struct {
	mu           sync.RWMutex
	embedded     map[int64]int64 // observation id -> embedded at epoch ms
	observations *ObservationStore
}

// NewSyncStateStore creates a new in-memory sync state store backed by the
// given observation store.
func NewSyncStateStore(observations *ObservationStore) *SyncStateStore {
	return &SyncStateStore{
		embedded:     make(map[int64]int64),
		observations: observations,
	}
}

// MarkEmbedded records that the given observations were embedded.
func (s *SyncStateStore) MarkEmbedded(_ context.Context, ids []int64, embeddedAtEpoch int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.embedded[id] = embeddedAtEpoch
	}
	return nil
}

// PendingIDs returns ids of observations with no embedded record, oldest first.
func (s *SyncStateStore) PendingIDs(ctx context.Context, project string, limit int) ([]int64, error) {
	all, err := s.observations.List(ctx, domain.ObservationFilter{Project: project})
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	pending := make([]int64, 0, len(all))
	for _, o := range all {
		if _, ok := s.embedded[o.ID]; !ok {
			pending = append(pending, o.ID)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i] < pending[j] })
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

// LastEmbeddedAt returns the most recent embedded epoch, or 0 when none.
func (s *SyncStateStore) LastEmbeddedAt(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var last int64
	for _, at := range s.embedded {
		if at > last {
			last = at
		}
	}
	return last, nil
}

// Clear removes embedded records for the given ids.
func (s *SyncStateStore) Clear(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.embedded, id)
	}
	return nil
}
