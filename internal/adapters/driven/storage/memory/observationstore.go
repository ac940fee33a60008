package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
	"github.com/keepsake-labs/recall-cli/internal/core/ports/driven"
)

// Ensure ObservationStore implements the interface.
var _ driven.ObservationStore = (*ObservationStore)(nil)

// ObservationStore is an in-memory implementation of driven.ObservationStore.
type ObservationStore struct {
	mu           sync.RWMutex
	observations map[int64]domain.Observation
	nextID       int64
}

// NewObservationStore creates a new in-memory observation store.
func NewObservationStore() *ObservationStore {
	return &ObservationStore{
		observations: make(map[int64]domain.Observation),
		nextID:       1,
	}
}

// Insert stores a new observation and returns its assigned id.
func (s *ObservationStore) Insert(_ context.Context, o *domain.Observation) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	stored := *o
	stored.ID = id
	s.observations[id] = stored
	o.ID = id
	return id, nil
}

// GetByID retrieves a single observation.
func (s *ObservationStore) GetByID(_ context.Context, id int64) (*domain.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.observations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

// GetByIDs retrieves all observations matching the given ids in one pass.
// Missing ids are omitted. Duplicate ids yield one row each.
func (s *ObservationStore) GetByIDs(_ context.Context, ids []int64, filter domain.ObservationFilter) ([]domain.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int64]bool, len(ids))
	result := make([]domain.Observation, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		o, ok := s.observations[id]
		if !ok || !matchesFilter(o, filter) {
			continue
		}
		result = append(result, o)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// List returns observations matching the filter, newest first.
func (s *ObservationStore) List(_ context.Context, filter domain.ObservationFilter) ([]domain.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Observation, 0, len(s.observations))
	for _, o := range s.observations {
		if matchesFilter(o, filter) {
			result = append(result, o)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAtEpoch == result[j].CreatedAtEpoch {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAtEpoch > result[j].CreatedAtEpoch
	})
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

// SearchKeyword returns observations whose title, narrative, or facts match
// the query terms, newest first.
func (s *ObservationStore) SearchKeyword(ctx context.Context, query string, filter domain.ObservationFilter) ([]domain.Observation, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, nil
	}

	all, err := s.List(ctx, domain.ObservationFilter{
		Project:   filter.Project,
		SessionID: filter.SessionID,
		Type:      filter.Type,
	})
	if err != nil {
		return nil, err
	}

	result := make([]domain.Observation, 0, len(all))
	for _, o := range all {
		haystack := strings.ToLower(o.Title + " " + o.Subtitle + " " + o.Narrative + " " + o.Facts.Serialized())
		matched := true
		for _, term := range terms {
			if !strings.Contains(haystack, term) {
				matched = false
				break
			}
		}
		if matched {
			result = append(result, o)
		}
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

// CountBySession returns how many observations a session holds.
func (s *ObservationStore) CountBySession(_ context.Context, sessionID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, o := range s.observations {
		if o.SessionID == sessionID {
			count++
		}
	}
	return count, nil
}

// Delete removes an observation.
func (s *ObservationStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.observations[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.observations, id)
	return nil
}

// matchesFilter applies the zero-value-means-any filter semantics.
func matchesFilter(o domain.Observation, f domain.ObservationFilter) bool {
	if f.Project != "" && o.Project != f.Project {
		return false
	}
	if f.SessionID != "" && o.SessionID != f.SessionID {
		return false
	}
	if f.Type != "" && o.Type != f.Type {
		return false
	}
	return true
}
