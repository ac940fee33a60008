package mcp

import (
	"context"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
)

// mockObservationService is a mock implementation of driving.ObservationService.
type mockObservationService struct {
	recordedID   int64
	recorded     []domain.Observation
	observation  *domain.Observation
	observations []domain.Observation
	session      *domain.Session
	err          error
}

func (m *mockObservationService) Record(_ context.Context, o domain.Observation) (int64, error) {
	m.recorded = append(m.recorded, o)
	return m.recordedID, m.err
}

func (m *mockObservationService) Get(_ context.Context, _ int64) (*domain.Observation, error) {
	return m.observation, m.err
}

func (m *mockObservationService) List(_ context.Context, _ domain.ObservationFilter) ([]domain.Observation, error) {
	return m.observations, m.err
}

func (m *mockObservationService) Recent(_ context.Context, _ string, _ int) ([]domain.Observation, error) {
	return m.observations, m.err
}

func (m *mockObservationService) EndSession(_ context.Context, _, _ string) (*domain.Session, error) {
	return m.session, m.err
}

func (m *mockObservationService) GetSession(_ context.Context, _ string) (*domain.Session, error) {
	return m.session, m.err
}

// mockSyncService is a mock implementation of driving.SyncService.
type mockSyncService struct {
	syncedIDs []int64
	result    *domain.SyncResult
	err       error
}

func (m *mockSyncService) SyncObservations(_ context.Context, ids []int64) (*domain.SyncResult, error) {
	m.syncedIDs = ids
	return m.result, m.err
}

func (m *mockSyncService) SyncPending(_ context.Context, _ string) (*domain.SyncResult, error) {
	return m.result, m.err
}

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.SearchResult
	err     error
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	_ domain.SearchOptions,
) ([]domain.SearchResult, error) {
	return m.results, m.err
}
