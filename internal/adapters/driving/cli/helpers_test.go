package cli

import (
	"context"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
)

// mockObservationService implements driving.ObservationService for testing.
type mockObservationService struct {
	recorded   []domain.Observation
	recordErr  error
	getResult  *domain.Observation
	getErr     error
	listResult []domain.Observation
	listErr    error
	session    *domain.Session
	sessionErr error
}

func (m *mockObservationService) Record(_ context.Context, o domain.Observation) (int64, error) {
	if m.recordErr != nil {
		return 0, m.recordErr
	}
	m.recorded = append(m.recorded, o)
	return int64(len(m.recorded)), nil
}

func (m *mockObservationService) Get(_ context.Context, id int64) (*domain.Observation, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.getResult != nil {
		return m.getResult, nil
	}
	return &domain.Observation{ID: id, SessionID: "sess-1", Title: "stub"}, nil
}

func (m *mockObservationService) List(_ context.Context, _ domain.ObservationFilter) ([]domain.Observation, error) {
	return m.listResult, m.listErr
}

func (m *mockObservationService) Recent(_ context.Context, _ string, limit int) ([]domain.Observation, error) {
	if limit > 0 && limit < len(m.listResult) {
		return m.listResult[:limit], m.listErr
	}
	return m.listResult, m.listErr
}

func (m *mockObservationService) EndSession(_ context.Context, sessionID, summary string) (*domain.Session, error) {
	if m.sessionErr != nil {
		return nil, m.sessionErr
	}
	if m.session != nil {
		return m.session, nil
	}
	return &domain.Session{ID: sessionID, Summary: summary, EndedAtEpoch: 1}, nil
}

func (m *mockObservationService) GetSession(_ context.Context, sessionID string) (*domain.Session, error) {
	if m.sessionErr != nil {
		return nil, m.sessionErr
	}
	if m.session != nil {
		return m.session, nil
	}
	return &domain.Session{ID: sessionID, Project: "recall", StartedAtEpoch: 1}, nil
}

// mockSyncService implements driving.SyncService for testing.
type mockSyncService struct {
	lastIDs     []int64
	lastProject string
	result      *domain.SyncResult
	err         error
}

func (m *mockSyncService) SyncObservations(_ context.Context, ids []int64) (*domain.SyncResult, error) {
	m.lastIDs = ids
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.SyncResult{Requested: len(ids), Fetched: len(ids), Embedded: len(ids)}, nil
}

func (m *mockSyncService) SyncPending(_ context.Context, project string) (*domain.SyncResult, error) {
	m.lastProject = project
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.SyncResult{Requested: 2, Fetched: 2, Embedded: 2}, nil
}

// mockSearchService implements driving.SearchService for testing.
type mockSearchService struct {
	lastQuery string
	lastOpts  domain.SearchOptions
	results   []domain.SearchResult
	err       error
}

func (m *mockSearchService) Search(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.results != nil {
		return m.results, nil
	}
	return []domain.SearchResult{
		{Observation: domain.Observation{ID: 1, Title: "mock result", Type: domain.TypeNote}, Score: 0.9},
	}, nil
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings *domain.AppSettings
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.settings != nil {
		return m.settings, nil
	}
	s := domain.DefaultAppSettings()
	return &s, nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return nil }

func (m *mockSettingsService) SetSearchMode(mode domain.SearchMode) error {
	s, _ := m.Get() //nolint:errcheck // mock never fails
	s.Search.Mode = mode
	m.settings = s
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	s, _ := m.Get() //nolint:errcheck // mock never fails
	s.Embedding = domain.EmbeddingSettings{Provider: provider, Model: model, APIKey: apiKey}
	m.settings = s
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	s, _ := m.Get() //nolint:errcheck // mock never fails
	s.LLM = domain.LLMSettings{Provider: provider, Model: model, APIKey: apiKey}
	m.settings = s
	return nil
}

func (m *mockSettingsService) SetVectorStore(addr, collection string) error {
	s, _ := m.Get() //nolint:errcheck // mock never fails
	s.VectorStore = domain.VectorStoreSettings{Addr: addr, Collection: collection}
	m.settings = s
	return nil
}

func (m *mockSettingsService) Validate() error                 { return nil }
func (m *mockSettingsService) RequiresEmbedding() bool         { return false }
func (m *mockSettingsService) RequiresLLM() bool               { return false }
func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }
func (m *mockSettingsService) ValidateEmbeddingConfig() error  { return nil }
func (m *mockSettingsService) ValidateLLMConfig() error        { return nil }

// setupTestServices swaps in mock services and returns a cleanup restoring
// the previous ones.
func setupTestServices() func() {
	oldObservation := observationService
	oldSync := syncService
	oldSearch := searchService
	oldSettings := settingsService

	observationService = &mockObservationService{}
	syncService = &mockSyncService{}
	searchService = &mockSearchService{}
	settingsService = &mockSettingsService{}

	return func() {
		observationService = oldObservation
		syncService = oldSync
		searchService = oldSearch
		settingsService = oldSettings
	}
}
