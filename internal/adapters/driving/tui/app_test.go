package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keepsake-labs/recall-cli/internal/adapters/driving/tui/messages"
	"github.com/keepsake-labs/recall-cli/internal/core/domain"
)

// MockSearchService implements driving.SearchService for testing.
type MockSearchService struct {
	SearchFunc func(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}

func (m *MockSearchService) Search(
	ctx context.Context,
	query string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, opts)
	}
	return []domain.SearchResult{}, nil
}

// MockSyncService implements driving.SyncService for testing.
type MockSyncService struct{}

func (m *MockSyncService) SyncObservations(_ context.Context, ids []int64) (*domain.SyncResult, error) {
	return &domain.SyncResult{Requested: len(ids), Fetched: len(ids), Embedded: len(ids)}, nil
}

func (m *MockSyncService) SyncPending(_ context.Context, _ string) (*domain.SyncResult, error) {
	return &domain.SyncResult{}, nil
}

func newTestPorts() *Ports {
	return &Ports{
		Search: &MockSearchService{},
		Sync:   &MockSyncService{},
	}
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(newTestPorts())

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.False(t, app.Ready())
}

func TestNewApp_MissingSearch(t *testing.T) {
	app, err := NewApp(&Ports{Sync: &MockSyncService{}})

	assert.ErrorIs(t, err, ErrMissingSearchService)
	assert.Nil(t, app)
}

func TestNewApp_SyncOptional(t *testing.T) {
	app, err := NewApp(&Ports{Search: &MockSearchService{}})

	require.NoError(t, err)
	require.NotNil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")
	result := app.WithContext(ctx)

	assert.Equal(t, app, result)
}

func TestApp_Init(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	cmd := app.Init()

	assert.NotNil(t, cmd)
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	model, _ := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	updated, ok := model.(*App)
	require.True(t, ok)
	assert.True(t, updated.Ready())
	assert.Equal(t, 80, updated.width)
	assert.Equal(t, 24, updated.height)
}

func TestApp_Update_CtrlCQuits(t *testing.T) {
	app, _ := NewApp(newTestPorts())
	app.SetDimensions(80, 24)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_Update_EscInInputModeQuits(t *testing.T) {
	app, _ := NewApp(newTestPorts())
	app.SetDimensions(80, 24)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_Update_SearchCompleted(t *testing.T) {
	app, _ := NewApp(newTestPorts())
	app.SetDimensions(80, 24)

	results := []domain.SearchResult{
		{Observation: domain.Observation{ID: 7, Title: "hit"}, Score: 0.5},
	}
	model, _ := app.Update(messages.SearchCompleted{Query: "q", Results: results})

	updated, ok := model.(*App)
	require.True(t, ok)
	assert.Len(t, updated.Results(), 1)
	assert.Equal(t, 0, updated.SelectedIndex())
}

func TestApp_Update_ErrorOccurred(t *testing.T) {
	app, _ := NewApp(newTestPorts())
	app.SetDimensions(80, 24)

	wantErr := errors.New("boom")
	app.Update(messages.ErrorOccurred{Err: wantErr})

	assert.Equal(t, wantErr, app.Err())
}

func TestApp_Update_QuitMessage(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_View(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	assert.Contains(t, app.View(), "Initialising")

	app.SetDimensions(80, 24)
	assert.Contains(t, app.View(), "Recall")
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   Ports
		wantErr error
	}{
		{
			name:  "all set",
			ports: Ports{Search: &MockSearchService{}, Sync: &MockSyncService{}},
		},
		{
			name:  "sync optional",
			ports: Ports{Search: &MockSearchService{}},
		},
		{
			name:    "search required",
			ports:   Ports{Sync: &MockSyncService{}},
			wantErr: ErrMissingSearchService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
