package search

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keepsake-labs/recall-cli/internal/adapters/driving/tui/keymap"
	"github.com/keepsake-labs/recall-cli/internal/adapters/driving/tui/messages"
	"github.com/keepsake-labs/recall-cli/internal/adapters/driving/tui/styles"
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
type MockSyncService struct {
	SyncObservationsFunc func(ctx context.Context, ids []int64) (*domain.SyncResult, error)
}

func (m *MockSyncService) SyncObservations(ctx context.Context, ids []int64) (*domain.SyncResult, error) {
	if m.SyncObservationsFunc != nil {
		return m.SyncObservationsFunc(ctx, ids)
	}
	return &domain.SyncResult{Requested: len(ids), Fetched: len(ids), Embedded: len(ids)}, nil
}

func (m *MockSyncService) SyncPending(ctx context.Context, project string) (*domain.SyncResult, error) {
	return &domain.SyncResult{}, nil
}

func testSearchResults() []domain.SearchResult {
	return []domain.SearchResult{
		{
			Observation: domain.Observation{
				ID:        1,
				SessionID: "sess-1",
				Project:   "recall",
				Type:      domain.TypeDiscovery,
				Title:     "Store uses WAL mode",
			},
			Score: 0.95,
		},
		{
			Observation: domain.Observation{
				ID:        2,
				SessionID: "sess-1",
				Project:   "recall",
				Type:      domain.TypeDecision,
				Title:     "Keep migrations embedded",
			},
			Score: 0.85,
		},
	}
}

func TestNewView(t *testing.T) {
	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	mock := &MockSearchService{}

	view := NewView(s, km, mock, nil)

	require.NotNil(t, view)
	assert.False(t, view.Ready())
	assert.Equal(t, "", view.Query())
	assert.True(t, view.InputFocused())
}

func TestNewView_NilStyles(t *testing.T) {
	view := NewView(nil, nil, nil, nil)

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
	assert.NotNil(t, view.keymap)
}

func TestView_WithContext(t *testing.T) {
	view := NewView(nil, nil, nil, nil)
	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	result := view.WithContext(ctx)

	assert.Equal(t, view, result)
	assert.Equal(t, ctx, view.ctx)
}

func TestView_Init(t *testing.T) {
	view := NewView(nil, nil, nil, nil)

	cmd := view.Init()

	// Blink command from input
	assert.NotNil(t, cmd)
}

func TestView_Update_WindowSize(t *testing.T) {
	view := NewView(nil, nil, nil, nil)

	updated, _ := view.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.True(t, updated.Ready())
	assert.Equal(t, 100, updated.width)
	assert.Equal(t, 40, updated.height)
}

func TestView_Update_EnterSubmitsSearch(t *testing.T) {
	var gotQuery string
	mock := &MockSearchService{
		SearchFunc: func(_ context.Context, query string, _ domain.SearchOptions) ([]domain.SearchResult, error) {
			gotQuery = query
			return testSearchResults(), nil
		},
	}
	view := NewView(nil, nil, mock, nil)
	view.SetDimensions(80, 24)
	view.SetQuery("wal mode")

	updated, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, updated.InputFocused())

	msg := cmd()
	completed, ok := msg.(messages.SearchCompleted)
	require.True(t, ok)
	assert.Equal(t, "wal mode", gotQuery)
	assert.Len(t, completed.Results, 2)
}

func TestView_Update_EnterEmptyQueryNoSearch(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{}, nil)
	view.SetDimensions(80, 24)

	updated, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.True(t, updated.InputFocused())
}

func TestView_Update_SearchCompleted(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{}, nil)
	view.SetDimensions(80, 24)

	updated, _ := view.Update(messages.SearchCompleted{
		Query:   "wal",
		Results: testSearchResults(),
	})

	assert.Len(t, updated.Results(), 2)
	assert.Equal(t, 0, updated.SelectedIndex())
	assert.Contains(t, updated.Status(), "2 result(s)")
	assert.False(t, updated.InputFocused())
}

func TestView_Update_SearchCompletedError(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{}, nil)
	view.SetDimensions(80, 24)

	wantErr := errors.New("index unavailable")
	updated, _ := view.Update(messages.SearchCompleted{Query: "q", Err: wantErr})

	assert.Equal(t, wantErr, updated.Err())
	assert.Empty(t, updated.Results())
}

func TestView_Navigation(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{}, nil)
	view.SetDimensions(80, 24)
	view.Update(messages.SearchCompleted{Query: "q", Results: testSearchResults()})

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, view.SelectedIndex())

	// Down at the last result stays put
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, view.SelectedIndex())

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 0, view.SelectedIndex())

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 0, view.SelectedIndex())
}

func TestView_SyncSelected(t *testing.T) {
	var gotIDs []int64
	syncMock := &MockSyncService{
		SyncObservationsFunc: func(_ context.Context, ids []int64) (*domain.SyncResult, error) {
			gotIDs = ids
			return &domain.SyncResult{Requested: 1, Fetched: 1, Embedded: 1}, nil
		},
	}
	view := NewView(nil, nil, &MockSearchService{}, syncMock)
	view.SetDimensions(80, 24)
	view.Update(messages.SearchCompleted{Query: "q", Results: testSearchResults()})

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	require.NotNil(t, cmd)

	msg := cmd()
	completed, ok := msg.(messages.SyncCompleted)
	require.True(t, ok)
	require.NoError(t, completed.Err)
	assert.Equal(t, []int64{1}, gotIDs)
	assert.Equal(t, int64(1), completed.ObservationID)

	view.Update(completed)
	assert.Contains(t, view.Status(), "synced #1")
}

func TestView_SyncWithoutService(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{}, nil)
	view.SetDimensions(80, 24)
	view.Update(messages.SearchCompleted{Query: "q", Results: testSearchResults()})

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	require.NotNil(t, cmd)

	msg := cmd()
	completed, ok := msg.(messages.SyncCompleted)
	require.True(t, ok)
	assert.ErrorIs(t, completed.Err, ErrNoSyncService)
}

func TestView_SyncWithoutSelection(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{}, &MockSyncService{})
	view.SetDimensions(80, 24)
	view.Update(messages.SearchCompleted{Query: "q", Results: nil})

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})

	assert.Nil(t, cmd)
}

func TestView_NewSearchRefocusesInput(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{}, nil)
	view.SetDimensions(80, 24)
	view.Update(messages.SearchCompleted{Query: "q", Results: testSearchResults()})
	require.False(t, view.InputFocused())

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})

	assert.True(t, view.InputFocused())
	assert.Equal(t, "", view.Query())
}

func TestView_PerformSearch_NoService(t *testing.T) {
	view := NewView(nil, nil, nil, nil)
	view.SetDimensions(80, 24)
	view.SetQuery("anything")

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd()
	errMsg, ok := msg.(messages.ErrorOccurred)
	require.True(t, ok)
	assert.ErrorIs(t, errMsg.Err, ErrNoSearchService)
}

func TestView_View(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{}, nil)

	assert.Contains(t, view.View(), "Initialising")

	view.SetDimensions(80, 24)
	out := view.View()
	assert.Contains(t, out, "Recall")
	assert.Contains(t, out, "No results")

	view.Update(messages.SearchCompleted{Query: "q", Results: testSearchResults()})
	out = view.View()
	assert.Contains(t, out, "Store uses WAL mode")
	assert.Contains(t, out, "Keep migrations embedded")
}

func TestView_Reset(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{}, nil)
	view.SetDimensions(80, 24)
	view.Update(messages.SearchCompleted{Query: "q", Results: testSearchResults()})

	view.Reset()

	assert.True(t, view.InputFocused())
	assert.Empty(t, view.Results())
	assert.Equal(t, "", view.Query())
	assert.Equal(t, "", view.Status())
	assert.NoError(t, view.Err())
}
