// Package search provides the search view for the TUI. It combines the
// query input, the result list, a detail pane for the selected hit, and a
// status line in one view.
package search

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/keepsake-labs/recall-cli/internal/adapters/driving/tui/components/input"
	"github.com/keepsake-labs/recall-cli/internal/adapters/driving/tui/keymap"
	"github.com/keepsake-labs/recall-cli/internal/adapters/driving/tui/messages"
	"github.com/keepsake-labs/recall-cli/internal/adapters/driving/tui/styles"
	"github.com/keepsake-labs/recall-cli/internal/core/domain"
	"github.com/keepsake-labs/recall-cli/internal/core/ports/driving"
)

// defaultLimit bounds how many hits one query brings back into the list.
const defaultLimit = 20

// View represents the search view.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	input  *input.QueryInput

	searchService driving.SearchService
	syncService   driving.SyncService
	ctx           context.Context

	results  []domain.SearchResult
	selected int

	width      int
	height     int
	ready      bool
	err        error
	status     string
	searching  bool
	focusInput bool // true = typing a query, false = navigating results
}

// NewView creates a new search view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	searchService driving.SearchService,
	syncService driving.SyncService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewQueryInput(s),
		searchService: searchService,
		syncService:   syncService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
		focusInput:    true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.SyncCompleted:
		v.handleSyncCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.searching = false
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	// Enter in input mode submits the query.
	if msg.Type == tea.KeyEnter && v.focusInput {
		query := strings.TrimSpace(v.input.Value())
		if query == "" {
			return v, nil
		}
		v.searching = true
		v.err = nil
		v.status = ""
		v.focusInput = false
		v.input.Blur()
		return v, v.performSearch(query)
	}

	// Input mode: all other keys go to the input.
	if v.focusInput {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	// Results mode.
	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keymap.Up):
		v.moveUp()
		return v, nil
	case keymap.Matches(keyStr, v.keymap.Down):
		v.moveDown()
		return v, nil
	case keymap.Matches(keyStr, v.keymap.NewSearch):
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	case keymap.Matches(keyStr, v.keymap.Sync):
		return v, v.syncSelected()
	case keymap.Matches(keyStr, v.keymap.Back):
		v.focusInput = true
		return v, v.input.Focus()
	}

	return v, nil
}

func (v *View) moveUp() {
	if v.selected > 0 {
		v.selected--
	}
}

func (v *View) moveDown() {
	if v.selected < len(v.results)-1 {
		v.selected++
	}
}

// performSearch runs the query off the update loop.
func (v *View) performSearch(query string) tea.Cmd {
	return func() tea.Msg {
		if v.searchService == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}

		results, err := v.searchService.Search(v.ctx, query, domain.SearchOptions{Limit: defaultLimit})
		return messages.SearchCompleted{Query: query, Results: results, Err: err}
	}
}

// syncSelected re-embeds the selected observation.
func (v *View) syncSelected() tea.Cmd {
	result := v.SelectedResult()
	if result == nil {
		return nil
	}
	id := result.Observation.ID

	return func() tea.Msg {
		if v.syncService == nil {
			return messages.SyncCompleted{ObservationID: id, Err: ErrNoSyncService}
		}

		res, err := v.syncService.SyncObservations(v.ctx, []int64{id})
		return messages.SyncCompleted{ObservationID: id, Result: res, Err: err}
	}
}

// handleSearchCompleted processes search results.
func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	v.searching = false
	if msg.Err != nil {
		v.err = msg.Err
		return
	}

	v.err = nil
	v.results = msg.Results
	v.selected = 0
	v.status = fmt.Sprintf("%d result(s) for %q", len(msg.Results), msg.Query)
	v.focusInput = false
	v.input.Blur()
}

// handleSyncCompleted surfaces the sync outcome on the status line.
func (v *View) handleSyncCompleted(msg messages.SyncCompleted) {
	if msg.Err != nil {
		v.status = fmt.Sprintf("sync #%d failed: %v", msg.ObservationID, msg.Err)
		return
	}
	v.status = fmt.Sprintf("synced #%d: %d embedded", msg.ObservationID, msg.Result.Embedded)
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)

	sections = append(sections, v.styles.Title.Render("Recall"), "")
	sections = append(sections, v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.searching {
		sections = append(sections, v.styles.Muted.Render("Searching..."))
	} else {
		sections = append(sections, v.renderResults())
		if detail := v.renderDetail(); detail != "" {
			sections = append(sections, "", detail)
		}
	}

	sections = append(sections, "", v.renderStatus())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderResults renders the result list with the selection marker.
func (v *View) renderResults() string {
	if len(v.results) == 0 {
		return v.styles.Muted.Render("No results. Type a query and press enter.")
	}

	lines := make([]string, 0, len(v.results))
	for i, r := range v.results {
		obs := r.Observation
		score := v.styles.Score.Render(fmt.Sprintf("%5.2f", r.Score))
		label := fmt.Sprintf("#%d [%s] %s", obs.ID, obs.Type, obs.Title)

		if i == v.selected {
			lines = append(lines, score+" "+v.styles.Selected.Render("> "+label))
		} else {
			lines = append(lines, score+" "+v.styles.Normal.Render("  "+label))
		}
	}

	return strings.Join(lines, "\n")
}

// renderDetail renders the detail pane for the selected result.
func (v *View) renderDetail() string {
	result := v.SelectedResult()
	if result == nil {
		return ""
	}
	obs := result.Observation

	lines := make([]string, 0, 6)
	lines = append(lines, v.styles.Subtitle.Render(obs.Title))
	if obs.Subtitle != "" {
		lines = append(lines, v.styles.Muted.Render(obs.Subtitle))
	}
	meta := fmt.Sprintf("project: %s  session: %s  %s", obs.Project, obs.SessionID, obs.CreatedAt)
	lines = append(lines, v.styles.Muted.Render(meta))
	if obs.Narrative != "" {
		lines = append(lines, "", v.styles.Normal.Render(truncate(obs.Narrative, 400)))
	}
	for _, h := range result.Highlights {
		lines = append(lines, v.styles.Warning.Render("… "+h))
	}

	return v.styles.Border.Padding(0, 1).Render(strings.Join(lines, "\n"))
}

// renderStatus renders the status line with contextual help.
func (v *View) renderStatus() string {
	var help string
	if v.focusInput {
		help = "enter search · ctrl+c quit"
	} else {
		help = "↑/↓ navigate · s sync · n new search · ctrl+c quit"
	}

	if v.status != "" {
		return v.styles.StatusBar.Render(v.status + "  |  " + help)
	}
	return v.styles.StatusBar.Render(help)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current search query.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the search query.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Results returns the current search results.
func (v *View) Results() []domain.SearchResult {
	return v.results
}

// SelectedIndex returns the index of the selected result.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedResult returns the currently selected result, or nil.
func (v *View) SelectedResult() *domain.SearchResult {
	if v.selected < 0 || v.selected >= len(v.results) {
		return nil
	}
	return &v.results[v.selected]
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Status returns the current status line message.
func (v *View) Status() string {
	return v.status
}

// InputFocused returns whether the query input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Reset returns the view to initial input mode.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.results = nil
	v.selected = 0
	v.err = nil
	v.status = ""
	v.searching = false
}
