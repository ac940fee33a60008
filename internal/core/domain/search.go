package domain

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of results.
	Limit int

	// Offset is the number of results to skip.
	Offset int

	// Project filters to one project label. Empty means all projects.
	Project string

	// SessionID filters to one session. Empty means all sessions.
	SessionID string

	// Types filters to specific observation types. Empty means all types.
	Types []ObservationType
}

// SearchResult represents a single search hit.
type SearchResult struct {
	// Observation is the matched observation, hydrated from the store.
	Observation Observation

	// Score is the relevance score. Higher is better; fused scores from
	// hybrid mode are rank-based and not comparable across modes.
	Score float64

	// Highlights contains snippets with matched terms.
	Highlights []string
}
