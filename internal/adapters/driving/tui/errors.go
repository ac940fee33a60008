package tui

import "errors"

// ErrMissingSearchService indicates the required search port was not provided.
var ErrMissingSearchService = errors.New("tui: search service is required")
