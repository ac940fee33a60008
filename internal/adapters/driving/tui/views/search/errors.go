package search

import "errors"

// ErrNoSearchService indicates the search service is not configured.
var ErrNoSearchService = errors.New("search service not available")

// ErrNoSyncService indicates the sync service is not configured.
var ErrNoSyncService = errors.New("sync service not available")
