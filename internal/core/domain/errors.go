package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown observation or provider type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Sync errors.

	// ErrLookupFailed indicates the observation store could not serve a read.
	// The embedding index is never invoked after a lookup failure.
	ErrLookupFailed = errors.New("observation lookup failed")

	// ErrDelegationFailed indicates the embedding index rejected a sync batch
	// as a whole. A short count from a healthy call is not an error.
	ErrDelegationFailed = errors.New("embedding delegation failed")

	// ErrSyncInProgress indicates a pending sweep is already running.
	ErrSyncInProgress = errors.New("sync in progress")

	// Capability errors.

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Features requiring LLM (query rewriting, session summaries) are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Vector/semantic search is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector store is not configured.
	// Semantic similarity search is disabled.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrRateLimited indicates a provider API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
