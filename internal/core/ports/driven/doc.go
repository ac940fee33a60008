// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ObservationStore: Observation persistence and bulk reads
//   - SessionStore: Session persistence
//   - SyncStateStore: Embedded-state bookkeeping for the pending sweep
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingIndex: The embedding subsystem. Without it, sync requests fail
//     cleanly and search degrades to keyword mode.
//   - EmbeddingService: Generates vector embeddings for the index adapter.
//   - VectorStore: Stores and searches vectors (Qdrant) for the index adapter.
//   - LLMService: Language model operations. Without it, query rewriting and
//     session summaries are disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
