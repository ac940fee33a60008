// Package domain defines the core business entities for Recall.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has almost no external dependencies and defines the fundamental types:
//
//   - Observation: A recorded unit of agent memory, as stored
//   - SearchDocument: The normalized shape handed to the embedding index
//   - FlexList: A list field tolerant of structured and pre-serialized input
//   - Session: A group of observations from one agent run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library plus the uuid generator for session ids.
// All other packages depend on domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, github.com/google/uuid
//   - Cannot Import: Any internal/ package, any other external dependency
package domain
