// Package mcp provides an MCP (Model Context Protocol) server adapter for Recall.
// It lets AI coding agents record observations, trigger synchronization into the
// embedding index, and search their accumulated memory.
package mcp

import "errors"

// ErrMissingObservationService is returned when the observation service is not provided.
var ErrMissingObservationService = errors.New("mcp: observation service is required")
