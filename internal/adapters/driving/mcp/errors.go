// Package mcp provides an MCP (Model Context Protocol) server adapter for topictrend.
// It lets AI assistants consolidate, map and deduplicate review topics and
// read stored analysis runs.
package mcp

import "errors"

// ErrMissingAnalysisService is returned when the analysis service is not provided.
var ErrMissingAnalysisService = errors.New("mcp: analysis service is required")
