package mcp

import (
	"github.com/custodia-labs/topictrend/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server calls.
type Ports struct {
	// Analysis consolidates, maps and stores runs.
	Analysis driving.AnalysisService

	// Duplicates finds near-duplicate texts. Optional; the tool reports
	// an error when it is missing.
	Duplicates driving.DuplicateService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Analysis == nil {
		return ErrMissingAnalysisService
	}
	return nil
}
