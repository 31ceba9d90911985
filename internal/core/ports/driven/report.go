package driven

import (
	"io"

	"github.com/custodia-labs/topictrend/internal/core/domain"
)

// ReportWriter serialises an analysis report in one export format.
type ReportWriter interface {
	// Write encodes the report to w.
	Write(w io.Writer, report *domain.AnalysisReport) error

	// Format returns the format name (e.g. "json", "csv").
	Format() string
}
