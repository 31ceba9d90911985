// Package report exports analysis reports as JSON or as a CSV trend table.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/custodia-labs/topictrend/internal/core/domain"
	"github.com/custodia-labs/topictrend/internal/core/ports/driven"
)

// Ensure writers implement the interface.
var (
	_ driven.ReportWriter = (*JSONWriter)(nil)
	_ driven.ReportWriter = (*CSVWriter)(nil)
)

// Export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// csvDateLayout labels trend columns, e.g. "Jan 02".
const csvDateLayout = "Jan 02"

// ForFormat returns the writer for a format name.
func ForFormat(format string) (driven.ReportWriter, error) {
	switch format {
	case FormatJSON:
		return NewJSONWriter(), nil
	case FormatCSV:
		return NewCSVWriter(), nil
	default:
		return nil, fmt.Errorf("%w: unknown report format %q (use json or csv)", domain.ErrInvalidInput, format)
	}
}

// JSONWriter writes the full report as indented JSON.
type JSONWriter struct{}

// NewJSONWriter creates a JSON report writer.
func NewJSONWriter() *JSONWriter { return &JSONWriter{} }

// Write encodes the report to w.
func (j *JSONWriter) Write(w io.Writer, report *domain.AnalysisReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// Format returns "json".
func (j *JSONWriter) Format() string { return FormatJSON }

// CSVWriter writes the trend matrix: one row per topic, one column per day.
type CSVWriter struct{}

// NewCSVWriter creates a CSV trend writer.
func NewCSVWriter() *CSVWriter { return &CSVWriter{} }

// Write encodes the report's trend matrix to w.
func (c *CSVWriter) Write(w io.Writer, report *domain.AnalysisReport) error {
	trend := report.Trend
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(trend.Dates)+1)
	header = append(header, "Topic")
	for _, d := range trend.Dates {
		label, err := dateLabel(d)
		if err != nil {
			return err
		}
		header = append(header, label)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, topic := range trend.Topics {
		row := make([]string, 0, len(trend.Dates)+1)
		row = append(row, topic)
		for _, n := range trend.Counts[i] {
			row = append(row, strconv.Itoa(n))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Format returns "csv".
func (c *CSVWriter) Format() string { return FormatCSV }

func dateLabel(date string) (string, error) {
	t, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("%w: trend date %q: %w", domain.ErrInvalidInput, date, err)
	}
	return t.Format(csvDateLayout), nil
}
