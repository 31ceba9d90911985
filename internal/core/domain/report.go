package domain

import (
	"fmt"
	"sort"
	"time"
)

// DateLayout is the ISO date format used for topic dates.
const DateLayout = "2006-01-02"

// DefaultTrendDays is the trend window length when none is given.
const DefaultTrendDays = 30

// AnalysisInput is the input to one analysis run.
type AnalysisInput struct {
	// TopicsByDate holds the raw topics per ISO date.
	TopicsByDate TopicsByDate `json:"topics_by_date"`

	// AllTopics is the flat list used for consolidation.
	// When empty it is derived from TopicsByDate.
	AllTopics []string `json:"all_topics,omitempty"`

	// Scope partitions the embedding cache (for example an app identifier).
	Scope string `json:"scope,omitempty"`

	// EndDate is the last day of the trend window (YYYY-MM-DD).
	// When empty the latest date in TopicsByDate is used.
	EndDate string `json:"end_date,omitempty"`

	// WindowDays is the trend window length. Zero means DefaultTrendDays.
	WindowDays int `json:"window_days,omitempty"`
}

// Validate checks the input for malformed dates and window values.
func (in AnalysisInput) Validate() error {
	for date := range in.TopicsByDate {
		if _, err := time.Parse(DateLayout, date); err != nil {
			return fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidInput, date)
		}
	}
	if in.EndDate != "" {
		if _, err := time.Parse(DateLayout, in.EndDate); err != nil {
			return fmt.Errorf("%w: end date %q is not YYYY-MM-DD", ErrInvalidInput, in.EndDate)
		}
	}
	if in.WindowDays < 0 {
		return fmt.Errorf("%w: window days must not be negative", ErrInvalidInput)
	}
	return nil
}

// ConsolidationTopics returns AllTopics, or every dated topic when AllTopics is empty.
func (in AnalysisInput) ConsolidationTopics() []string {
	if len(in.AllTopics) > 0 {
		return in.AllTopics
	}
	return in.TopicsByDate.Flatten()
}

// AnalysisReport is the complete output of one analysis run.
type AnalysisReport struct {
	RunID         string              `json:"run_id"`
	Scope         string              `json:"scope,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	Consolidation ConsolidationResult `json:"consolidation"`
	Mapping       MappingResult       `json:"mapping"`
	Diagnostics   Diagnostics         `json:"diagnostics"`
	Trend         TrendMatrix         `json:"trend"`
}

// Summary returns the listing view of the report.
func (r *AnalysisReport) Summary() RunSummary {
	total := 0
	for _, n := range r.Mapping.Counts.Totals() {
		total += n
	}
	return RunSummary{
		ID:             r.RunID,
		Scope:          r.Scope,
		CreatedAt:      r.CreatedAt,
		Strategy:       r.Consolidation.Strategy,
		CanonicalCount: len(r.Consolidation.Mapping),
		MentionCount:   total,
		UnmappedCount:  len(r.Mapping.Unmapped),
	}
}

// RunSummary is a compact description of a stored analysis run.
type RunSummary struct {
	ID             string                `json:"id"`
	Scope          string                `json:"scope,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	Strategy       ConsolidationStrategy `json:"strategy"`
	CanonicalCount int                   `json:"canonical_count"`
	MentionCount   int                   `json:"mention_count"`
	UnmappedCount  int                   `json:"unmapped_count"`
}

// TrendMatrix is a topic x date count table.
type TrendMatrix struct {
	Dates  []string `json:"dates"`
	Topics []string `json:"topics"`
	// Counts[i][j] is the count of Topics[i] on Dates[j].
	Counts [][]int `json:"counts"`
}

// BuildTrendMatrix lays counts out over a window of consecutive days ending at end.
// An empty end uses the latest date present in counts; days <= 0 uses DefaultTrendDays.
// Every day in the window is a column even when it has no mentions. Topics are sorted
// and only topics mentioned inside the window are rows.
func BuildTrendMatrix(counts CanonicalCounts, end string, days int) (TrendMatrix, error) {
	if days <= 0 {
		days = DefaultTrendDays
	}
	if end == "" {
		for date := range counts {
			if date > end {
				end = date
			}
		}
		if end == "" {
			return TrendMatrix{Dates: []string{}, Topics: []string{}, Counts: [][]int{}}, nil
		}
	}

	endDate, err := time.Parse(DateLayout, end)
	if err != nil {
		return TrendMatrix{}, fmt.Errorf("%w: end date %q: %w", ErrInvalidInput, end, err)
	}

	dates := make([]string, days)
	start := endDate.AddDate(0, 0, -(days - 1))
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i).Format(DateLayout)
	}

	topicSet := make(map[string]struct{})
	for _, date := range dates {
		for topic := range counts[date] {
			topicSet[topic] = struct{}{}
		}
	}
	topics := make([]string, 0, len(topicSet))
	for topic := range topicSet {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	matrix := make([][]int, len(topics))
	for i, topic := range topics {
		row := make([]int, len(dates))
		for j, date := range dates {
			row[j] = counts[date][topic]
		}
		matrix[i] = row
	}

	return TrendMatrix{Dates: dates, Topics: topics, Counts: matrix}, nil
}

// RowTotal returns the sum of row i.
func (m TrendMatrix) RowTotal(i int) int {
	total := 0
	for _, n := range m.Counts[i] {
		total += n
	}
	return total
}
