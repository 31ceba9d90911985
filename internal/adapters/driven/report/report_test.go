package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topictrend/internal/core/domain"
)

func sampleReport() *domain.AnalysisReport {
	return &domain.AnalysisReport{
		RunID: "run-1",
		Trend: domain.TrendMatrix{
			Dates:  []string{"2024-12-31", "2025-01-01"},
			Topics: []string{"Delivery delay", "Refund, late"},
			Counts: [][]int{{2, 0}, {0, 1}},
		},
	}
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{format: "json"},
		{format: "csv"},
		{format: "xml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			w, err := ForFormat(tt.format)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.format, w.Format())
		})
	}
}

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter().Write(&buf, sampleReport()))

	want := "Topic,Dec 31,Jan 01\n" +
		"Delivery delay,2,0\n" +
		"\"Refund, late\",0,1\n"
	assert.Equal(t, want, buf.String())
}

func TestCSVWriter_EmptyTrend(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter().Write(&buf, &domain.AnalysisReport{}))
	assert.Equal(t, "Topic\n", buf.String())
}

func TestCSVWriter_BadDate(t *testing.T) {
	report := &domain.AnalysisReport{Trend: domain.TrendMatrix{Dates: []string{"31/12/2024"}}}
	err := NewCSVWriter().Write(&bytes.Buffer{}, report)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONWriter().Write(&buf, sampleReport()))

	var decoded domain.AnalysisReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	assert.Equal(t, sampleReport().Trend, decoded.Trend)
}
