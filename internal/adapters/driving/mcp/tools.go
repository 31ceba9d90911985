package mcp

import (
	"context"
	"errors"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/topictrend/internal/core/domain"
)

// ConsolidateInput is the input schema for the consolidate_topics tool.
type ConsolidateInput struct {
	Topics []string `json:"topics" jsonschema:"raw topic phrases to merge"`
	Scope  string   `json:"scope,omitempty" jsonschema:"embedding cache scope, e.g. an app identifier"`
}

// CanonicalTopic is one canonical topic and the raw topics it absorbs.
type CanonicalTopic struct {
	Name       string   `json:"name"`
	Variations []string `json:"variations"`
}

// Attempt is one consolidation tier tried.
type Attempt struct {
	Strategy string `json:"strategy"`
	Error    string `json:"error,omitempty"`
}

// ConsolidateOutput is the output schema for the consolidate_topics tool.
type ConsolidateOutput struct {
	Strategy        string           `json:"strategy"`
	Attempts        []Attempt        `json:"attempts"`
	CanonicalTopics []CanonicalTopic `json:"canonical_topics"`
}

// MapInput is the input schema for the map_topics tool.
type MapInput struct {
	TopicsByDate map[string][]string `json:"topics_by_date" jsonschema:"raw topics keyed by YYYY-MM-DD date"`
	Mapping      map[string][]string `json:"mapping" jsonschema:"canonical topic name to its declared variations"`
	Scope        string              `json:"scope,omitempty" jsonschema:"embedding cache scope"`
}

// UnmappedTopic is a topic below the similarity threshold.
type UnmappedTopic struct {
	Topic      string `json:"topic"`
	Suggestion string `json:"suggestion"`
}

// MapOutput is the output schema for the map_topics tool.
type MapOutput struct {
	Strategy string                    `json:"strategy"`
	Counts   map[string]map[string]int `json:"counts"`
	Totals   map[string]int            `json:"totals"`
	Unmapped []UnmappedTopic           `json:"unmapped"`
}

// DuplicatesInput is the input schema for the find_duplicates tool.
type DuplicatesInput struct {
	Texts []string `json:"texts" jsonschema:"texts in order; earlier texts are kept"`
	Scope string   `json:"scope,omitempty" jsonschema:"embedding cache scope"`
}

// DuplicatePair links a duplicate to the text it repeats.
type DuplicatePair struct {
	Index    int `json:"index"`
	Original int `json:"original"`
}

// DuplicatesOutput is the output schema for the find_duplicates tool.
type DuplicatesOutput struct {
	Unique     []int           `json:"unique"`
	Duplicates []DuplicatePair `json:"duplicates"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "consolidate_topics",
		Description: "Merge raw review topics into canonical topics using the configured strategy and its fallbacks",
	}, s.handleConsolidate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "map_topics",
		Description: "Count dated raw topics under a canonical mapping",
	}, s.handleMap)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_duplicates",
		Description: "Find near-duplicate texts by embedding similarity, keeping the first occurrence",
	}, s.handleDuplicates)
}

func (s *Server) handleConsolidate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ConsolidateInput,
) (*mcp.CallToolResult, ConsolidateOutput, error) {
	result := s.ports.Analysis.Consolidate(ctx, input.Topics, input.Scope)

	output := ConsolidateOutput{
		Strategy:        result.Strategy.String(),
		Attempts:        make([]Attempt, len(result.Attempts)),
		CanonicalTopics: make([]CanonicalTopic, 0, len(result.Mapping)),
	}
	for i, a := range result.Attempts {
		output.Attempts[i] = Attempt{Strategy: a.Strategy.String(), Error: a.Error}
	}
	for _, name := range result.Mapping.Names() {
		output.CanonicalTopics = append(output.CanonicalTopics, CanonicalTopic{
			Name:       name,
			Variations: result.Mapping[name],
		})
	}
	return nil, output, nil
}

func (s *Server) handleMap(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MapInput,
) (*mcp.CallToolResult, MapOutput, error) {
	byDate := domain.TopicsByDate(input.TopicsByDate)
	if err := (domain.AnalysisInput{TopicsByDate: byDate}).Validate(); err != nil {
		return nil, MapOutput{}, err
	}

	result := s.ports.Analysis.MapToCanonical(ctx, byDate, domain.CanonicalMapping(input.Mapping), input.Scope)

	output := MapOutput{
		Strategy: result.Strategy.String(),
		Counts:   result.Counts,
		Totals:   result.Counts.Totals(),
		Unmapped: make([]UnmappedTopic, 0, len(result.Unmapped)),
	}
	for topic, suggestion := range result.Unmapped {
		output.Unmapped = append(output.Unmapped, UnmappedTopic{Topic: topic, Suggestion: suggestion})
	}
	sort.Slice(output.Unmapped, func(i, j int) bool {
		return output.Unmapped[i].Topic < output.Unmapped[j].Topic
	})
	return nil, output, nil
}

func (s *Server) handleDuplicates(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DuplicatesInput,
) (*mcp.CallToolResult, DuplicatesOutput, error) {
	if s.ports.Duplicates == nil {
		return nil, DuplicatesOutput{}, errors.New("duplicate detection is not configured")
	}

	result, err := s.ports.Duplicates.FindDuplicates(ctx, input.Texts, input.Scope)
	if err != nil {
		return nil, DuplicatesOutput{}, err
	}

	output := DuplicatesOutput{
		Unique:     result.Unique,
		Duplicates: make([]DuplicatePair, 0, len(result.Duplicates)),
	}
	for idx, orig := range result.Duplicates {
		output.Duplicates = append(output.Duplicates, DuplicatePair{Index: idx, Original: orig})
	}
	sort.Slice(output.Duplicates, func(i, j int) bool {
		return output.Duplicates[i].Index < output.Duplicates[j].Index
	})
	return nil, output, nil
}
