package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/topictrend/internal/core/domain"
)

// openInput opens path, or the command's stdin for "-".
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

func readAll(cmd *cobra.Command, path string) ([]byte, error) {
	r, err := openInput(cmd, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// readAnalysisInput accepts either a full analysis input object or a bare
// date -> topics object.
func readAnalysisInput(cmd *cobra.Command, path string) (domain.AnalysisInput, error) {
	data, err := readAll(cmd, path)
	if err != nil {
		return domain.AnalysisInput{}, err
	}

	var input domain.AnalysisInput
	if err := json.Unmarshal(data, &input); err != nil {
		return domain.AnalysisInput{}, fmt.Errorf("%w: parse %s: %w", domain.ErrInvalidInput, path, err)
	}
	if len(input.TopicsByDate) > 0 || len(input.AllTopics) > 0 {
		return input, nil
	}

	var byDate domain.TopicsByDate
	if err := json.Unmarshal(data, &byDate); err != nil {
		return domain.AnalysisInput{}, fmt.Errorf("%w: %s has neither topics_by_date nor date keys", domain.ErrInvalidInput, path)
	}
	input.TopicsByDate = byDate
	return input, nil
}

// readTextList reads a JSON string array, or one entry per non-blank line.
func readTextList(cmd *cobra.Command, path string) ([]string, error) {
	data, err := readAll(cmd, path)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %w", domain.ErrInvalidInput, path, err)
		}
		return list, nil
	}

	var list []string
	scanner := bufio.NewScanner(strings.NewReader(trimmed))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			list = append(list, line)
		}
	}
	return list, scanner.Err()
}

// readMapping reads a canonical -> variations JSON object.
func readMapping(cmd *cobra.Command, path string) (domain.CanonicalMapping, error) {
	data, err := readAll(cmd, path)
	if err != nil {
		return nil, err
	}
	var mapping domain.CanonicalMapping
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("%w: parse mapping %s: %w", domain.ErrInvalidInput, path, err)
	}
	return mapping, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
