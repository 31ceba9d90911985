// Package structured decodes JSON values embedded in generative model responses.
//
// Models often wrap JSON in markdown fences or surround it with prose. Extract
// tries the cleaned response first, then the first balanced-looking JSON object
// or array in the text.
package structured

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/topictrend/internal/core/domain"
	"github.com/custodia-labs/topictrend/internal/logger"
)

// PreviewLength is how much of a bad response is kept in parse errors.
const PreviewLength = 200

var (
	fencePattern = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")
	jsonPattern  = regexp.MustCompile(`[{\[][\s\S]*[}\]]`)
)

// Extract decodes the JSON value in response into v.
// It returns an error wrapping domain.ErrGenerativeParse with a preview of the
// response when nothing decodes.
func Extract(response string, v any) error {
	text := strings.TrimSpace(response)
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	text = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "json"))

	if text != "" {
		if err := json.Unmarshal([]byte(text), v); err == nil {
			return nil
		}
	}

	if candidate := jsonPattern.FindString(response); candidate != "" {
		if err := json.Unmarshal([]byte(candidate), v); err == nil {
			return nil
		}
	}

	return fmt.Errorf("%w: no JSON found in response: %q", domain.ErrGenerativeParse, Preview(response))
}

// Preview returns the first PreviewLength runes of response.
func Preview(response string) string {
	return logger.Preview(response, PreviewLength)
}
