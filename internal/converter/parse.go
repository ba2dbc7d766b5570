package converter

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrBadModelOutput marks model responses that did not parse as the
// expected structured document. The stage re-prompts once on it.
var ErrBadModelOutput = errors.New("model output is not a valid structured document")

func decodeJSONObject(content string) (map[string]any, error) {
	content = stripMarkdownCodeBlock(content)
	var out map[string]any
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadModelOutput, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty JSON object", ErrBadModelOutput)
	}
	return out, nil
}

func decodeYAMLMapping(content string) (map[string]any, error) {
	content = stripMarkdownCodeBlock(content)
	var out map[string]any
	if err := yaml.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadModelOutput, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty YAML mapping", ErrBadModelOutput)
	}
	return out, nil
}

// stripMarkdownCodeBlock unwraps responses the model fenced despite
// being told not to.
func stripMarkdownCodeBlock(content string) string {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.Index(trimmed, "\n"); idx != -1 {
			trimmed = trimmed[idx+1:]
		}
		if end := strings.LastIndex(trimmed, "```"); end != -1 {
			trimmed = trimmed[:end]
		}
		return strings.TrimSpace(trimmed)
	}
	return trimmed
}
