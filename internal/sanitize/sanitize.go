// Package sanitize redacts credentials from endpoint descriptions before
// they are embedded into model prompts.
package sanitize

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/yourorg/rest2mcp/internal/config"
)

// Redact removes sensitive material from a raw endpoint description. The
// description is opaque: it may be a URL, a spec fragment with header
// lines, or a JSON document. All three shapes are handled.
func Redact(description string, cfg config.SanitizeConfig) string {
	headerSet := toLowerSet(cfg.Headers)
	fieldSet := toLowerSet(cfg.Fields)

	if out, ok := redactJSON(description, fieldSet, cfg.Replacement); ok {
		return out
	}

	lines := strings.Split(description, "\n")
	for i, line := range lines {
		lines[i] = redactHeaderLine(line, headerSet, cfg.Replacement)
	}
	return redactQueryValues(strings.Join(lines, "\n"), fieldSet, cfg.Replacement)
}

func toLowerSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, v := range items {
		v = strings.TrimSpace(strings.ToLower(v))
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	return set
}

// redactHeaderLine rewrites "Header-Name: value" lines whose name is in
// the configured set. Lines without a colon pass through untouched.
func redactHeaderLine(line string, set map[string]struct{}, replacement string) string {
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return line
	}
	name := strings.TrimSpace(line[:idx])
	if _, ok := set[strings.ToLower(name)]; !ok {
		return line
	}
	return line[:idx] + ": " + replacement
}

func redactQueryValues(s string, set map[string]struct{}, replacement string) string {
	for field := range set {
		re := regexp.MustCompile(`(?i)([?&]` + regexp.QuoteMeta(field) + `=)[^&\s]+`)
		s = re.ReplaceAllString(s, "${1}"+replacement)
	}
	return s
}

func redactJSON(description string, set map[string]struct{}, replacement string) (string, bool) {
	trimmed := strings.TrimSpace(description)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return "", false
	}
	var v interface{}
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return "", false
	}
	v = redactJSONValue(v, set, replacement)
	out, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(out), true
}

func redactJSONValue(v interface{}, set map[string]struct{}, replacement string) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, v2 := range val {
			if _, ok := set[strings.ToLower(k)]; ok {
				val[k] = replacement
				continue
			}
			val[k] = redactJSONValue(v2, set, replacement)
		}
		return val
	case []interface{}:
		for i := range val {
			val[i] = redactJSONValue(val[i], set, replacement)
		}
		return val
	default:
		return val
	}
}
