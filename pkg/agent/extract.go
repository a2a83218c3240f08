package agent

import (
	"encoding/json"
	"strings"
)

// extractOutput derives the caller-visible result from a raw assistant
// message according to the configured output mode. Parse failures in
// structured mode fall back to the trimmed text; they are a leniency, not an
// error.
func extractOutput(content string, cfg *Config) interface{} {
	text := strings.TrimSpace(content)

	if cfg.Cognition {
		if speak, ok := extractTag(content, "speak"); ok {
			text = strings.TrimSpace(speak)
		}
	}

	if cfg.StructuredOutputSchema != nil {
		if parsed, ok := parseStructured(text); ok {
			return parsed
		}
	}

	return text
}

// extractTag returns the substring between the first matching open/close pair
// of the given tag. This is a best-effort text protocol: first match only, no
// nesting.
func extractTag(content, tag string) (string, bool) {
	open := "<" + tag + ">"
	close := "</" + tag + ">"

	start := strings.Index(content, open)
	if start < 0 {
		return "", false
	}
	rest := content[start+len(open):]
	end := strings.Index(rest, close)
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// parseStructured attempts to read text as a JSON value, stripping a
// surrounding markdown code fence first if present.
func parseStructured(text string) (interface{}, bool) {
	candidate := stripCodeFence(text)

	var parsed interface{}
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil, false
	}

	switch parsed.(type) {
	case map[string]interface{}, []interface{}:
		return parsed, true
	default:
		// A bare scalar is not a structured payload.
		return nil, false
	}
}

func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
