// Package llmtext recovers structured fields from free-form model output.
// Models are asked for strict JSON but frequently wrap it in markdown fences
// or answer in prose, so extraction degrades in stages: fence-stripped JSON
// parse first, then a line-based heuristic over the raw text.
package llmtext

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrMissingFields = errors.New("expected fields missing from model output")

// StripFences returns the content of the first ```json fenced block, or the
// first generic ``` block when no json fence exists, or the trimmed input
// when there are no fences at all. Later fenced blocks are ignored.
func StripFences(raw string) string {
	if start := strings.Index(raw, "```json"); start >= 0 {
		rest := raw[start+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
	} else if start := strings.Index(raw, "```"); start >= 0 {
		rest := raw[start+len("```"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
	}
	return strings.TrimSpace(raw)
}

// ExtractFields pulls the named string fields out of raw model output. It
// first attempts a strict JSON parse of the fence-stripped text; when that
// fails, or any field is missing or empty, it falls back to scanning lines
// for the field's leading name token and taking the substring after the
// first colon, with surrounding quotes trimmed. Values that themselves
// start with a labelled prefix keep everything after that line's first
// colon, a known limitation of the fallback.
func ExtractFields(raw string, keys []string) (map[string]string, error) {
	if parsed, ok := parseJSONFields(StripFences(raw), keys); ok {
		return parsed, nil
	}
	if parsed, ok := scanLineFields(raw, keys); ok {
		return parsed, nil
	}
	return nil, ErrMissingFields
}

func parseJSONFields(text string, keys []string) (map[string]string, bool) {
	var decoded map[string]any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return nil, false
	}

	out := make(map[string]string, len(keys))
	for _, key := range keys {
		value, ok := decoded[key].(string)
		if !ok || strings.TrimSpace(value) == "" {
			return nil, false
		}
		out[key] = value
	}
	return out, true
}

func scanLineFields(raw string, keys []string) (map[string]string, bool) {
	lines := strings.Split(strings.TrimSpace(raw), "\n")

	out := make(map[string]string, len(keys))
	for _, key := range keys {
		hint := strings.ToLower(strings.SplitN(key, "_", 2)[0])
		for _, line := range lines {
			if !strings.Contains(strings.ToLower(line), hint) {
				continue
			}
			value := line
			if _, after, found := strings.Cut(line, ":"); found {
				value = after
			}
			value = strings.Trim(strings.TrimSpace(value), `"`)
			if value != "" {
				out[key] = value
				break
			}
		}
		if _, found := out[key]; !found {
			return nil, false
		}
	}
	return out, true
}
