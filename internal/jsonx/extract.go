// Package jsonx holds the single "extract a JSON object from model text"
// helper. Centralising it keeps the fallback order fixed and testable instead
// of scattering fence-stripping variants across components.
package jsonx

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractObject parses exactly one JSON object out of model output text.
// Fallback order is fixed: direct parse, then code-fence stripping, then
// failure. The returned bytes are the trimmed JSON source of the object.
func ExtractObject(text string) ([]byte, error) {
	trimmed := strings.TrimSpace(text)
	if data, err := parseObject(trimmed); err == nil {
		return data, nil
	}
	if stripped, ok := stripFences(trimmed); ok {
		if data, err := parseObject(stripped); err == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("model output is not a single JSON object")
}

func parseObject(text string) ([]byte, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &probe); err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// stripFences removes a surrounding markdown code fence, tolerating an
// optional language tag on the opening line.
func stripFences(text string) (string, bool) {
	if !strings.HasPrefix(text, "```") {
		return "", false
	}
	body := strings.TrimPrefix(text, "```")
	if idx := strings.IndexByte(body, '\n'); idx >= 0 {
		first := strings.TrimSpace(body[:idx])
		if first == "" || !strings.ContainsAny(first, "{}") {
			body = body[idx+1:]
		}
	}
	body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	return strings.TrimSpace(body), true
}
