package extraction

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrParse means the model answered but no JSON object could be recovered.
var ErrParse = errors.New("extraction: unparseable model output")

// parseObject recovers a JSON object from a raw model answer: code fences
// are stripped, surrounding prose is trimmed, and as a last resort every
// balanced {...} span is tried in order.
func parseObject(raw string) (map[string]any, error) {
	s := stripCodeFences(raw)
	if s == "" {
		return nil, fmt.Errorf("%w: empty response", ErrParse)
	}

	if obj, ok := decodeObject(s); ok {
		return obj, nil
	}
	if start, end := strings.Index(s, "{"), strings.LastIndex(s, "}"); start >= 0 && end > start {
		if obj, ok := decodeObject(s[start : end+1]); ok {
			return obj, nil
		}
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '{' {
			continue
		}
		if end := matchBrace(s, i); end > 0 {
			if obj, ok := decodeObject(s[i : end+1]); ok {
				return obj, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: no JSON object in %d bytes", ErrParse, len(raw))
}

func decodeObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// stripCodeFences unwraps the first fenced block, wherever it starts.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	open := strings.Index(s, "```")
	if open < 0 {
		return s
	}
	body := s[open+3:]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		// drop the language tag line, e.g. ```json
		if tag := strings.TrimSpace(body[:nl]); !strings.ContainsAny(tag, "{[") {
			body = body[nl+1:]
		}
	}
	if closing := strings.Index(body, "```"); closing >= 0 {
		body = body[:closing]
	}
	return strings.TrimSpace(body)
}

// matchBrace returns the index of the brace closing the one at start,
// ignoring braces inside JSON strings, or -1.
func matchBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
