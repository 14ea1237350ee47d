package summarize

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// minPointLen drops degenerate list lines ("ok", "---", stray
// markers). It applies to the trimmed line before marker stripping, so
// a numbered short answer like "1. third" still survives.
const minPointLen = 5

// ParseError means object-schema repair could not recover a structured
// answer from the raw model text
type ParseError struct {
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("repairing model response: %s", e.Reason)
}

// Result is a validated object-schema answer. Image holds a
// placeholder token until the resolver replaces it.
type Result struct {
	Title       string   `json:"title"`
	Image       string   `json:"image"`
	Summary     []string `json:"summary"`
	ReadingTime int      `json:"reading_time_minutes"`
	Sentiment   string   `json:"sentiment"`
}

// RepairObject recovers a JSON object from raw model text that may be
// wrapped in prose or markdown fences: the substring between the first
// "{" and the last "}" (inclusive) is treated as the candidate object.
// The result is a generic value so the placeholder resolver can walk it.
func RepairObject(raw string) (map[string]interface{}, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return nil, &ParseError{Reason: "no JSON object found", Raw: raw}
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &obj); err != nil {
		return nil, &ParseError{Reason: err.Error(), Raw: raw}
	}
	return obj, nil
}

// bullet glyphs, dashes, asterisks and digit-dot/paren numbering
var bulletMarker = regexp.MustCompile(`^(?:[-*•‣▪–—>]+|\d+[.)])\s*`)

// RepairList splits raw model text into summary points: one per line,
// short lines dropped, then leading bullet/numbering markers stripped.
// This path never fails; malformed input degrades to an empty slice,
// which callers must treat as "no summary available", not as an error.
func RepairList(raw string) []string {
	var points []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= minPointLen {
			continue
		}
		line = strings.TrimSpace(bulletMarker.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		points = append(points, line)
	}
	return points
}

// DecodeResult maps a repaired (and resolved) generic object onto the
// typed Result. Unknown or mistyped fields degrade to zero values.
func DecodeResult(obj map[string]interface{}) *Result {
	res := &Result{}
	if s, ok := obj["title"].(string); ok {
		res.Title = s
	}
	if s, ok := obj["image"].(string); ok {
		res.Image = s
	}
	if items, ok := obj["summary"].([]interface{}); ok {
		for _, item := range items {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				res.Summary = append(res.Summary, s)
			}
		}
	}
	if f, ok := obj["reading_time_minutes"].(float64); ok {
		res.ReadingTime = int(f)
	}
	if s, ok := obj["sentiment"].(string); ok {
		res.Sentiment = s
	}
	return res
}
