package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	// fenced matches a JSON object inside a markdown code block.
	fenced = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\{.*\\})\\s*```")
	// object is the greedy fallback for prose around a bare object.
	object        = regexp.MustCompile(`(?s)\{[\s\S]*\}`)
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
)

// StripCodeFences removes a surrounding ```json fence, if any.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ExtractJSON pulls the first JSON object out of a model reply, tolerating
// code fences, leading prose and trailing commas. Valid JSON is returned
// untouched; commas are only stripped when it does not parse. Returns ""
// when there is no object.
func ExtractJSON(content string) string {
	raw := ""
	if m := fenced.FindStringSubmatch(content); len(m) > 1 {
		raw = m[1]
	} else if m := object.FindString(content); m != "" {
		raw = m
	}
	if raw == "" {
		return ""
	}
	if json.Valid([]byte(raw)) {
		return raw
	}
	return trailingComma.ReplaceAllString(raw, "$1")
}
