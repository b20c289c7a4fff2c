// Package extract drives schema-typed LLM extraction: a structured-decode
// client with a resilient decode ladder, and the adapter operations built
// on top of it (metadata, entity/relationship graph, image description).
package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fencedObjectRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*\\})\\s*```")

// DecodeObject decodes raw model output into a JSON object using a
// descending-strictness ladder: (1) the whole trimmed text must parse as
// an object, (2) a fenced ```json block containing an object, (3) the
// substring from the first '{' to the last '}'. The first stage that
// yields an object wins.
func DecodeObject(raw string) (map[string]any, bool) {
	stripped := strings.TrimSpace(raw)
	if stripped == "" {
		return nil, false
	}

	if obj, ok := parseObject(stripped); ok {
		return obj, true
	}

	if m := fencedObjectRe.FindStringSubmatch(stripped); m != nil {
		if obj, ok := parseObject(m[1]); ok {
			return obj, true
		}
	}

	start := strings.Index(stripped, "{")
	end := strings.LastIndex(stripped, "}")
	if start == -1 || end <= start {
		return nil, false
	}
	return parseObject(stripped[start : end+1])
}

func parseObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}
