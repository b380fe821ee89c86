package rag

import "strings"

// Models wrap JSON in code fences or prose more often than not; pull out
// the first balanced-looking object or array instead of trusting the raw
// output.
func extractJSONObject(raw string) string {
	return extractJSON(raw, "{", "}")
}

func extractJSONArray(raw string) string {
	return extractJSON(raw, "[", "]")
}

func extractJSON(raw, opening, closing string) string {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)
	start := strings.Index(clean, opening)
	end := strings.LastIndex(clean, closing)
	if start < 0 || end <= start {
		return ""
	}
	return clean[start : end+1]
}
