package llm

import (
	"regexp"
	"strings"
)

var fencedJSON = regexp.MustCompile("(?is)```json\\s*(.*?)\\s*```")

// SalvageJSON extracts the most plausible JSON document from model output:
// the raw string when it already parses as the caller expects, else the
// content of a ```json fence, else the widest {...} slice. Returns "" when
// nothing JSON-shaped is present.
func SalvageJSON(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return trimmed
	}
	if m := fencedJSON.FindStringSubmatch(raw); len(m) == 2 {
		return strings.TrimSpace(m[1])
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start != -1 && end > start {
		return raw[start : end+1]
	}
	start = strings.Index(raw, "[")
	end = strings.LastIndex(raw, "]")
	if start != -1 && end > start {
		return raw[start : end+1]
	}
	return ""
}
