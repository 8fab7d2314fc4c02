package ai

import (
	"strings"

	"github.com/papermind-ai/papermind/pkg/common"
	"github.com/papermind-ai/papermind/pkg/logger"
)

// ParseEntityRecord turns a model response into an EntityRecord. It
// tolerates code-fence wrapping and leading chatter, falls back to the
// first balanced JSON object in the response, and returns an all-empty
// record when nothing parses. It never fails: extraction over many
// documents must not abort because one response is garbage.
func ParseEntityRecord(response string) *common.EntityRecord {
	candidate := stripCodeFence(response)

	var record common.EntityRecord
	if err := UnmarshalFlexible(candidate, &record); err == nil {
		return cleanRecord(&record)
	}

	if block := firstBalancedObject(candidate); block != "" {
		if err := UnmarshalFlexible(block, &record); err == nil {
			return cleanRecord(&record)
		}
	}

	logger.Warn("[AI] Unparseable entity response, using empty record",
		"response_prefix", prefix(response, 100))
	return &common.EntityRecord{}
}

// stripCodeFence unwraps ```json ... ``` style fences.
func stripCodeFence(response string) string {
	trimmed := strings.TrimSpace(response)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if newline := strings.Index(trimmed, "\n"); newline >= 0 {
		// Drop the language tag line.
		if lang := strings.TrimSpace(trimmed[:newline]); lang == "" || !strings.ContainsAny(lang, "{}") {
			trimmed = trimmed[newline+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// firstBalancedObject returns the first {...} block with balanced
// braces, respecting string literals so braces inside values do not
// throw the count off.
func firstBalancedObject(text string) string {
	start := strings.Index(text, "{")
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

// cleanRecord trims entries, drops empties and enforces per-category
// caps so an over-eager model cannot flood the graph.
func cleanRecord(record *common.EntityRecord) *common.EntityRecord {
	caps := map[string]int{
		"keywords":     MaxKeywordsPerDoc,
		"methods":      MaxMethodsPerDoc,
		"fields":       MaxFieldsPerDoc,
		"datasets":     MaxDatasetsPerDoc,
		"applications": MaxApplicationsPerDoc,
	}
	for _, category := range common.Categories {
		var kept []string
		for _, value := range record.Category(category) {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			kept = append(kept, value)
			if len(kept) == caps[category] {
				break
			}
		}
		record.SetCategory(category, kept)
	}
	return record
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
