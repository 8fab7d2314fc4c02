package util

import "strings"

func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// SanitizePostgresText strips invalid UTF-8 sequences and NUL bytes that
// Postgres rejects in text columns.
func SanitizePostgresText(value string) string {
	if value == "" {
		return value
	}

	sanitized := strings.ToValidUTF8(value, "")
	return strings.ReplaceAll(sanitized, "\x00", "")
}
