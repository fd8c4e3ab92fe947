package util

import "strings"

// SanitizeText drops invalid UTF-8 sequences and NUL bytes. Extracted PDF
// text regularly contains both, and neither survives JSON encoding or a
// Postgres text column.
func SanitizeText(value string) string {
	if value == "" {
		return value
	}

	sanitized := strings.ToValidUTF8(value, "")
	return strings.ReplaceAll(sanitized, "\x00", "")
}
