package textutil

import "strings"

// SanitizeFileName makes a deck title safe to use as a download file
// name. Path separators, colons, and asterisks become dashes; other
// characters rejected by common filesystems are dropped. Surrounding
// whitespace is trimmed from the result.
func SanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch r {
		case '/', '\\', ':', '*':
			b.WriteByte('-')
		case '?', '"', '<', '>', '|':
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
