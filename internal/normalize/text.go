package normalize

import "strings"

func Trim(value string) string {
	return strings.TrimSpace(value)
}

func Lower(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func EqualFoldTrimmed(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Key canonicalizes a spreadsheet column header for schema matching:
// lowercased with spaces, underscores, and dashes removed.
func Key(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, value)
}
