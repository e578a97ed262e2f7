package domain

import "strings"

// NormalizeField canonicalizes a free-text identity field for comparison:
// control characters are dropped, leading/trailing whitespace is stripped
// and internal whitespace runs collapse to a single space. The result is
// stable under repeated application.
func NormalizeField(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 0x20 || r == '\n' || r == '\r' || r == '\t' {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
