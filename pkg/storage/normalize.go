package storage

import "strings"

// NormalizeMPN applies simple canonicalization suitable for identity
// comparisons across OCR-derived and hand-entered part numbers.
func NormalizeMPN(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		if r == ' ' || r == '-' || r == '_' || r == '.' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
