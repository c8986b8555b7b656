package ingest

import "strings"

// NormalizePhone strips every non-digit character from a raw phone string.
// full is the remaining digit string; last4 is its final 4 characters, or the
// whole string when fewer than 4 digits remain. No padding, no rejection.
func NormalizePhone(raw string) (full, last4 string) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	full = b.String()
	last4 = full
	if len(full) > 4 {
		last4 = full[len(full)-4:]
	}
	return full, last4
}

// NormalizeTracking strips everything that is not an ASCII letter or digit.
// Case is preserved: "abc123" and "ABC123" stay distinct tracking numbers.
func NormalizeTracking(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
