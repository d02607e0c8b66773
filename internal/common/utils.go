package common

import "strings"

// HasAny returns true if s contains any of the substrings, ignoring case.
func HasAny(s string, subs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// RuneLen counts characters rather than bytes, so "Zürich" is six long.
func RuneLen(s string) int {
	return len([]rune(s))
}
