package assist

import "strings"

// FuzzyMatch reports whether any word of text shares a substring relationship
// with any word of any pattern, in either direction, considering only text
// words longer than 2 characters.
//
// The bidirectional containment deliberately over-matches on short pattern
// words ("go" matches inside "good"). That looseness is a known
// precision/recall trade-off the rule table depends on; do not tighten it
// without revisiting every predicate built on top.
func FuzzyMatch(text string, patterns []string) bool {
	words := splitWords(text)
	for _, pattern := range patterns {
		for _, pw := range splitWords(pattern) {
			for _, w := range words {
				if len(w) <= 2 {
					continue
				}
				if strings.Contains(w, pw) || strings.Contains(pw, w) {
					return true
				}
			}
		}
	}
	return false
}
