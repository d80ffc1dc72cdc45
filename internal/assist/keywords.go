package assist

import (
	"strings"
	"unicode"
)

// stopWords are common filler words excluded from keyword extraction.
// Words of length <= 2 are dropped unconditionally, so only longer
// fillers need to be listed.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "was": {}, "were": {},
	"this": {}, "that": {}, "with": {}, "from": {}, "have": {}, "has": {},
	"had": {}, "what": {}, "when": {}, "where": {}, "which": {}, "who": {},
	"why": {}, "how": {}, "does": {}, "did": {}, "can": {}, "could": {},
	"will": {}, "would": {}, "should": {}, "about": {}, "tell": {},
	"know": {}, "you": {}, "your": {}, "youre": {}, "its": {}, "their": {},
	"there": {}, "them": {}, "then": {}, "some": {}, "any": {},
}

// ExtractKeywords lower-cases the input, strips non-alphanumeric characters,
// splits on whitespace and drops short tokens and stop-words. It is
// deterministic and never fails; empty input yields an empty list.
func ExtractKeywords(s string) []string {
	words := splitWords(s)
	keywords := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) <= 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		keywords = append(keywords, w)
	}
	return keywords
}

// splitWords lower-cases s, removes everything that is not a letter, digit
// or whitespace, and splits into words.
func splitWords(s string) []string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
			b.WriteRune(r)
		default:
			// Punctuation between letters usually glues a word together
			// ("what's" -> "whats"), so drop rather than replace with space.
		}
	}
	return strings.Fields(b.String())
}

// Query is the normalized form of one user input, computed once per dispatch
// and handed to every rule predicate.
type Query struct {
	Raw        string
	Normalized string   // lower-cased, punctuation stripped, whitespace collapsed
	Words      []string // all words of Normalized
	Keywords   []string // Words minus stop-words and short tokens
}

// NewQuery normalizes raw user input.
func NewQuery(raw string) Query {
	words := splitWords(raw)
	return Query{
		Raw:        raw,
		Normalized: strings.Join(words, " "),
		Words:      words,
		Keywords:   ExtractKeywords(raw),
	}
}

// hasPhrasePrefix reports whether the normalized query starts with the given
// phrase on a word boundary ("hi there" matches "hi", "hire me" does not).
func hasPhrasePrefix(normalized, phrase string) bool {
	return normalized == phrase || strings.HasPrefix(normalized, phrase+" ")
}

// hasPhrase reports whether the phrase occurs in the normalized query on
// word boundaries.
func hasPhrase(normalized, phrase string) bool {
	if normalized == phrase {
		return true
	}
	if strings.HasPrefix(normalized, phrase+" ") || strings.HasSuffix(normalized, " "+phrase) {
		return true
	}
	return strings.Contains(normalized, " "+phrase+" ")
}

// hasAnyPhrase reports whether any of the phrases occurs in the query.
func hasAnyPhrase(normalized string, phrases []string) bool {
	for _, p := range phrases {
		if hasPhrase(normalized, p) {
			return true
		}
	}
	return false
}

// containsAnyWord reports whether any of the given words appears verbatim
// among the query words.
func containsAnyWord(words []string, targets ...string) bool {
	for _, w := range words {
		for _, t := range targets {
			if w == t {
				return true
			}
		}
	}
	return false
}
