package assist

import "strings"

// questionPhrases trigger a specific-entity lookup. Ordered longest-first so
// prefix stripping removes the most specific phrase.
var questionPhrases = []string{
	"what do you know about",
	"tell me more about",
	"tell me about",
	"what is",
	"what are",
	"whats",
	"summarize",
	"summarise",
	"explain",
	"describe",
}

// selfWords are subjects that refer to the owner rather than to a post or
// project; specific-entity rules must not swallow those.
var selfWords = map[string]struct{}{
	"you": {}, "yourself": {}, "yours": {}, "name": {}, "this": {}, "that": {},
}

func hasQuestionPhrase(normalized string) bool {
	return hasAnyPhrase(normalized, questionPhrases)
}

// extractSubject strips question-phrase prefixes and leading articles from a
// normalized query, returning the remaining subject string. Returns "" when
// nothing but question words remain.
func extractSubject(normalized string) string {
	s := normalized
	for stripped := true; stripped; {
		stripped = false
		for _, phrase := range questionPhrases {
			if hasPhrasePrefix(s, phrase) {
				s = strings.TrimSpace(strings.TrimPrefix(s, phrase))
				stripped = true
			}
		}
		for _, article := range []string{"the", "a", "an", "your", "about"} {
			if hasPhrasePrefix(s, article) {
				s = strings.TrimSpace(strings.TrimPrefix(s, article))
				stripped = true
			}
		}
	}
	return s
}

// isSelfSubject reports whether the subject refers to the owner.
func isSelfSubject(subject string) bool {
	_, ok := selfWords[subject]
	return ok
}

// overlapScore scores how well a subject matches a candidate's searchable
// text: one point per overlapping significant word, plus a containment bonus
// when either string contains the other outright. Zero means no match.
func overlapScore(subject string, subjectKeys []string, candidate string) int {
	c := strings.ToLower(candidate)
	score := 0
	for _, k := range subjectKeys {
		if strings.Contains(c, k) {
			score++
		}
	}
	if subject != "" && (strings.Contains(c, subject) || strings.Contains(subject, c)) {
		score += 3
	}
	return score
}

// bestPost returns the post best matching the subject, scoring against
// title, slug and summary. Ties break toward the earliest post in fetch
// order.
func bestPost(subject string, posts []Post) (Post, bool) {
	keys := ExtractKeywords(subject)
	best := -1
	bestScore := 0
	for i, p := range posts {
		text := p.Title + " " + strings.ReplaceAll(p.Slug, "-", " ") + " " + p.Summary
		if score := overlapScore(subject, keys, text); score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return Post{}, false
	}
	return posts[best], true
}

// bestRepo is the repository analogue of bestPost, scoped to name and
// description.
func bestRepo(subject string, repos []Repo) (Repo, bool) {
	keys := ExtractKeywords(subject)
	best := -1
	bestScore := 0
	for i, r := range repos {
		text := strings.ReplaceAll(r.Name, "-", " ") + " " + r.Description
		if score := overlapScore(subject, keys, text); score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return Repo{}, false
	}
	return repos[best], true
}

// postSummary returns the post's summary, or a truncated plain-text body
// with an ellipsis when no summary exists. Never fabricates text.
func postSummary(p Post) string {
	if p.Summary != "" {
		return p.Summary
	}
	body := strings.Join(strings.Fields(p.Body), " ")
	const maxLen = 160
	if len(body) <= maxLen {
		return body
	}
	cut := body[:maxLen]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}
