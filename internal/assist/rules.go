package assist

import "context"

// Vocabulary sets backing the rule predicates. Kept as data so individual
// rules stay independently testable.
var (
	greetingPhrases = []string{
		"hi", "hello", "hey", "yo", "howdy", "greetings",
		"good morning", "good afternoon", "good evening",
		"whats up", "sup",
	}

	thanksWords = []string{"thank", "thanks", "thx", "appreciate", "cheers"}

	writingWords = []string{"write", "writing", "blog", "blogging", "article", "author", "wrote"}

	blogNounWords = []string{"blog", "post", "posts", "article", "articles", "writing"}

	projectWords = []string{"project", "projects", "repo", "repos", "repository", "repositories", "portfolio"}

	skillPhrases = []string{
		"do you know", "do you use", "have you used",
		"experience with", "experienced with", "worked with",
		"familiar with", "skilled in", "proficient in",
	}

	skillsWords = []string{"skill", "skills", "stack", "technologies", "technology", "tooling", "languages"}

	contactWords = []string{"contact", "email", "reach", "touch", "hire", "hiring", "connect"}

	hiringWords = []string{"hire", "hiring", "work", "opportunity", "opportunities", "job", "freelance"}

	introPhrases = []string{
		"who are you", "introduce yourself", "tell me about yourself",
		"whats your name", "who is this", "about yourself",
	}

	activityWords = []string{"activity", "commit", "commits", "contribution", "contributions"}

	bookmarkWords = []string{"bookmark", "bookmarks", "recommendation", "recommendations", "reading list"}

	goToPhrases = []string{"go to", "navigate to", "take me to", "bring me to", "open the"}

	moreInfoPhrases = []string{"tell me more", "what else", "more info", "anything else"}
)

// destination maps a spoken keyword to a site path and label for the
// explicit go-to rule.
type destination struct {
	Keyword string
	Path    string
	Label   string
}

var destinations = []destination{
	{"home", "/", "home"},
	{"projects", "/projects", "projects"},
	{"about", "/about", "about"},
	{"profile", "/about", "about"},
	{"activity", "/activity", "activity"},
	{"bookmarks", "/bookmarks", "bookmarks"},
}

// buildRules assembles the ordered intent table. Ordering is most specific
// to least specific and is load-bearing: several predicates rely on an
// earlier rule having already claimed overlapping queries.
func (s *Session) buildRules() []Rule {
	return []Rule{
		{
			Name:     "greeting",
			Priority: 1,
			Match: func(q Query) bool {
				for _, g := range greetingPhrases {
					if hasPhrasePrefix(q.Normalized, g) {
						return true
					}
				}
				return false
			},
			Handle: s.handleGreeting,
		},
		{
			Name:     "thanks",
			Priority: 2,
			Match: func(q Query) bool {
				return FuzzyMatch(q.Normalized, thanksWords)
			},
			Handle: s.handleThanks,
		},
		{
			Name:     "post_lookup",
			Priority: 3,
			Match: func(q Query) bool {
				if !hasQuestionPhrase(q.Normalized) {
					return false
				}
				subject := extractSubject(q.Normalized)
				if subject == "" || isSelfSubject(subject) {
					return false
				}
				// "whats your latest post" is a listing request, not an
				// entity lookup.
				if containsAnyWord(q.Words, "latest", "recent", "newest", "last") {
					return false
				}
				// Project, skill and contact questions belong to their own
				// rules further down.
				if containsAnyWord(q.Words, projectWords...) {
					return false
				}
				if containsAnyWord(q.Words, skillsWords...) {
					return false
				}
				return !containsAnyWord(q.Words, contactWords...)
			},
			Handle: s.handlePostLookup,
		},
		{
			Name:     "writing",
			Priority: 4,
			Match: func(q Query) bool {
				// Mutually exclusive with post_lookup: a question phrase
				// means the visitor asked about a specific thing, not about
				// writing in general. Listing verbs belong to the rules
				// below.
				if hasQuestionPhrase(q.Normalized) {
					return false
				}
				if containsAnyWord(q.Words, "show", "display", "view", "list", "latest", "recent", "newest", "last") {
					return false
				}
				return FuzzyMatch(q.Normalized, writingWords)
			},
			Handle: s.handleWriting,
		},
		{
			Name:     "show_posts",
			Priority: 5,
			Match: func(q Query) bool {
				if !containsAnyWord(q.Words, "show", "display", "view", "list") {
					return false
				}
				// "show me your latest post" is the latest-post rule's.
				if containsAnyWord(q.Words, "latest", "recent", "newest", "last") {
					return false
				}
				return containsAnyWord(q.Words, blogNounWords...)
			},
			Handle: s.handleShowPosts,
		},
		{
			Name:     "latest_post",
			Priority: 6,
			Match: func(q Query) bool {
				return containsAnyWord(q.Words, "latest", "recent", "newest", "last") &&
					containsAnyWord(q.Words, blogNounWords...)
			},
			Handle: s.handleLatestPost,
		},
		{
			Name:     "project_lookup",
			Priority: 7,
			Match: func(q Query) bool {
				if !hasQuestionPhrase(q.Normalized) {
					return false
				}
				subject := extractSubject(q.Normalized)
				if subject == "" || isSelfSubject(subject) {
					return false
				}
				if !containsAnyWord(q.Words, projectWords...) {
					return false
				}
				// "tell me about your projects" has no entity left once the
				// project words are gone; that is a listing request.
				return stripWords(subject, projectWords) != ""
			},
			Handle: s.handleProjectLookup,
		},
		{
			Name:     "projects",
			Priority: 8,
			Match: func(q Query) bool {
				return FuzzyMatch(q.Normalized, projectWords)
			},
			Handle: s.handleProjects,
		},
		{
			Name:     "skill_lookup",
			Priority: 9,
			Match: func(q Query) bool {
				return hasAnyPhrase(q.Normalized, skillPhrases)
			},
			Handle: s.handleSkillLookup,
		},
		{
			Name:     "skills",
			Priority: 10,
			Match: func(q Query) bool {
				return FuzzyMatch(q.Normalized, skillsWords)
			},
			Handle: s.handleSkills,
		},
		{
			Name:     "contact",
			Priority: 11,
			Match: func(q Query) bool {
				return FuzzyMatch(q.Normalized, contactWords)
			},
			Handle: s.handleContact,
		},
		{
			Name:     "introduction",
			Priority: 12,
			Match: func(q Query) bool {
				// Tight phrase matching so the generic greeting rule keeps
				// owning bare salutations.
				return hasAnyPhrase(q.Normalized, introPhrases)
			},
			Handle: s.handleIntroduction,
		},
		{
			Name:     "activity_nav",
			Priority: 13,
			Match: func(q Query) bool {
				return FuzzyMatch(q.Normalized, activityWords)
			},
			Handle: s.handleActivityNav,
		},
		{
			Name:     "bookmarks_nav",
			Priority: 14,
			Match: func(q Query) bool {
				return FuzzyMatch(q.Normalized, bookmarkWords)
			},
			Handle: s.handleBookmarksNav,
		},
		{
			Name:     "go_to",
			Priority: 15,
			Match: func(q Query) bool {
				if !hasAnyPhrase(q.Normalized, goToPhrases) {
					return false
				}
				if containsAnyWord(q.Words, blogNounWords...) {
					return false
				}
				_, ok := destinationFor(q.Words)
				return ok
			},
			Handle: s.handleGoTo,
		},
		{
			Name:     "clarify",
			Priority: 16,
			Match: func(q Query) bool {
				return len(q.Words) <= 2 || hasAnyPhrase(q.Normalized, moreInfoPhrases)
			},
			Handle: s.handleClarify,
		},
		{
			Name:     "fallback",
			Priority: 17,
			Match:    func(q Query) bool { return true },
			Handle: func(ctx context.Context, q Query) Message {
				return s.fallbackReply()
			},
		},
	}
}

func destinationFor(words []string) (destination, bool) {
	for _, d := range destinations {
		if containsAnyWord(words, d.Keyword) {
			return d, true
		}
	}
	return destination{}, false
}
