package assist

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

var greetingReplies = []string{
	"Hey there! I'm the assistant for this site. Ask me about projects, posts, or how to get in touch.",
	"Hello! Happy to show you around — try asking about my projects or what I write about.",
	"Hi! I can tell you about the projects here, the blog, or how to reach the owner.",
}

var defaultSuggestions = []string{
	"Show me your projects",
	"What do you write about?",
	"What are your skills?",
	"How can I contact you?",
}

const maxListedPosts = 5
const maxListedProjects = 6
const maxSkills = 15

func (s *Session) handleGreeting(ctx context.Context, q Query) Message {
	reply := greetingReplies[s.randIntN(len(greetingReplies))]
	return s.assistantMessage(reply, "", nil, defaultSuggestions[:3])
}

func (s *Session) handleThanks(ctx context.Context, q Query) Message {
	return s.assistantMessage(
		"You're welcome! Anything else you'd like to know?",
		"", nil,
		[]string{"Show me your projects", "What's your latest post?", "How can I contact you?"},
	)
}

func (s *Session) handlePostLookup(ctx context.Context, q Query) Message {
	subject := extractSubject(q.Normalized)

	posts, err := s.fetchPosts(ctx)
	if err != nil {
		return s.postsUnavailableReply()
	}

	post, ok := bestPost(subject, posts)
	if !ok {
		// No title/slug/summary matched the subject; recover with a listing
		// of recent posts instead of failing outright.
		content := fmt.Sprintf("I couldn't find a post about %q, but here are the most recent ones.", subject)
		return s.assistantMessage(content, CardBlog, &Card{Posts: postCards(posts, maxListedPosts)},
			[]string{"What's your latest post?", "What do you write about?", "Show me your projects"})
	}

	content := fmt.Sprintf("%s — %s", post.Title, postSummary(post))
	card := &Card{
		Posts:    []PostCard{postCard(post)},
		PostSlug: post.Slug,
	}
	return s.assistantMessage(content, CardBlog, card, []string{
		"Show me more posts",
		"What's your latest post?",
		"Show me your projects",
	})
}

func (s *Session) handleWriting(ctx context.Context, q Query) Message {
	posts, err := s.fetchPosts(ctx)
	if err != nil {
		return s.postsUnavailableReply()
	}
	if len(posts) == 0 {
		return s.assistantMessage(
			"I do write, though nothing is published just yet. Check back soon!",
			"", nil, defaultSuggestions[:3])
	}

	topics := tagUnion(posts, 5)
	var content string
	if len(topics) > 0 {
		content = fmt.Sprintf("Yes! I write about %s. Here are some recent posts.", strings.Join(topics, ", "))
	} else {
		content = "Yes! Here are some recent posts from the blog."
	}
	return s.assistantMessage(content, CardBlog, &Card{Posts: postCards(posts, maxListedPosts)},
		[]string{"What's your latest post?", "Show me your projects", "What are your skills?"})
}

func (s *Session) handleShowPosts(ctx context.Context, q Query) Message {
	posts, err := s.fetchPosts(ctx)
	if err != nil {
		return s.postsUnavailableReply()
	}
	if len(posts) == 0 {
		return s.assistantMessage(
			"The blog is empty right now — new posts are on the way.",
			"", nil, defaultSuggestions[:3])
	}

	content := fmt.Sprintf("Here are the %d most recent posts.", min(len(posts), maxListedPosts))
	return s.assistantMessage(content, CardBlog, &Card{Posts: postCards(posts, maxListedPosts)},
		[]string{"What's your latest post?", "Tell me about the first one", "Show me your projects"})
}

func (s *Session) handleLatestPost(ctx context.Context, q Query) Message {
	posts, err := s.fetchPosts(ctx)
	if err != nil {
		return s.postsUnavailableReply()
	}
	if len(posts) == 0 {
		return s.assistantMessage(
			"The blog is empty right now — new posts are on the way.",
			"", nil, defaultSuggestions[:3])
	}

	latest := posts[0]
	content := fmt.Sprintf("The latest post is %q — %s", latest.Title, postSummary(latest))
	card := &Card{Posts: []PostCard{postCard(latest)}, PostSlug: latest.Slug}
	return s.assistantMessage(content, CardBlog, card, []string{
		"Summarize " + latest.Title,
		"Show me all posts",
		"What do you write about?",
	})
}

func (s *Session) handleProjectLookup(ctx context.Context, q Query) Message {
	subject := stripWords(extractSubject(q.Normalized), projectWords)

	repos, err := s.fetchRepos(ctx)
	if err != nil {
		return s.reposUnavailableReply()
	}

	repo, ok := bestRepo(subject, repos)
	if !ok {
		content := fmt.Sprintf("I couldn't find a project matching %q, but here are some of them.", subject)
		return s.assistantMessage(content, CardProjects, &Card{Projects: projectCards(repos, maxListedProjects)},
			[]string{"Show me your most popular projects", "What are your skills?", "What do you write about?"})
	}

	content := fmt.Sprintf("%s — %s", repo.Name, repoBlurb(repo))
	return s.assistantMessage(content, CardProjects, &Card{Projects: []ProjectCard{projectCard(repo)}},
		[]string{"Show me more projects", "What are your skills?", "How can I contact you?"})
}

func (s *Session) handleProjects(ctx context.Context, q Query) Message {
	repos, err := s.fetchRepos(ctx)
	if err != nil {
		return s.reposUnavailableReply()
	}
	if len(repos) == 0 {
		return s.assistantMessage(
			"No public projects to show right now — check the projects page later.",
			"", nil, defaultSuggestions[:3])
	}

	// Sub-context varies with extra keywords in the same query.
	var content string
	switch {
	case containsAnyWord(q.Words, "latest", "recent", "new", "newest"):
		content = "Here are the projects I've worked on most recently."
	case containsAnyWord(q.Words, "popular", "best", "top", "starred"):
		sorted := make([]Repo, len(repos))
		copy(sorted, repos)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Stars > sorted[j].Stars })
		repos = sorted
		content = "These are the most popular projects, by stars."
	default:
		content = fmt.Sprintf("I have %d public projects. Here are a few of them.", len(repos))
	}

	return s.assistantMessage(content, CardProjects, &Card{Projects: projectCards(repos, maxListedProjects)},
		[]string{"Tell me about the first project", "What are your skills?", "What do you write about?"})
}

func (s *Session) handleSkillLookup(ctx context.Context, q Query) Message {
	tech := extractTech(q)
	if tech == "" {
		return s.handleSkills(ctx, q)
	}

	repos, err := s.fetchRepos(ctx)
	if err != nil {
		return s.reposUnavailableReply()
	}

	matched := filterReposByTech(repos, tech)
	if len(matched) == 0 {
		content := fmt.Sprintf("I don't have public work with %s yet, but here's what I do use.", tech)
		return s.assistantMessage(content, "", nil,
			[]string{"What are your skills?", "Show me your projects", "What do you write about?"})
	}

	examples := matched
	if len(examples) > 3 {
		examples = examples[:3]
	}
	names := make([]string, len(examples))
	for i, r := range examples {
		names[i] = r.Name
	}
	content := fmt.Sprintf("Yes — %d of my projects use %s, including %s.",
		len(matched), tech, strings.Join(names, ", "))
	return s.assistantMessage(content, CardProjects, &Card{Projects: projectCards(examples, 3)},
		[]string{"Show me all projects", "What are your skills?", "How can I contact you?"})
}

func (s *Session) handleSkills(ctx context.Context, q Query) Message {
	repos, err := s.fetchRepos(ctx)
	if err != nil {
		return s.reposUnavailableReply()
	}

	skills := topicUnion(repos, maxSkills)
	if len(skills) == 0 {
		return s.assistantMessage(
			"My projects don't list topics yet — have a look at the projects page for the full picture.",
			"", nil, []string{"Show me your projects", "What do you write about?", "How can I contact you?"})
	}

	content := "Here's the tech I've been working with: " + strings.Join(skills, ", ") + "."
	return s.assistantMessage(content, "", nil,
		[]string{"Show me your projects", "Do you know Docker?", "What do you write about?"})
}

func (s *Session) handleContact(ctx context.Context, q Query) Message {
	p := s.profileSnapshot(ctx)

	hiring := FuzzyMatch(q.Normalized, hiringWords)
	var content string
	switch {
	case hiring && p.Email != "":
		content = fmt.Sprintf("Always happy to hear about new opportunities — email me at %s and I'll get back to you.", p.Email)
	case hiring:
		content = "Always happy to hear about new opportunities — the contact links below are the best way to reach me."
	case p.Email != "":
		content = fmt.Sprintf("You can reach me at %s, or through any of the links below.", p.Email)
	default:
		content = "The links below are the best way to get in touch."
	}

	return s.assistantMessage(content, CardProfile, &Card{Profile: profileCard(p)},
		[]string{"Who are you?", "Show me your projects", "What do you write about?"})
}

func (s *Session) handleIntroduction(ctx context.Context, q Query) Message {
	p := s.profileSnapshot(ctx)
	content := fmt.Sprintf("I'm %s. %s", p.Name, p.Bio)
	return s.assistantMessage(content, CardProfile, &Card{Profile: profileCard(p)},
		[]string{"Show me your projects", "What do you write about?", "How can I contact you?"})
}

func (s *Session) handleActivityNav(ctx context.Context, q Query) Message {
	return s.navReply("/activity", "activity",
		"The activity page has my recent commits and contributions — taking you there in a moment.")
}

func (s *Session) handleBookmarksNav(ctx context.Context, q Query) Message {
	return s.navReply("/bookmarks", "bookmarks",
		"I keep a list of things worth reading on the bookmarks page — taking you there in a moment.")
}

func (s *Session) handleGoTo(ctx context.Context, q Query) Message {
	d, ok := destinationFor(q.Words)
	if !ok {
		return s.fallbackReply()
	}
	return s.navReply(d.Path, d.Label,
		fmt.Sprintf("Heading to the %s page in a moment.", d.Label))
}

func (s *Session) handleClarify(ctx context.Context, q Query) Message {
	return s.assistantMessage(
		"I can help with a few things — what would you like to know?",
		"", nil, defaultSuggestions)
}

func (s *Session) fallbackReply() Message {
	return s.assistantMessage(
		"I'm not sure I follow, but here are some things you can ask me.",
		"", nil, defaultSuggestions)
}

// navReply arms the navigation countdown and synthesizes the announcement
// message. Arming supersedes any countdown already running.
func (s *Session) navReply(path, label, content string) Message {
	s.nav.Arm(path, label)
	return s.assistantMessage(content, "", nil,
		[]string{"Show me your projects", "What do you write about?"})
}

// --- fetch helpers -----------------------------------------------------

// fetchPosts pulls the post listing fresh for this dispatch. There is no
// caching beyond the session-level profile snapshot.
func (s *Session) fetchPosts(ctx context.Context) ([]Post, error) {
	if s.deps.Posts == nil {
		return nil, fmt.Errorf("no post source configured")
	}
	posts, err := s.deps.Posts.Posts(ctx)
	if err != nil {
		slog.Warn("post fetch failed", "session", s.id, "error", err)
		return nil, err
	}
	return posts, nil
}

func (s *Session) fetchRepos(ctx context.Context) ([]Repo, error) {
	if s.deps.Repos == nil {
		return nil, fmt.Errorf("no repository source configured")
	}
	repos, err := s.deps.Repos.Repos(ctx)
	if err != nil {
		slog.Warn("repository fetch failed", "session", s.id, "error", err)
		return nil, err
	}
	return repos, nil
}

func (s *Session) postsUnavailableReply() Message {
	return s.assistantMessage(
		"I'm having trouble accessing the posts right now — the blog page has everything in the meantime.",
		"", nil,
		[]string{"Show me your projects", "What are your skills?", "How can I contact you?"})
}

func (s *Session) reposUnavailableReply() Message {
	return s.assistantMessage(
		"I can't load the project list right now — please check the projects page directly.",
		"", nil,
		[]string{"Show me projects", "What do you write about?", "How can I contact you?"})
}

// --- card builders -----------------------------------------------------

func postCard(p Post) PostCard {
	return PostCard{
		Title:       p.Title,
		Summary:     postSummary(p),
		Slug:        p.Slug,
		PublishedAt: p.PublishedAt,
		Tags:        p.Tags,
	}
}

func postCards(posts []Post, limit int) []PostCard {
	if len(posts) > limit {
		posts = posts[:limit]
	}
	cards := make([]PostCard, len(posts))
	for i, p := range posts {
		cards[i] = postCard(p)
	}
	return cards
}

func projectCard(r Repo) ProjectCard {
	return ProjectCard{
		Name:        r.Name,
		Description: r.Description,
		Language:    r.Language,
		Stars:       r.Stars,
		URL:         r.HTMLURL,
	}
}

func projectCards(repos []Repo, limit int) []ProjectCard {
	if len(repos) > limit {
		repos = repos[:limit]
	}
	cards := make([]ProjectCard, len(repos))
	for i, r := range repos {
		cards[i] = projectCard(r)
	}
	return cards
}

func profileCard(p Profile) *ProfileCard {
	return &ProfileCard{
		Name:         p.Name,
		Bio:          p.Bio,
		AvatarURL:    p.AvatarURL,
		GitHubURL:    p.GitHubURL,
		LinkedInURL:  p.LinkedInURL,
		InstagramURL: p.InstagramURL,
		Email:        p.Email,
	}
}

func repoBlurb(r Repo) string {
	desc := r.Description
	if desc == "" {
		desc = "no description yet"
	}
	parts := []string{desc}
	if r.Language != "" {
		parts = append(parts, "written in "+r.Language)
	}
	if r.Stars > 0 {
		parts = append(parts, fmt.Sprintf("%d stars", r.Stars))
	}
	return strings.Join(parts, ", ")
}

// --- aggregation helpers -----------------------------------------------

// tagUnion returns the deduplicated union of post tags, capped at limit,
// in first-seen order.
func tagUnion(posts []Post, limit int) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, p := range posts {
		for _, t := range p.Tags {
			key := strings.ToLower(t)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			tags = append(tags, t)
			if len(tags) >= limit {
				return tags
			}
		}
	}
	return tags
}

// topicUnion returns the deduplicated union of repository topics, capped at
// limit, in first-seen order.
func topicUnion(repos []Repo, limit int) []string {
	seen := make(map[string]struct{})
	var topics []string
	for _, r := range repos {
		for _, t := range r.Topics {
			key := strings.ToLower(t)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			topics = append(topics, t)
			if len(topics) >= limit {
				return topics
			}
		}
	}
	return topics
}

// extractTech picks the technology token out of a skill question: the first
// keyword that is not part of the question vocabulary itself.
func extractTech(q Query) string {
	skip := map[string]struct{}{
		"experience": {}, "experienced": {}, "worked": {}, "familiar": {},
		"skilled": {}, "proficient": {}, "use": {}, "used": {}, "using": {},
	}
	for _, k := range q.Keywords {
		if _, ok := skip[k]; ok {
			continue
		}
		return k
	}
	return ""
}

// filterReposByTech returns repositories whose topics, language, name or
// description reference the technology.
func filterReposByTech(repos []Repo, tech string) []Repo {
	tech = strings.ToLower(tech)
	var out []Repo
	for _, r := range repos {
		if repoReferences(r, tech) {
			out = append(out, r)
		}
	}
	return out
}

func repoReferences(r Repo, tech string) bool {
	if strings.Contains(strings.ToLower(r.Language), tech) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Name), tech) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Description), tech) {
		return true
	}
	for _, t := range r.Topics {
		if strings.Contains(strings.ToLower(t), tech) {
			return true
		}
	}
	return false
}

// stripWords removes the given words from a subject string.
func stripWords(subject string, words []string) string {
	drop := make(map[string]struct{}, len(words))
	for _, w := range words {
		drop[w] = struct{}{}
	}
	var kept []string
	for _, w := range strings.Fields(subject) {
		if _, ok := drop[w]; ok {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}
