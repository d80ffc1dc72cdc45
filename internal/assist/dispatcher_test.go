package assist

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakePosts struct {
	posts []Post
	err   error
	calls int
}

func (f *fakePosts) Posts(ctx context.Context) ([]Post, error) {
	f.calls++
	return f.posts, f.err
}

type fakeRepos struct {
	repos []Repo
	err   error
	calls int
}

func (f *fakeRepos) Repos(ctx context.Context) ([]Repo, error) {
	f.calls++
	return f.repos, f.err
}

type fakeProfiles struct {
	profile Profile
	err     error
	calls   int
}

func (f *fakeProfiles) Profile(ctx context.Context) (Profile, error) {
	f.calls++
	return f.profile, f.err
}

func testPosts() []Post {
	return []Post{
		{
			Slug:        "paperpaste-encrypted-sync",
			Title:       "PaperPaste: Encrypted Sync",
			Summary:     "Building an end-to-end encrypted clipboard.",
			PublishedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			Tags:        []string{"go", "crypto"},
		},
		{
			Slug:        "going-serverless",
			Title:       "Going Serverless",
			Body:        "Why I moved my site off a VPS and what broke along the way.",
			PublishedAt: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
			Tags:        []string{"infra"},
		},
	}
}

func testRepos() []Repo {
	return []Repo{
		{Name: "paperpaste", Description: "Encrypted clipboard sync.", Language: "Go", Stars: 42, Topics: []string{"go", "crypto"}},
		{Name: "dotfiles", Description: "My configs.", Stars: 3},
		{Name: "sitegen", Description: "Static site generator.", Language: "Go", Stars: 120, Topics: []string{"go"}},
	}
}

func newTestSession(t *testing.T, deps SessionDeps) *Session {
	t.Helper()
	if deps.NavInterval == 0 {
		deps.NavInterval = time.Minute
	}
	s := NewSession(deps)
	s.randIntN = func(n int) int { return 0 }
	t.Cleanup(s.Close)
	return s
}

func TestAcceptGreeting(t *testing.T) {
	s := newTestSession(t, SessionDeps{})

	msg := s.Accept(context.Background(), "hi")
	if msg.Role != RoleAssistant {
		t.Errorf("role = %q", msg.Role)
	}
	if msg.Content != greetingReplies[0] {
		t.Errorf("content = %q, want first canned greeting", msg.Content)
	}
	if len(msg.Suggestions) == 0 {
		t.Error("greeting reply must carry suggestions")
	}
}

func TestAcceptPostLookup(t *testing.T) {
	s := newTestSession(t, SessionDeps{Posts: &fakePosts{posts: testPosts()}})

	msg := s.Accept(context.Background(), "what is paperpaste")
	if msg.CardKind != CardBlog {
		t.Fatalf("card kind = %q, want blog", msg.CardKind)
	}
	if msg.Card == nil || msg.Card.PostSlug != "paperpaste-encrypted-sync" {
		t.Fatalf("card = %+v, want post slug payload", msg.Card)
	}
	if want := "PaperPaste: Encrypted Sync"; !contains(msg.Content, want) {
		t.Errorf("content %q missing title %q", msg.Content, want)
	}
	if !contains(msg.Content, "Building an end-to-end encrypted clipboard.") {
		t.Errorf("content %q missing summary", msg.Content)
	}
}

func TestAcceptPostLookup_NoSummaryTruncatesBody(t *testing.T) {
	s := newTestSession(t, SessionDeps{Posts: &fakePosts{posts: testPosts()}})

	msg := s.Accept(context.Background(), "tell me about going serverless")
	if !contains(msg.Content, "Why I moved my site off a VPS") {
		t.Errorf("content %q should quote the body excerpt", msg.Content)
	}
}

func TestAcceptPostLookup_NoMatchListsRecent(t *testing.T) {
	s := newTestSession(t, SessionDeps{Posts: &fakePosts{posts: testPosts()}})

	msg := s.Accept(context.Background(), "what is quantum gravity")
	if msg.CardKind != CardBlog {
		t.Fatalf("card kind = %q, want blog listing recovery", msg.CardKind)
	}
	if msg.Card == nil || len(msg.Card.Posts) != 2 {
		t.Errorf("card = %+v, want both posts listed", msg.Card)
	}
	if msg.Card != nil && msg.Card.PostSlug != "" {
		t.Error("listing recovery must not pin a post slug")
	}
}

func TestAcceptPostsUnavailable(t *testing.T) {
	s := newTestSession(t, SessionDeps{Posts: &fakePosts{err: errors.New("db gone")}})

	msg := s.Accept(context.Background(), "show me your posts")
	if !contains(msg.Content, "trouble accessing the posts") {
		t.Errorf("content = %q, want degraded posts reply", msg.Content)
	}
	if len(msg.Suggestions) == 0 {
		t.Error("degraded reply must still carry suggestions")
	}
}

func TestAcceptReposUnavailable(t *testing.T) {
	s := newTestSession(t, SessionDeps{Repos: &fakeRepos{err: errors.New("rate limited")}})

	msg := s.Accept(context.Background(), "show me your projects")
	if !contains(msg.Content, "can't load the project list") {
		t.Errorf("content = %q, want degraded projects reply", msg.Content)
	}
	if len(msg.Suggestions) == 0 {
		t.Error("degraded reply must still carry suggestions")
	}
}

func TestAcceptProjectsPopularSorted(t *testing.T) {
	s := newTestSession(t, SessionDeps{Repos: &fakeRepos{repos: testRepos()}})

	msg := s.Accept(context.Background(), "show me your most popular projects")
	if msg.Card == nil || len(msg.Card.Projects) != 3 {
		t.Fatalf("card = %+v", msg.Card)
	}
	if msg.Card.Projects[0].Name != "sitegen" {
		t.Errorf("first project = %q, want sitegen (most stars)", msg.Card.Projects[0].Name)
	}
}

func TestAcceptSkillLookup(t *testing.T) {
	s := newTestSession(t, SessionDeps{Repos: &fakeRepos{repos: testRepos()}})

	msg := s.Accept(context.Background(), "do you know crypto")
	if !contains(msg.Content, "crypto") {
		t.Errorf("content = %q, want mention of crypto", msg.Content)
	}
	if !contains(msg.Content, "paperpaste") {
		t.Errorf("content = %q, want the matching project named", msg.Content)
	}
	if msg.CardKind != CardProjects {
		t.Errorf("card kind = %q, want projects", msg.CardKind)
	}
}

// The skills reply offers a "Do you know X?" follow-up; feeding it back in
// must reach the skill lookup, not loop to the same generic skills list.
func TestSkillsFollowUpSuggestionAnswerable(t *testing.T) {
	s := newTestSession(t, SessionDeps{Repos: &fakeRepos{repos: testRepos()}})

	first := s.Accept(context.Background(), "what are your skills")
	var followUp string
	for _, sug := range first.Suggestions {
		if strings.HasPrefix(sug, "Do you know") {
			followUp = sug
		}
	}
	if followUp == "" {
		t.Fatalf("skills reply suggestions %v carry no skill follow-up", first.Suggestions)
	}

	second := s.Accept(context.Background(), followUp)
	if second.Content == first.Content {
		t.Errorf("follow-up %q looped back to the generic skills reply", followUp)
	}
	if !contains(strings.ToLower(second.Content), "docker") {
		t.Errorf("follow-up reply %q does not address the asked technology", second.Content)
	}
}

func TestProfileSnapshotCachedPerSession(t *testing.T) {
	profiles := &fakeProfiles{profile: Profile{Name: "Pat", Bio: "I build things."}}
	s := newTestSession(t, SessionDeps{Profiles: profiles})

	s.Accept(context.Background(), "who are you")
	s.Accept(context.Background(), "how can i contact you")

	if profiles.calls != 1 {
		t.Errorf("profile fetched %d times, want 1 (session snapshot)", profiles.calls)
	}
}

func TestProfileFallbackOnError(t *testing.T) {
	profiles := &fakeProfiles{err: errors.New("storage down")}
	s := newTestSession(t, SessionDeps{Profiles: profiles})

	msg := s.Accept(context.Background(), "who are you")
	if !contains(msg.Content, FallbackProfile.Name) {
		t.Errorf("content = %q, want fallback profile name", msg.Content)
	}
}

func TestAcceptNavigation(t *testing.T) {
	s := newTestSession(t, SessionDeps{})

	s.Accept(context.Background(), "go to the about page")

	nav, ok := s.Navigator().Pending()
	if !ok {
		t.Fatal("expected pending navigation")
	}
	if nav.Path != "/about" {
		t.Errorf("path = %q, want /about", nav.Path)
	}
	if nav.Remaining != initialCount {
		t.Errorf("remaining = %d, want %d", nav.Remaining, initialCount)
	}
}

func TestAcceptNavigationCommits(t *testing.T) {
	fired := make(chan string, 1)
	s := newTestSession(t, SessionDeps{
		Sink:        func(path string) { fired <- path },
		NavInterval: testTick,
	})

	s.Accept(context.Background(), "show me your bookmarks")

	select {
	case path := <-fired:
		if path != "/bookmarks" {
			t.Errorf("navigated to %q, want /bookmarks", path)
		}
	case <-time.After(time.Second):
		t.Fatal("navigation never committed")
	}
}

func TestMessagesLogOrder(t *testing.T) {
	s := newTestSession(t, SessionDeps{})

	s.Accept(context.Background(), "hi")
	s.Accept(context.Background(), "thanks")

	log := s.Messages()
	if len(log) != 4 {
		t.Fatalf("log has %d messages, want 4", len(log))
	}
	wantRoles := []Role{RoleUser, RoleAssistant, RoleUser, RoleAssistant}
	for i, m := range log {
		if m.Role != wantRoles[i] {
			t.Errorf("log[%d].Role = %q, want %q", i, m.Role, wantRoles[i])
		}
		if m.ID == "" {
			t.Errorf("log[%d] missing ID", i)
		}
	}
	if log[0].Content != "hi" {
		t.Errorf("log[0].Content = %q", log[0].Content)
	}
}

// TestEveryReplyDisplayable: whatever the query and whatever the collaborator
// state, Accept returns non-empty content and at least one suggestion.
func TestEveryReplyDisplayable(t *testing.T) {
	queries := []string{
		"hi", "thanks", "what is paperpaste", "do you write",
		"show me your posts", "whats your latest post",
		"show me your projects", "do you know rust", "what are your skills",
		"how can i contact you", "who are you", "go to the about page",
		"huh", "something entirely unrelated to anything here",
	}

	depSets := map[string]SessionDeps{
		"healthy": {
			Posts:    &fakePosts{posts: testPosts()},
			Repos:    &fakeRepos{repos: testRepos()},
			Profiles: &fakeProfiles{profile: Profile{Name: "Pat", Bio: "Builder."}},
		},
		"all failing": {
			Posts:    &fakePosts{err: errors.New("down")},
			Repos:    &fakeRepos{err: errors.New("down")},
			Profiles: &fakeProfiles{err: errors.New("down")},
		},
		"nil collaborators": {},
	}

	for name, deps := range depSets {
		s := newTestSession(t, deps)
		for _, q := range queries {
			msg := s.Accept(context.Background(), q)
			if msg.Content == "" {
				t.Errorf("%s: %q produced empty content", name, q)
			}
			if len(msg.Suggestions) == 0 {
				t.Errorf("%s: %q produced no suggestions", name, q)
			}
		}
	}
}

func contains(s, sub string) bool {
	return strings.Contains(s, sub)
}
