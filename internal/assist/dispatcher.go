package assist

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Rule is one entry of the intent table. Rules are evaluated in ascending
// Priority order with short-circuit semantics: the first rule whose Match
// returns true handles the query and nothing below it runs.
type Rule struct {
	Name     string
	Priority int
	Match    func(q Query) bool
	Handle   func(ctx context.Context, q Query) Message
}

// SessionDeps are the collaborators a Session dispatches against.
type SessionDeps struct {
	Posts    PostFetcher
	Repos    RepoFetcher
	Profiles ProfileFetcher
	Sink     NavigationSink

	// NavInterval overrides the navigator tick interval (tests only).
	NavInterval time.Duration
}

// Session owns one conversation: the append-only message log, the ordered
// rule table, the session-scoped profile snapshot and the navigation state
// machine. The host issues one query at a time; Accept serializes dispatches
// so the log order is input order.
type Session struct {
	id    string
	deps  SessionDeps
	rules []Rule
	nav   *Navigator

	now      func() time.Time
	randIntN func(n int) int

	mu       sync.Mutex
	log      []Message
	snapshot *Profile // cached for the session lifetime
	lastSeen time.Time
}

// NewSession creates a Session with the full rule table installed.
func NewSession(deps SessionDeps) *Session {
	s := &Session{
		id:       uuid.New().String(),
		deps:     deps,
		now:      time.Now,
		randIntN: rand.IntN,
	}
	if deps.NavInterval > 0 {
		s.nav = NewNavigatorWithInterval(deps.Sink, deps.NavInterval)
	} else {
		s.nav = NewNavigator(deps.Sink)
	}
	s.rules = s.buildRules()
	s.lastSeen = s.now()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Navigator returns the session's navigation state machine.
func (s *Session) Navigator() *Navigator { return s.nav }

// Accept runs one query through the dispatcher: the user message is appended
// to the log, the first matching rule produces the reply, and the reply is
// appended and returned. Accept never fails; every failure path inside a
// handler terminates in a displayable Message.
func (s *Session) Accept(ctx context.Context, query string) Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSeen = s.now()
	q := NewQuery(query)

	s.log = append(s.log, Message{
		ID:        uuid.New().String(),
		Role:      RoleUser,
		Content:   query,
		CreatedAt: s.now(),
	})

	rule, reply := s.dispatch(ctx, q)
	slog.Debug("dispatched query", "session", s.id, "rule", rule)

	s.log = append(s.log, reply)
	return reply
}

// dispatch walks the rule table in priority order and returns the name of
// the matched rule along with its reply.
func (s *Session) dispatch(ctx context.Context, q Query) (string, Message) {
	for _, r := range s.rules {
		if r.Match(q) {
			return r.Name, r.Handle(ctx, q)
		}
	}
	// Unreachable: the final rule matches everything.
	return "fallback", s.fallbackReply()
}

// matchRule returns the rule that would handle q, without running its
// handler.
func (s *Session) matchRule(q Query) (Rule, bool) {
	for _, r := range s.rules {
		if r.Match(q) {
			return r, true
		}
	}
	return Rule{}, false
}

// Messages returns a copy of the conversation log in arrival order.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.log))
	copy(out, s.log)
	return out
}

// LastSeen returns the time of the most recent Accept.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Close tears the session down, invalidating any pending navigation.
func (s *Session) Close() {
	s.nav.Cancel()
}

// profileSnapshot fetches the owner profile once per session and caches it.
// On fetch failure a hardcoded fallback bundle is used; the failure is never
// surfaced.
func (s *Session) profileSnapshot(ctx context.Context) Profile {
	if s.snapshot != nil {
		return *s.snapshot
	}

	p := FallbackProfile
	if s.deps.Profiles != nil {
		fetched, err := s.deps.Profiles.Profile(ctx)
		if err != nil {
			slog.Warn("profile fetch failed, using fallback", "session", s.id, "error", err)
		} else {
			p = fetched
		}
	}
	s.snapshot = &p
	return p
}

// FallbackProfile is the static bundle used when the profile collaborator is
// unavailable. The UI must never block or error on a missing profile.
var FallbackProfile = Profile{
	Name: "the site owner",
	Bio:  "A developer who builds things for the web and writes about them here.",
}

// assistantMessage assembles a reply Message. Content is always set; card
// and suggestions only when the handler has them.
func (s *Session) assistantMessage(content string, kind CardKind, card *Card, suggestions []string) Message {
	return Message{
		ID:          uuid.New().String(),
		Role:        RoleAssistant,
		Content:     content,
		CardKind:    kind,
		Card:        card,
		Suggestions: suggestions,
		CreatedAt:   s.now(),
	}
}
