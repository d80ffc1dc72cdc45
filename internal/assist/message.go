package assist

import (
	"time"
)

// Role identifies who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// CardKind discriminates the structured payload attached to a message.
type CardKind string

const (
	CardProfile  CardKind = "profile"
	CardProjects CardKind = "projects"
	CardBlog     CardKind = "blog"
)

// Message is a single entry in the conversation log. Messages are immutable
// once appended; the log is append-only and ordered by arrival.
type Message struct {
	ID          string    `json:"id"`
	Role        Role      `json:"role"`
	Content     string    `json:"content"`
	CardKind    CardKind  `json:"card_kind,omitempty"`
	Card        *Card     `json:"card,omitempty"`
	Suggestions []string  `json:"suggestions,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Card carries the structured payload for rich rendering by the host surface.
// Exactly one of the groups is populated, matching the message's CardKind.
type Card struct {
	Profile  *ProfileCard  `json:"profile,omitempty"`
	Projects []ProjectCard `json:"projects,omitempty"`
	Posts    []PostCard    `json:"posts,omitempty"`
	PostSlug string        `json:"post_slug,omitempty"`
}

// ProfileCard is a bio/avatar/social-link bundle.
type ProfileCard struct {
	Name         string `json:"name"`
	Bio          string `json:"bio"`
	AvatarURL    string `json:"avatar_url,omitempty"`
	GitHubURL    string `json:"github_url,omitempty"`
	LinkedInURL  string `json:"linkedin_url,omitempty"`
	InstagramURL string `json:"instagram_url,omitempty"`
	Email        string `json:"email,omitempty"`
}

// ProjectCard is a single repository entry.
type ProjectCard struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language,omitempty"`
	Stars       int    `json:"stars"`
	URL         string `json:"url"`
}

// PostCard is a single blog post entry.
type PostCard struct {
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Slug        string    `json:"slug"`
	PublishedAt time.Time `json:"published_at"`
	Tags        []string  `json:"tags,omitempty"`
}

// NavigationIntent is an armed, time-delayed page transition.
type NavigationIntent struct {
	Path      string `json:"path"`
	Label     string `json:"label"`
	Remaining int    `json:"remaining_seconds"`
}
