package assist

import (
	"context"
	"time"
)

// Post is a blog entry as supplied by the content collaborator, in fetch
// order (most recent first).
type Post struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary,omitempty"`
	Body        string    `json:"body,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Tags        []string  `json:"tags,omitempty"`
}

// Repo is a repository entry as supplied by the repository collaborator.
type Repo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Topics      []string `json:"topics,omitempty"`
	Language    string   `json:"language,omitempty"`
	Stars       int      `json:"stars"`
	HTMLURL     string   `json:"html_url"`
	Homepage    string   `json:"homepage,omitempty"`
}

// Profile is the site owner's bio and social links.
type Profile struct {
	Name         string `json:"name"`
	Bio          string `json:"bio"`
	AvatarURL    string `json:"avatar_url,omitempty"`
	GitHubURL    string `json:"github_url,omitempty"`
	LinkedInURL  string `json:"linkedin_url,omitempty"`
	InstagramURL string `json:"instagram_url,omitempty"`
	Email        string `json:"email,omitempty"`
}

// PostFetcher supplies the post listing on demand.
// Implemented by content.Store.
type PostFetcher interface {
	Posts(ctx context.Context) ([]Post, error)
}

// RepoFetcher supplies the repository listing on demand.
// Implemented by githubapi.Client.
type RepoFetcher interface {
	Repos(ctx context.Context) ([]Repo, error)
}

// ProfileFetcher supplies the owner profile.
// Implemented by profile.Provider.
type ProfileFetcher interface {
	Profile(ctx context.Context) (Profile, error)
}

// NavigationSink performs the actual page transition once a countdown
// reaches zero. The host surface supplies it.
type NavigationSink func(path string)
