package githubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sitechat/internal/assist"
)

const defaultBaseURL = "https://api.github.com"

// Client fetches the owner's public repositories from the GitHub REST API.
// It satisfies the assistant's RepoFetcher contract.
type Client struct {
	baseURL    string
	user       string
	token      string
	httpClient *http.Client
}

// New creates a Client for the given GitHub user. baseURL may be empty to
// target api.github.com; token may be empty for unauthenticated requests.
func New(baseURL, user, token string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		user:       user,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// repoPayload mirrors the subset of the GitHub repository object we use.
type repoPayload struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Topics          []string `json:"topics"`
	Language        string   `json:"language"`
	StargazersCount int      `json:"stargazers_count"`
	HTMLURL         string   `json:"html_url"`
	Homepage        string   `json:"homepage"`
	Fork            bool     `json:"fork"`
}

// Repos returns the user's public repositories, most recently updated first,
// excluding forks.
func (c *Client) Repos(ctx context.Context) ([]assist.Repo, error) {
	u := fmt.Sprintf("%s/users/%s/repos?per_page=100&sort=updated", c.baseURL, url.PathEscape(c.user))

	var payload []repoPayload
	if err := c.getJSON(ctx, u, &payload); err != nil {
		return nil, fmt.Errorf("listing repositories: %w", err)
	}

	repos := make([]assist.Repo, 0, len(payload))
	for _, p := range payload {
		if p.Fork {
			continue
		}
		repos = append(repos, toRepo(p))
	}
	return repos, nil
}

// Repo returns a single repository by name, for featured entries.
func (c *Client) Repo(ctx context.Context, name string) (assist.Repo, error) {
	u := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, url.PathEscape(c.user), url.PathEscape(name))

	var payload repoPayload
	if err := c.getJSON(ctx, u, &payload); err != nil {
		return assist.Repo{}, fmt.Errorf("fetching repository %q: %w", name, err)
	}
	return toRepo(payload), nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func toRepo(p repoPayload) assist.Repo {
	return assist.Repo{
		Name:        p.Name,
		Description: p.Description,
		Topics:      p.Topics,
		Language:    p.Language,
		Stars:       p.StargazersCount,
		HTMLURL:     p.HTMLURL,
		Homepage:    p.Homepage,
	}
}
