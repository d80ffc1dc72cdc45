package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"sitechat/internal/assist"
	"sitechat/internal/storage"
)

// RepoLookup abstracts single-repository fetches for the MCP layer.
// Implemented by githubapi.Client.
type RepoLookup interface {
	Repo(ctx context.Context, name string) (assist.Repo, error)
}

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Store *storage.Store
	Deps  assist.SessionDeps
	Repos RepoLookup // optional; if nil, the project tool returns an error
}

// NewMCPServer creates an MCP server exposing the assistant and the site's
// content to MCP clients. The ask tool dispatches into one long-lived
// session; navigation intents are reported, not performed.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"sitechat",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("sitechat — conversational assistant for a personal website: posts, projects, profile."),
		server.WithRecovery(),
	)

	// One session for the whole MCP connection; the sink is a no-op since
	// there is no page to navigate.
	sessDeps := deps.Deps
	sessDeps.Sink = func(string) {}
	sess := assist.NewSession(sessDeps)

	s.AddTool(
		mcp.NewTool("ask",
			mcp.WithDescription("Ask the site assistant a free-form question about the owner's posts, projects, skills, or contact details."),
			mcp.WithString("query", mcp.Description("The question to ask"), mcp.Required()),
		),
		mcpAsk(sess),
	)

	s.AddTool(
		mcp.NewTool("list_posts",
			mcp.WithDescription("List the site's blog posts, most recent first."),
			mcp.WithNumber("limit", mcp.Description("Maximum number of posts (default 10)")),
		),
		mcpListPosts(deps),
	)

	s.AddTool(
		mcp.NewTool("project",
			mcp.WithDescription("Fetch a single featured project by repository name."),
			mcp.WithString("name", mcp.Description("Repository name"), mcp.Required()),
		),
		mcpProject(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"site://profile",
			"Owner Profile",
			mcp.WithResourceDescription("The site owner's profile as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceProfile(deps),
	)

	return s
}

func mcpAsk(sess *assist.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcpError("query is required"), nil
		}

		msg := sess.Accept(ctx, query)

		type askResult struct {
			Content     string                   `json:"content"`
			CardKind    assist.CardKind          `json:"card_kind,omitempty"`
			Card        *assist.Card             `json:"card,omitempty"`
			Suggestions []string                 `json:"suggestions,omitempty"`
			Navigation  *assist.NavigationIntent `json:"navigation,omitempty"`
		}
		result := askResult{
			Content:     msg.Content,
			CardKind:    msg.CardKind,
			Card:        msg.Card,
			Suggestions: msg.Suggestions,
		}
		if nav, ok := sess.Navigator().Pending(); ok {
			result.Navigation = &nav
		}

		b, err := json.Marshal(result)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpListPosts(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", 10)
		if limit <= 0 {
			limit = 10
		}
		if limit > 100 {
			limit = 100
		}

		posts, err := deps.Store.ListPosts(limit)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to list posts: %v", err)), nil
		}

		type postResult struct {
			Slug        string `json:"slug"`
			Title       string `json:"title"`
			Summary     string `json:"summary,omitempty"`
			PublishedAt string `json:"published_at"`
			Tags        string `json:"tags,omitempty"`
		}
		results := make([]postResult, len(posts))
		for i, p := range posts {
			results[i] = postResult{
				Slug:        p.Slug,
				Title:       p.Title,
				Summary:     p.Summary,
				PublishedAt: p.PublishedAt.Format("2006-01-02"),
				Tags:        p.Tags,
			}
		}

		b, err := json.Marshal(results)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal posts: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpProject(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if deps.Repos == nil {
			return mcpError("project lookup not available: no repository source configured"), nil
		}

		name, err := req.RequireString("name")
		if err != nil {
			return mcpError("name is required"), nil
		}

		repo, err := deps.Repos.Repo(ctx, name)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to fetch project: %v", err)), nil
		}

		b, err := json.Marshal(repo)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal project: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceProfile(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		if deps.Deps.Profiles == nil {
			return nil, fmt.Errorf("no profile source configured")
		}
		p, err := deps.Deps.Profiles.Profile(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get profile: %w", err)
		}

		b, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal profile: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
