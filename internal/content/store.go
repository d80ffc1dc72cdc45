package content

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"sitechat/internal/assist"
	"sitechat/internal/storage"
)

// Store adapts the SQLite post storage to the assistant's PostFetcher
// contract.
type Store struct {
	db *storage.Store
}

// NewStore creates a Store backed by the given storage.
func NewStore(db *storage.Store) *Store {
	return &Store{db: db}
}

// Posts returns the post listing, most recent first.
func (s *Store) Posts(ctx context.Context) ([]assist.Post, error) {
	stored, err := s.db.ListPosts(0)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	posts := make([]assist.Post, len(stored))
	for i, p := range stored {
		posts[i] = toAssistPost(p)
	}
	return posts, nil
}

func toAssistPost(p storage.Post) assist.Post {
	var tags []string
	if p.Tags != "" {
		if err := json.Unmarshal([]byte(p.Tags), &tags); err != nil {
			slog.Warn("malformed post tags, skipping", "slug", p.Slug, "error", err)
		}
	}
	return assist.Post{
		Slug:        p.Slug,
		Title:       p.Title,
		Summary:     p.Summary,
		Body:        p.Body,
		PublishedAt: p.PublishedAt,
		Tags:        tags,
	}
}
