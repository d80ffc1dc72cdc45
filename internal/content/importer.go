package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"

	"sitechat/internal/storage"
)

// Importer loads post files into storage. Markdown files carry YAML
// front-matter; HTML and PDF files are reduced to plain text with the file
// name as title.
type Importer struct {
	db     *storage.Store
	logger *slog.Logger
}

// NewImporter creates an Importer writing to the given storage.
func NewImporter(db *storage.Store) *Importer {
	return &Importer{db: db, logger: slog.Default()}
}

// ImportDir parses every supported file under dir concurrently and saves the
// results. Returns the number of posts imported. Files that fail to parse
// are logged and skipped rather than aborting the whole import.
func (im *Importer) ImportDir(ctx context.Context, dir string) (int, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".md", ".markdown", ".html", ".htm", ".pdf":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walking %s: %w", dir, err)
	}

	posts := make([]*storage.Post, len(paths))
	var mu sync.Mutex
	var skipped int

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4) // Bound concurrency; parsing is CPU- and IO-light.

	for i, path := range paths {
		g.Go(func() error {
			if gCtx.Err() != nil {
				return gCtx.Err()
			}
			post, err := ParseFile(path)
			if err != nil {
				im.logger.Warn("skipping unparseable post file", "path", path, "error", err)
				mu.Lock()
				skipped++
				mu.Unlock()
				return nil
			}
			posts[i] = &post
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	// SQLite is limited to one connection; save serially.
	imported := 0
	for _, p := range posts {
		if p == nil {
			continue
		}
		if err := im.db.SavePost(*p); err != nil {
			return imported, fmt.Errorf("saving post %q: %w", p.Slug, err)
		}
		imported++
	}

	im.logger.Info("post import finished", "imported", imported, "skipped", skipped)
	return imported, nil
}

// ImportFile parses and saves a single file.
func (im *Importer) ImportFile(ctx context.Context, path string) (storage.Post, error) {
	post, err := ParseFile(path)
	if err != nil {
		return storage.Post{}, err
	}
	if err := im.db.SavePost(post); err != nil {
		return storage.Post{}, fmt.Errorf("saving post %q: %w", post.Slug, err)
	}
	return post, nil
}

// ParseFile turns a post file into a storage.Post without saving it.
func ParseFile(path string) (storage.Post, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		data, err := os.ReadFile(path)
		if err != nil {
			return storage.Post{}, err
		}
		return parseMarkdown(path, string(data))
	case ".html", ".htm":
		data, err := os.ReadFile(path)
		if err != nil {
			return storage.Post{}, err
		}
		return plainPost(path, HTMLText(string(data)))
	case ".pdf":
		text, err := pdfText(path)
		if err != nil {
			return storage.Post{}, fmt.Errorf("extracting pdf text: %w", err)
		}
		return plainPost(path, text)
	default:
		return storage.Post{}, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

func parseMarkdown(path, data string) (storage.Post, error) {
	fm, body, err := splitFrontMatter(data)
	if err != nil {
		return storage.Post{}, err
	}

	title := fm.Title
	if title == "" {
		title = fileTitle(path)
	}
	slug := fm.Slug
	if slug == "" {
		slug = slugify(title)
	}
	if slug == "" {
		return storage.Post{}, fmt.Errorf("post %q has no usable slug", path)
	}

	publishedAt := time.Now().UTC()
	if fm.Date != "" {
		t, err := parseDate(fm.Date)
		if err != nil {
			return storage.Post{}, err
		}
		publishedAt = t
	}

	tagsJSON := "[]"
	if len(fm.Tags) > 0 {
		b, err := json.Marshal(fm.Tags)
		if err != nil {
			return storage.Post{}, fmt.Errorf("marshalling tags: %w", err)
		}
		tagsJSON = string(b)
	}

	return storage.Post{
		Slug:        slug,
		Title:       title,
		Summary:     fm.Summary,
		Body:        body,
		PublishedAt: publishedAt,
		Tags:        tagsJSON,
	}, nil
}

func plainPost(path, body string) (storage.Post, error) {
	title := fileTitle(path)
	slug := slugify(title)
	if slug == "" {
		return storage.Post{}, fmt.Errorf("post %q has no usable slug", path)
	}
	return storage.Post{
		Slug:        slug,
		Title:       title,
		Body:        body,
		PublishedAt: time.Now().UTC(),
		Tags:        "[]",
	}, nil
}

// fileTitle derives a human title from the file name: "my-first-post.md"
// becomes "my first post".
func fileTitle(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "-", " ")
	base = strings.ReplaceAll(base, "_", " ")
	return strings.TrimSpace(base)
}

func pdfText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return "", err
	}
	return buf.String(), nil
}
