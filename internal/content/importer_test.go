package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"sitechat/internal/storage"
)

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

const samplePost = `---
title: Hello World
summary: A first post.
date: 2026-02-03
tags: [go]
---
Body here.
`

func TestParseFileMarkdown(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "hello.md", samplePost)

	post, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if post.Slug != "hello-world" {
		t.Errorf("Slug = %q, want slugified title", post.Slug)
	}
	if post.Summary != "A first post." {
		t.Errorf("Summary = %q", post.Summary)
	}
	if post.Body != "Body here.\n" {
		t.Errorf("Body = %q", post.Body)
	}
	want := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)
	if !post.PublishedAt.Equal(want) {
		t.Errorf("PublishedAt = %v, want %v", post.PublishedAt, want)
	}
	if post.Tags != `["go"]` {
		t.Errorf("Tags = %q", post.Tags)
	}
}

func TestParseFileMarkdown_NoFrontMatter(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "my-first-post.md", "Plain body, no header.\n")

	post, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if post.Title != "my first post" {
		t.Errorf("Title = %q, want file-derived title", post.Title)
	}
	if post.Slug != "my-first-post" {
		t.Errorf("Slug = %q", post.Slug)
	}
	if post.PublishedAt.IsZero() {
		t.Error("PublishedAt should default to now")
	}
}

func TestParseFileHTML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.html",
		"<html><head><style>body{}</style></head><body><p>Readable text.</p></body></html>")

	post, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if post.Body != "Readable text." {
		t.Errorf("Body = %q", post.Body)
	}
	if post.Slug != "notes" {
		t.Errorf("Slug = %q", post.Slug)
	}
}

func TestParseFileUnsupported(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.csv", "a,b,c\n")

	if _, err := ParseFile(path); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestImportDir(t *testing.T) {
	store := openTestStore(t)
	dir := t.TempDir()

	writeFile(t, dir, "one.md", samplePost)
	writeFile(t, dir, "two.md", "---\ntitle: Second\n---\nMore.\n")
	writeFile(t, dir, "ignored.txt", "not a post")

	im := NewImporter(store)
	count, err := im.ImportDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("ImportDir: %v", err)
	}
	if count != 2 {
		t.Errorf("imported %d posts, want 2", count)
	}

	posts, err := store.ListPosts(0)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(posts) != 2 {
		t.Errorf("store has %d posts, want 2", len(posts))
	}
}

func TestImportDir_SkipsUnparseable(t *testing.T) {
	store := openTestStore(t)
	dir := t.TempDir()

	writeFile(t, dir, "good.md", samplePost)
	writeFile(t, dir, "broken.md", "---\ntitle: Broken\n") // unterminated header

	im := NewImporter(store)
	count, err := im.ImportDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("ImportDir: %v", err)
	}
	if count != 1 {
		t.Errorf("imported %d posts, want 1 (broken file skipped)", count)
	}
}

func TestImportFile(t *testing.T) {
	store := openTestStore(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "hello.md", samplePost)

	im := NewImporter(store)
	post, err := im.ImportFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}

	got, err := store.GetPost(post.Slug)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if got.Title != "Hello World" {
		t.Errorf("Title = %q", got.Title)
	}
}

func TestFileTitle(t *testing.T) {
	if got := fileTitle("/tmp/posts/my_great-post.md"); got != "my great post" {
		t.Errorf("fileTitle = %q", got)
	}
}
