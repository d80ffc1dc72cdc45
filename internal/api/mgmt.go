package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"sitechat/internal/profile"
	"sitechat/internal/storage"
)

// MgmtDeps holds the dependencies of the bearer-authed management surface.
type MgmtDeps struct {
	Store   *storage.Store
	Profile *profile.Provider
	Token   string
}

// NewMgmtHandler builds the management router: post CRUD and profile edits.
func NewMgmtHandler(deps MgmtDeps) http.Handler {
	r := chi.NewRouter()
	registerMgmtRoutes(r, deps)
	return r
}

// registerMgmtRoutes attaches the management routes inside their own group
// so the bearer auth middleware never leaks onto sibling routes.
func registerMgmtRoutes(r chi.Router, deps MgmtDeps) {
	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(deps.Token))

		r.Post("/posts", handleSavePost(deps))
		r.Get("/posts", handleListPosts(deps))
		r.Delete("/posts/{slug}", handleDeletePost(deps))
		r.Get("/profile", handleGetProfile(deps))
		r.Patch("/profile", handlePatchProfile(deps))
	})
}

// PostRequest is the management representation of a blog post.
type PostRequest struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Body        string    `json:"body"`
	PublishedAt time.Time `json:"published_at"`
	Tags        []string  `json:"tags"`
}

func handleSavePost(deps MgmtDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req PostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Slug == "" || req.Title == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "slug and title are required")
			return
		}
		if req.PublishedAt.IsZero() {
			req.PublishedAt = time.Now().UTC()
		}

		tagsJSON := "[]"
		if len(req.Tags) > 0 {
			b, err := json.Marshal(req.Tags)
			if err != nil {
				httpError(w, http.StatusInternalServerError, "api_error", "failed to marshal tags: %v", err)
				return
			}
			tagsJSON = string(b)
		}

		post := storage.Post{
			Slug:        req.Slug,
			Title:       req.Title,
			Summary:     req.Summary,
			Body:        req.Body,
			PublishedAt: req.PublishedAt,
			Tags:        tagsJSON,
		}
		if err := deps.Store.SavePost(post); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save post: %v", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"slug": post.Slug, "status": "saved"})
	}
}

func handleListPosts(deps MgmtDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntParam(r, "limit", 20, 100)

		posts, err := deps.Store.ListPosts(limit)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list posts: %v", err)
			return
		}
		if posts == nil {
			posts = []storage.Post{}
		}
		writeJSON(w, http.StatusOK, posts)
	}
}

func handleDeletePost(deps MgmtDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		err := deps.Store.DeletePost(slug)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "post not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to delete post: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func handleGetProfile(deps MgmtDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := deps.Profile.Profile(r.Context())
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get profile: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func handlePatchProfile(deps MgmtDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		var fields map[string]string
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		for key, value := range fields {
			if err := deps.Profile.Set(key, value); err != nil {
				httpError(w, http.StatusInternalServerError, "api_error", "failed to set field %q: %v", key, err)
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	}
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}
