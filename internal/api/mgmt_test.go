package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sitechat/internal/assist"
	"sitechat/internal/profile"
	"sitechat/internal/storage"
)

const testToken = "test-token-12345"

func setupMgmtHandler(t *testing.T) (http.Handler, *storage.Store) {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	handler := NewMgmtHandler(MgmtDeps{
		Store:   store,
		Profile: profile.NewProvider(store, assist.Profile{Name: "Pat"}),
		Token:   testToken,
	})
	return handler, store
}

func authReq(method, url, body, token string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestMgmt_RequiresToken(t *testing.T) {
	h, _ := setupMgmtHandler(t)

	for _, token := range []string{"", "wrong-token"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, authReq(http.MethodGet, "/posts", "", token))
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("token %q: status = %d, want 401", token, rr.Code)
		}
	}
}

func TestMgmt_SaveAndListPosts(t *testing.T) {
	h, store := setupMgmtHandler(t)

	body := `{"slug":"hello-world","title":"Hello World","summary":"First.","body":"Text.","tags":["go"]}`
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, authReq(http.MethodPost, "/posts", body, testToken))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", rr.Code, rr.Body.String())
	}

	saved, err := store.GetPost("hello-world")
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if saved.Title != "Hello World" || saved.Tags != `["go"]` {
		t.Errorf("saved = %+v", saved)
	}
	if saved.PublishedAt.IsZero() {
		t.Error("published_at should default to now")
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, authReq(http.MethodGet, "/posts", "", testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	var posts []storage.Post
	if err := json.NewDecoder(rr.Body).Decode(&posts); err != nil {
		t.Fatalf("decoding posts: %v", err)
	}
	if len(posts) != 1 {
		t.Errorf("got %d posts, want 1", len(posts))
	}
}

func TestMgmt_SavePostValidation(t *testing.T) {
	h, _ := setupMgmtHandler(t)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, authReq(http.MethodPost, "/posts", `{"title":"No Slug"}`, testToken))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestMgmt_DeletePost(t *testing.T) {
	h, store := setupMgmtHandler(t)

	body := `{"slug":"doomed","title":"Doomed"}`
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, authReq(http.MethodPost, "/posts", body, testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("save status = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, authReq(http.MethodDelete, "/posts/doomed", "", testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rr.Code)
	}
	if _, err := store.GetPost("doomed"); err != storage.ErrNotFound {
		t.Errorf("post still present: %v", err)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, authReq(http.MethodDelete, "/posts/doomed", "", testToken))
	if rr.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rr.Code)
	}
}

func TestMgmt_Profile(t *testing.T) {
	h, _ := setupMgmtHandler(t)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, authReq(http.MethodPatch, "/profile", `{"bio":"I build things.","email":"pat@example.com"}`, testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("patch status = %d; body = %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, authReq(http.MethodGet, "/profile", "", testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("get status = %d", rr.Code)
	}

	var p assist.Profile
	if err := json.NewDecoder(rr.Body).Decode(&p); err != nil {
		t.Fatalf("decoding profile: %v", err)
	}
	if p.Name != "Pat" {
		t.Errorf("Name = %q, want fallback name", p.Name)
	}
	if p.Bio != "I build things." || p.Email != "pat@example.com" {
		t.Errorf("profile = %+v", p)
	}
}
