package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sitechat/internal/assist"
)

const maxRequestBodySize = 1 << 20 // 1MB

// ChatDeps holds the dependencies of the public chat surface.
type ChatDeps struct {
	Sessions *SessionManager
}

// NewChatHandler builds the public router: chat dispatch, conversation log
// reads, session teardown and health.
func NewChatHandler(deps ChatDeps) http.Handler {
	r := chi.NewRouter()
	registerChatRoutes(r, deps)
	return r
}

func registerChatRoutes(r chi.Router, deps ChatDeps) {
	r.Post("/chat", handleChat(deps))
	r.Get("/chat/{session}/messages", handleMessages(deps))
	r.Delete("/chat/{session}", handleCloseSession(deps))
	r.Get("/health", handleHealth)
}

// ChatRequest is one user query. SessionID is optional; an empty or unknown
// ID starts a new session.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
}

// ChatResponse carries the assistant's reply plus any pending navigation
// the frontend should count down and perform.
type ChatResponse struct {
	SessionID  string                   `json:"session_id"`
	Message    assist.Message           `json:"message"`
	Navigation *assist.NavigationIntent `json:"navigation,omitempty"`
}

func handleChat(deps ChatDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Query == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "query is required")
			return
		}

		sess := deps.Sessions.GetOrCreate(req.SessionID)
		msg := sess.Accept(r.Context(), req.Query)

		resp := ChatResponse{SessionID: sess.ID(), Message: msg}
		if nav, ok := sess.Navigator().Pending(); ok {
			resp.Navigation = &nav
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func handleMessages(deps ChatDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "session")
		sess, ok := deps.Sessions.Get(id)
		if !ok {
			httpError(w, http.StatusNotFound, "not_found", "unknown session")
			return
		}
		writeJSON(w, http.StatusOK, sess.Messages())
	}
}

func handleCloseSession(deps ChatDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "session")
		if !deps.Sessions.Close(id) {
			httpError(w, http.StatusNotFound, "not_found", "unknown session")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
