package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
	Auth   string
}

type testServer struct {
	server   *httptest.Server
	requests []recordedRequest
}

func newTestServer(t *testing.T, responses map[string]string) *testServer {
	t.Helper()
	ts := &testServer{}

	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		body.ReadFrom(r.Body)

		ts.requests = append(ts.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.RequestURI(),
			Body:   body.String(),
			Auth:   r.Header.Get("Authorization"),
		})

		key := r.Method + " " + r.URL.Path
		if resp, ok := responses[key]; ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(resp))
			return
		}

		w.WriteHeader(404)
		w.Write([]byte(`{"error":{"message":"not found","type":"not_found"}}`))
	}))

	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) client() *apiClient {
	return &apiClient{
		baseURL:    ts.server.URL,
		token:      "test-token",
		httpClient: ts.server.Client(),
	}
}

var ctx = context.Background()

func TestClientSendsBearerToken(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /profile": `{"name":"Pat"}`,
	})

	resp, err := ts.client().get(ctx, "/profile")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()

	if len(ts.requests) != 1 {
		t.Fatalf("recorded %d requests", len(ts.requests))
	}
	if ts.requests[0].Auth != "Bearer test-token" {
		t.Errorf("Authorization = %q", ts.requests[0].Auth)
	}
}

func TestClientPostMarshalsBody(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /chat": `{"session_id":"s1","message":{"id":"m1","role":"assistant","content":"hi","created_at":"2026-01-01T00:00:00Z"}}`,
	})

	resp, err := ts.client().post(ctx, "/chat", map[string]string{"query": "hi"})
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	var result struct {
		SessionID string `json:"session_id"`
	}
	if err := decodeJSON(resp, &result); err != nil {
		t.Fatalf("decodeJSON: %v", err)
	}
	if result.SessionID != "s1" {
		t.Errorf("session_id = %q", result.SessionID)
	}
	if ts.requests[0].Body != `{"query":"hi"}` {
		t.Errorf("body = %q", ts.requests[0].Body)
	}
}

func TestDecodeJSONErrorStatus(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := ts.client().get(ctx, "/missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	var v any
	if err := decodeJSON(resp, &v); err == nil {
		t.Error("expected error for 404 response")
	}
}
