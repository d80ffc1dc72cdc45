package api

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"sitechat/internal/assist"
)

// SessionManager owns the live chat sessions, keyed by session ID. Sessions
// that sit idle past maxIdle are evicted (their navigators cancelled) by the
// sweep loop.
type SessionManager struct {
	deps    assist.SessionDeps
	maxIdle time.Duration

	mu       sync.Mutex
	sessions map[string]*assist.Session
}

// NewSessionManager creates a manager producing sessions with the given
// collaborator set. maxIdle <= 0 defaults to 30 minutes.
func NewSessionManager(deps assist.SessionDeps, maxIdle time.Duration) *SessionManager {
	if maxIdle <= 0 {
		maxIdle = 30 * time.Minute
	}
	return &SessionManager{
		deps:     deps,
		maxIdle:  maxIdle,
		sessions: make(map[string]*assist.Session),
	}
}

// Get returns the session with the given ID.
func (m *SessionManager) Get(id string) (*assist.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// GetOrCreate returns the existing session, or a fresh one when id is empty
// or unknown.
func (m *SessionManager) GetOrCreate(id string) *assist.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id != "" {
		if s, ok := m.sessions[id]; ok {
			return s
		}
	}
	s := assist.NewSession(m.deps)
	m.sessions[s.ID()] = s
	return s
}

// Close tears down one session.
func (m *SessionManager) Close(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return false
	}
	s.Close()
	delete(m.sessions, id)
	return true
}

// CloseAll tears down every session (server shutdown).
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		s.Close()
		delete(m.sessions, id)
	}
}

// Len returns the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep evicts idle sessions until ctx is cancelled.
func (m *SessionManager) Sweep(ctx context.Context) {
	ticker := time.NewTicker(m.maxIdle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.CloseAll()
			return
		case <-ticker.C:
			m.evictIdle()
		}
	}
}

func (m *SessionManager) evictIdle() {
	cutoff := time.Now().Add(-m.maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			s.Close()
			delete(m.sessions, id)
			slog.Debug("evicted idle session", "session", id)
		}
	}
}
