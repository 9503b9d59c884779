package trivia

import "sync"

// Session is one channel's currently unanswered trivia question.
// Answer holds the canonical lower-cased form; comparisons are case-insensitive.
type Session struct {
	Channel  string
	Question string
	Answer   string
	Category string
}

// Registry holds at most one active Session per channel. Sessions are pure
// in-memory state and are lost on restart; questions are ephemeral.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Start installs a session for its channel, overwriting any existing one.
// Starting a new question silently discards an unanswered one.
func (r *Registry) Start(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.Channel] = s
}

// Get returns the active session for a channel, if any.
func (r *Registry) Get(channel string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[channel]
	return s, ok
}

// Resolve removes and returns the session for a channel in one step, so that
// concurrent correct answers settle on exactly one winner.
func (r *Registry) Resolve(channel string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[channel]
	if ok {
		delete(r.sessions, channel)
	}
	return s, ok
}

// ResolveIf removes the session for a channel only if it is still exactly s.
// An answer matched against a since-replaced session must not retire the
// replacement (or reveal its answer); the caller falls back to the
// no-active-question path when this reports false.
func (r *Registry) ResolveIf(channel string, s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.sessions[channel]; !ok || cur != s {
		return false
	}
	delete(r.sessions, channel)
	return true
}

// Active returns the number of channels with an open question.
func (r *Registry) Active() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
