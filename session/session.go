package session

import (
	"sync"
	"time"
)

// Session tracks one authenticated browser session: passcode verification,
// the user's provider API key (memory only, never persisted) and TTL
// bookkeeping. Field mutation goes through Store methods so access stays
// lock-safe.
type Session struct {
	ID               string    `json:"session_id"`
	PasscodeVerified bool      `json:"passcode_verified"`
	APIKey           string    `json:"-"`
	Created          time.Time `json:"created_at"`
	LastAccessed     time.Time `json:"last_accessed"`
	TTL              time.Duration
}

// Expired reports whether the session idle time exceeded its TTL.
func (s *Session) Expired(now time.Time) bool {
	return now.Sub(s.LastAccessed) > s.TTL
}

// Authenticated reports whether the session passed the passcode gate and has
// a provider API key attached.
func (s *Session) Authenticated() bool {
	return s.PasscodeVerified && s.APIKey != ""
}

// Thread is a conversation container owned by a session.
type Thread struct {
	ID           string    `json:"thread_id"`
	SessionID    string    `json:"session_id"`
	Messages     []string  `json:"messages"`
	Created      time.Time `json:"created_at"`
	LastAccessed time.Time `json:"last_accessed"`
	TTL          time.Duration
}

// Expired reports whether the thread idle time exceeded its TTL.
func (t *Thread) Expired(now time.Time) bool {
	return now.Sub(t.LastAccessed) > t.TTL
}

// NoteStore is the per-session title to content mapping mutated through the
// tool layer. Titles keep insertion order; saving an existing title replaces
// its content without moving it. Safe for concurrent use, though at most one
// turn touches a session's store at a time.
type NoteStore struct {
	mu    sync.RWMutex
	notes map[string]string
	order []string
}

// NewNoteStore constructs an empty note store.
func NewNoteStore() *NoteStore {
	return &NoteStore{notes: make(map[string]string)}
}

// Save upserts the note under title.
func (n *NoteStore) Save(title, content string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, exists := n.notes[title]; !exists {
		n.order = append(n.order, title)
	}
	n.notes[title] = content
}

// Get returns the content stored under title and whether it exists.
func (n *NoteStore) Get(title string) (string, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	content, ok := n.notes[title]
	return content, ok
}

// Titles returns all stored titles in insertion order.
func (n *NoteStore) Titles() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	titles := make([]string, len(n.order))
	copy(titles, n.order)
	return titles
}

// Len returns the number of stored notes.
func (n *NoteStore) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.order)
}
