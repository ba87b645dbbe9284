package session

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/smoothoperator/core"
	"github.com/hupe1980/smoothoperator/logging"
)

// Options configure a Store.
type Options struct {
	// SessionTTL is the idle lifetime of a session (and its notes).
	SessionTTL time.Duration
	// ThreadTTL is the idle lifetime of a thread.
	ThreadTTL time.Duration
	// SweepInterval is how often the janitor scans for expired entries.
	SweepInterval time.Duration
	// Logger receives janitor and lifecycle logs.
	Logger logging.Logger
}

// Store is a volatile session manager keeping sessions, threads and note
// stores in process-local maps. It is safe for concurrent access and is the
// session accessor the orchestrator reads note stores through. Expired
// entries are removed lazily on access and eagerly by the janitor.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	threads  map[string]*Thread
	notes    map[string]*NoteStore

	sessionTTL    time.Duration
	threadTTL     time.Duration
	sweepInterval time.Duration
	logger        logging.Logger

	// now is swappable for expiry tests.
	now func() time.Time
}

// NewStore constructs an empty store with optional overrides.
func NewStore(optFns ...func(o *Options)) *Store {
	opts := Options{
		SessionTTL:    time.Hour,
		ThreadTTL:     2 * time.Hour,
		SweepInterval: time.Minute,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{
		sessions:      make(map[string]*Session),
		threads:       make(map[string]*Thread),
		notes:         make(map[string]*NoteStore),
		sessionTTL:    opts.SessionTTL,
		threadTTL:     opts.ThreadTTL,
		sweepInterval: opts.SweepInterval,
		logger:        opts.Logger,
		now:           time.Now,
	}
}

// Create allocates a new session with an empty note store.
func (s *Store) Create() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	sess := &Session{
		ID:           core.NewID(),
		Created:      now,
		LastAccessed: now,
		TTL:          s.sessionTTL,
	}
	s.sessions[sess.ID] = sess
	s.notes[sess.ID] = NewNoteStore()
	s.logger.Debug("session created", "session_id", sess.ID)
	return sess
}

// Get returns the session by id, refreshing its TTL. Expired sessions are
// removed together with their notes and reported as absent.
func (s *Store) Get(sessionID string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	if sess.Expired(s.now()) {
		s.removeSessionLocked(sessionID)
		return nil, false
	}
	sess.LastAccessed = s.now()
	return sess, true
}

// Delete removes a session and its associated notes.
func (s *Store) Delete(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return false
	}
	s.removeSessionLocked(sessionID)
	s.logger.Debug("session deleted", "session_id", sessionID)
	return true
}

// MarkPasscodeVerified flags the session as having passed the passcode gate.
func (s *Store) MarkPasscodeVerified(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return false
	}
	sess.PasscodeVerified = true
	return true
}

// SetAPIKey attaches the user's provider credential to the session.
func (s *Store) SetAPIKey(sessionID, apiKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return false
	}
	sess.APIKey = apiKey
	return true
}

// Notes returns the note store owned by the session. The handle stays valid
// for the duration of a turn; the store is destroyed with its session.
func (s *Store) Notes(sessionID string) (*NoteStore, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	notes, ok := s.notes[sessionID]
	return notes, ok
}

// CreateThread allocates a thread owned by the given session.
func (s *Store) CreateThread(sessionID string) *Thread {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	thread := &Thread{
		ID:           core.NewID(),
		SessionID:    sessionID,
		Messages:     []string{},
		Created:      now,
		LastAccessed: now,
		TTL:          s.threadTTL,
	}
	s.threads[thread.ID] = thread
	s.logger.Debug("thread created", "thread_id", thread.ID, "session_id", sessionID)
	return thread
}

// GetThread returns the thread by id, refreshing its TTL.
func (s *Store) GetThread(threadID string) (*Thread, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	thread, ok := s.threads[threadID]
	if !ok {
		return nil, false
	}
	if thread.Expired(s.now()) {
		delete(s.threads, threadID)
		return nil, false
	}
	thread.LastAccessed = s.now()
	return thread, true
}

// CleanupExpired removes all expired sessions (with their notes) and threads,
// returning how many of each were removed.
func (s *Store) CleanupExpired() (sessions, threads int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			s.removeSessionLocked(id)
			sessions++
		}
	}
	for id, thread := range s.threads {
		if thread.Expired(now) {
			delete(s.threads, id)
			threads++
		}
	}
	return sessions, threads
}

// RunJanitor sweeps expired entries on a fixed interval until ctx is
// cancelled. Intended to run in its own goroutine for the process lifetime.
func (s *Store) RunJanitor(ctx context.Context) error {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			sessions, threads := s.CleanupExpired()
			if sessions > 0 || threads > 0 {
				s.logger.Info("cleaned up expired entries", "sessions", sessions, "threads", threads)
			}
		}
	}
}

func (s *Store) removeSessionLocked(sessionID string) {
	delete(s.sessions, sessionID)
	delete(s.notes, sessionID)
}
