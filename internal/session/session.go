// File path: internal/session/session.go

// Package session holds the minimal cross-step state of the advisor
// workflow: which home institution step 1 resolved. Step 2 refuses to run
// without it. Storage is process-lifetime only.
package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL bounds how long a session opened by step 1 stays valid.
const DefaultTTL = 2 * time.Hour

// ErrInvalidSession is returned for missing, expired, or incomplete
// sessions. The caller must re-run step 1.
var ErrInvalidSession = errors.New("invalid or expired session")

// Session is created once step 1 has resolved a program announcement.
type Session struct {
	ID             string    `json:"id"`
	HomeUniversity string    `json:"home_university"`
	CreatedAt      time.Time `json:"created_at"`

	expiresAt time.Time
}

// Store is the session registry injected into the workflow orchestrators.
type Store interface {
	Create(homeUniversity string) (Session, error)
	Get(id string) (Session, error)
	Delete(id string)
}

// MemoryStore is an in-memory Store with lazy TTL eviction. Safe for
// concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore builds a MemoryStore; ttl <= 0 applies DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) Create(homeUniversity string) (Session, error) {
	trimmed := strings.TrimSpace(homeUniversity)
	if trimmed == "" {
		return Session{}, errors.New("home university required")
	}
	now := s.now()
	sess := Session{
		ID:             uuid.NewString(),
		HomeUniversity: trimmed,
		CreatedAt:      now,
		expiresAt:      now.Add(s.ttl),
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess, nil
}

func (s *MemoryStore) Get(id string) (Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return Session{}, ErrInvalidSession
	}
	if s.now().After(sess.expiresAt) {
		s.Delete(id)
		return Session{}, ErrInvalidSession
	}
	// A session with no home university never validates, regardless of how
	// it was stored.
	if strings.TrimSpace(sess.HomeUniversity) == "" {
		return Session{}, ErrInvalidSession
	}
	return sess, nil
}

func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

var _ Store = (*MemoryStore)(nil)
