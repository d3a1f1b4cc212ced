package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one guest's ordering session. Its mutex serializes requests
// for the same session; different sessions never block each other.
type Session struct {
	ID uuid.UUID

	mu       sync.Mutex
	cart     *Cart
	pending  *pendingOrder
	lastSeen time.Time
}

type Store struct {
	mu         sync.Mutex
	sessions   map[uuid.UUID]*Session
	ttl        time.Duration
	maxPerItem int
	now        func() time.Time
}

func NewStore(ttl time.Duration, maxPerItem int) *Store {
	return &Store{
		sessions:   make(map[uuid.UUID]*Session),
		ttl:        ttl,
		maxPerItem: maxPerItem,
		now:        time.Now,
	}
}

func (s *Store) Create() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &Session{
		ID:       uuid.New(),
		cart:     NewCart(s.maxPerItem),
		lastSeen: s.now(),
	}
	s.sessions[sess.ID] = sess
	return sess
}

// Get returns the session and marks it as active.
func (s *Store) Get(id uuid.UUID) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if ok {
		sess.lastSeen = s.now()
	}
	return sess, ok
}

func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	n := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration, onSweep func(int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}
