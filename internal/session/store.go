package session

import (
	"context"
	"sync"
)

// Preparer builds sessions; *Builder is the production implementation
type Preparer interface {
	Prepare(ctx context.Context, p Params) (*Session, error)
}

// Store holds at most one Session: the result of the latest completed
// Refresh. Readers receive the snapshot pointer and never see it change.
type Store struct {
	mu       sync.RWMutex
	current  *Session
	preparer Preparer
}

// NewStore creates an empty store
func NewStore(p Preparer) *Store {
	return &Store{preparer: p}
}

// Refresh rebuilds the session unconditionally. This is what an editor
// event (buffer enter, write) triggers.
func (s *Store) Refresh(ctx context.Context, p Params) (*Session, error) {
	sess, err := s.preparer.Prepare(ctx, p)

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	return sess, err
}

// Current returns the cached session, or nil
func (s *Store) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// ForCwd returns the cached session when it belongs to p.Cwd and rebuilds
// it otherwise, so flags of one project never leak into another.
func (s *Store) ForCwd(ctx context.Context, p Params) (*Session, error) {
	if cur := s.Current(); cur != nil && cur.Cwd == p.Cwd {
		return cur, nil
	}
	return s.Refresh(ctx, p)
}

// Invalidate drops the cached session
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}
