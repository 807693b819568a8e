package checkout

import (
	"context"
	"sync"

	"github.com/williamkasasa/hackathon-seaweed/internal/model"
)

// MemoryStore keeps checkout sessions in process memory. Sessions are
// copied on the way in and out so callers never alias stored state.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.CheckoutSession
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*model.CheckoutSession),
	}
}

// Get returns a copy of the stored session.
func (s *MemoryStore) Get(ctx context.Context, id string) (*model.CheckoutSession, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	return cloneSession(session)
}

// Put stores a copy of the session under its id.
func (s *MemoryStore) Put(ctx context.Context, session *model.CheckoutSession) error {
	clone, err := cloneSession(session)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.sessions[session.ID] = clone
	s.mu.Unlock()
	return nil
}

// Delete removes a session. Deleting an absent id is not an error.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}
