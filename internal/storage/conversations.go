// Package storage provides in-memory implementations of the domain stores.
// The sqlite subpackage holds the durable versions.
package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/hammamikhairi/pantrypal/internal/domain"
	"github.com/hammamikhairi/pantrypal/internal/logger"
)

// Compile-time interface check.
var _ domain.ConversationStore = (*ConversationStore)(nil)

// ConversationStore keeps live conversation sessions. Sessions are not
// persisted across restarts. Safe for concurrent access.
type ConversationStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.ConversationSession
	log      *logger.Logger
}

// NewConversationStore creates an empty session store.
func NewConversationStore(log *logger.Logger) *ConversationStore {
	return &ConversationStore{
		sessions: make(map[string]*domain.ConversationSession),
		log:      log,
	}
}

// Save stores a session. Overwrites if it already exists.
func (s *ConversationStore) Save(ctx context.Context, session *domain.ConversationSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("saving session %s (owner=%s, turns=%d)", session.ID, session.OwnerID, session.Len())
	s.sessions[session.ID] = session
	return nil
}

// Load retrieves a session by ID.
func (s *ConversationStore) Load(ctx context.Context, id string) (*domain.ConversationSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		s.log.Debug("session not found: %s", id)
		return nil, domain.ErrNotFound
	}
	return sess, nil
}

// Delete removes a session by ID.
func (s *ConversationStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.sessions, id)
	s.log.Debug("deleted session %s", id)
	return nil
}

// ListByOwner returns the owner's sessions, oldest first.
func (s *ConversationStore) ListByOwner(ctx context.Context, ownerID string) ([]*domain.ConversationSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.ConversationSession
	for _, sess := range s.sessions {
		if sess.OwnerID == ownerID {
			out = append(out, sess)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	s.log.Debug("listing sessions for %s, count=%d", ownerID, len(out))
	return out, nil
}
