package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/hammamikhairi/pantrypal/internal/domain"
	"github.com/hammamikhairi/pantrypal/internal/logger"
)

var _ domain.PantryStore = (*PantryStore)(nil)

// PantryStore is an in-memory pantry keyed by owner and entry id.
type PantryStore struct {
	mu      sync.RWMutex
	entries map[string]domain.PantryEntry
	log     *logger.Logger
}

// NewPantryStore creates an empty pantry store.
func NewPantryStore(log *logger.Logger) *PantryStore {
	return &PantryStore{
		entries: make(map[string]domain.PantryEntry),
		log:     log,
	}
}

// ListAll returns the owner's entries sorted by name.
func (s *PantryStore) ListAll(ctx context.Context, ownerID string) ([]domain.PantryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.PantryEntry
	for _, e := range s.entries {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// Upsert stores entry, assigning an id when it has none.
func (s *PantryStore) Upsert(ctx context.Context, entry domain.PantryEntry) error {
	if entry.OwnerID == "" {
		return domain.Errorf(domain.KindAuthorization, "pantry.upsert", "no owner")
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.ID] = entry
	s.log.Debug("upserted pantry entry %s (%s) for %s", entry.ID, entry.Name, entry.OwnerID)
	return nil
}
