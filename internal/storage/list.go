package storage

import (
	"context"
	"strings"
	"sync"

	"github.com/hammamikhairi/pantrypal/internal/domain"
	"github.com/hammamikhairi/pantrypal/internal/logger"
)

var (
	_ domain.ListStore   = (*ListStore)(nil)
	_ domain.OwnerLookup = (*ListStore)(nil)
)

// ListStore is an in-memory shopping list shared by all owners. Every
// mutating call filters by owner. Safe for concurrent access.
type ListStore struct {
	mu    sync.RWMutex
	items map[string]domain.ListItem
	order []string // insertion order of ids
	log   *logger.Logger
}

// NewListStore creates an empty list store.
func NewListStore(log *logger.Logger) *ListStore {
	return &ListStore{
		items: make(map[string]domain.ListItem),
		log:   log,
	}
}

// InsertMany stores items in order. A duplicate id stops the insert and
// returns the rows stored before it.
func (s *ListStore) InsertMany(ctx context.Context, items []domain.ListItem) ([]domain.ListItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ListItem, 0, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if _, exists := s.items[item.ID]; exists {
			return out, domain.ErrAlreadyExists
		}
		s.items[item.ID] = cloneItem(item)
		s.order = append(s.order, item.ID)
		out = append(out, cloneItem(item))
	}
	s.log.Debug("inserted %d list items", len(out))
	return out, nil
}

// UpdateOne patches the row with id if ownerID owns it.
func (s *ListStore) UpdateOne(ctx context.Context, id, ownerID string, patch domain.ItemPatch) ([]domain.ListItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok || item.OwnerID != ownerID {
		return nil, nil
	}
	patch.Apply(&item)
	s.items[id] = item
	return []domain.ListItem{cloneItem(item)}, nil
}

// DeleteMany removes the rows in ids that ownerID owns.
func (s *ListStore) DeleteMany(ctx context.Context, ids []string, ownerID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, id := range ids {
		item, ok := s.items[id]
		if !ok || item.OwnerID != ownerID {
			continue
		}
		delete(s.items, id)
		n++
	}
	if n > 0 {
		s.compact()
	}
	s.log.Debug("deleted %d of %d list items for %s", n, len(ids), ownerID)
	return n, nil
}

// ListByOwner returns the owner's rows in insertion order.
func (s *ListStore) ListByOwner(ctx context.Context, ownerID string) ([]domain.ListItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.ListItem
	for _, id := range s.order {
		if item := s.items[id]; item.OwnerID == ownerID {
			out = append(out, cloneItem(item))
		}
	}
	return out, nil
}

// FindByName returns the owner's first row whose name matches,
// ignoring case and surrounding space.
func (s *ListStore) FindByName(ctx context.Context, ownerID, name string) (*domain.ListItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := strings.TrimSpace(name)
	for _, id := range s.order {
		item := s.items[id]
		if item.OwnerID == ownerID && strings.EqualFold(item.Name, want) {
			c := cloneItem(item)
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

// DeleteCompleted removes the owner's completed rows.
func (s *ListStore) DeleteCompleted(ctx context.Context, ownerID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, item := range s.items {
		if item.OwnerID == ownerID && item.Completed {
			delete(s.items, id)
			n++
		}
	}
	if n > 0 {
		s.compact()
	}
	return n, nil
}

// OwnerOf reports who owns id.
func (s *ListStore) OwnerOf(ctx context.Context, id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return "", domain.ErrNotFound
	}
	return item.OwnerID, nil
}

// compact drops deleted ids from the order slice. Caller holds the lock.
func (s *ListStore) compact() {
	kept := s.order[:0]
	for _, id := range s.order {
		if _, ok := s.items[id]; ok {
			kept = append(kept, id)
		}
	}
	s.order = kept
}

func cloneItem(item domain.ListItem) domain.ListItem {
	if item.EstimatedPrice != nil {
		v := *item.EstimatedPrice
		item.EstimatedPrice = &v
	}
	return item
}
