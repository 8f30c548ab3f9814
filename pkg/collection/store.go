package collection

import "github.com/watchlogapp/watchlog/pkg/models"

// Store holds one owner's item collection in memory between renders. The
// Mutator is its sole writer: external code reads through Items/Get and
// must never mutate the returned items in place, or snapshot rollback can
// restore a state that never existed.
type Store struct {
	items []*models.MediaItem
}

func NewStore() *Store {
	return &Store{}
}

// Items returns the collection in order. The slice is a copy; the items are
// the live values and are read-only to callers.
func (s *Store) Items() []*models.MediaItem {
	out := make([]*models.MediaItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int {
	return len(s.items)
}

// Get returns the item with the given id, or nil.
func (s *Store) Get(id string) *models.MediaItem {
	if idx := s.indexOf(id); idx >= 0 {
		return s.items[idx]
	}
	return nil
}

func (s *Store) indexOf(id string) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// snapshot deep-clones the collection. Rollback restores this verbatim,
// never a partial or re-derived state.
func (s *Store) snapshot() []*models.MediaItem {
	snap := make([]*models.MediaItem, len(s.items))
	for i, item := range s.items {
		snap[i] = item.Clone()
	}
	return snap
}

func (s *Store) restore(snap []*models.MediaItem) {
	s.items = snap
}

func (s *Store) insertAt(idx int, item *models.MediaItem) {
	if idx < 0 || idx > len(s.items) {
		idx = len(s.items)
	}
	s.items = append(s.items[:idx], append([]*models.MediaItem{item}, s.items[idx:]...)...)
}

func (s *Store) removeAt(idx int) {
	s.items = append(s.items[:idx], s.items[idx+1:]...)
}
