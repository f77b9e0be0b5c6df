package favorites

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/swelljoe/wthr-dash/internal/weather"
)

// SlotKey is the storage slot holding the serialized favorites list
const SlotKey = "weatherFavorites"

// Slot is a durable key-value entry. *db.DB satisfies it.
type Slot interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Store keeps an ordered, name-unique list of favorite locations and
// rewrites the whole list to its slot on every change.
type Store struct {
	mu    sync.RWMutex
	slot  Slot
	items []weather.Location
}

// New creates a store backed by slot. Call Load to read persisted favorites.
func New(slot Slot) *Store {
	return &Store{
		slot:  slot,
		items: make([]weather.Location, 0),
	}
}

// Load replaces the in-memory list with the persisted one. Missing or
// corrupt data yields an empty list.
func (s *Store) Load() []weather.Location {
	items := s.read()

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	return s.List()
}

func (s *Store) read() []weather.Location {
	empty := make([]weather.Location, 0)
	if s.slot == nil {
		return empty
	}

	raw, ok, err := s.slot.Get(SlotKey)
	if err != nil {
		log.Printf("favorites: read failed, starting empty: %v", err)
		return empty
	}
	if !ok || raw == "" {
		return empty
	}

	var items []weather.Location
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Printf("favorites: stored data unparseable, starting empty: %v", err)
		return empty
	}

	// Older writers could have stored duplicates; keep the first of each name
	out := empty
	for _, loc := range items {
		if indexOf(out, loc.Name) == -1 {
			out = append(out, loc)
		}
	}
	return out
}

// Add appends loc unless a favorite with the same name exists
func (s *Store) Add(loc weather.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.items, loc.Name) != -1 {
		return nil
	}
	s.items = append(s.items, loc)
	return s.persist()
}

// Remove deletes the favorite called name. Absent names are ignored.
func (s *Store) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]weather.Location, 0, len(s.items))
	for _, loc := range s.items {
		if loc.Name != name {
			kept = append(kept, loc)
		}
	}
	if len(kept) == len(s.items) {
		return nil
	}
	s.items = kept
	return s.persist()
}

// Contains reports whether a favorite called name exists
func (s *Store) Contains(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return indexOf(s.items, name) != -1
}

// List returns a copy of the favorites in insertion order
func (s *Store) List() []weather.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]weather.Location, len(s.items))
	copy(out, s.items)
	return out
}

// persist must be called with mu held
func (s *Store) persist() error {
	if s.slot == nil {
		return nil
	}
	data, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}
	if err := s.slot.Set(SlotKey, string(data)); err != nil {
		return fmt.Errorf("failed to save favorites: %w", err)
	}
	return nil
}

func indexOf(items []weather.Location, name string) int {
	for i, loc := range items {
		if loc.Name == name {
			return i
		}
	}
	return -1
}
