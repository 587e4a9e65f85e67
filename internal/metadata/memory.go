package metadata

import (
	"sync"

	"github.com/roach88/tokenmeta/internal/keycodec"
)

// MemoryStore is the in-process Store. The zero value is not usable; call
// NewMemoryStore.
type MemoryStore struct {
	mu       sync.RWMutex
	keyCount int
	values   map[keycodec.Key][]string
	counts   map[keycodec.Key]int
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[keycodec.Key][]string),
		counts: make(map[keycodec.Key]int),
	}
}

// Values returns a copy of the list stored under key.
func (s *MemoryStore) Values(key keycodec.Key) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneValues(s.values[key]), nil
}

// Value returns the first value under key, or "".
func (s *MemoryStore) Value(key keycodec.Key) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v := s.values[key]
	if len(v) == 0 {
		return "", nil
	}
	return v[0], nil
}

// SetValues replaces the list under key.
func (s *MemoryStore) SetValues(key keycodec.Key, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store(key, values)
	return nil
}

// SetValue is SetValues with a single value.
func (s *MemoryStore) SetValue(key keycodec.Key, value string) error {
	return s.SetValues(key, []string{value})
}

// AddValues stores values under key if the key holds nothing yet.
func (s *MemoryStore) AddValues(key keycodec.Key, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counts[key] > 0 {
		return NewKeyExistsError(key)
	}
	s.store(key, values)
	return nil
}

// AddValue is AddValues with a single value.
func (s *MemoryStore) AddValue(key keycodec.Key, value string) error {
	return s.AddValues(key, []string{value})
}

// KeyCount returns the number of keys that have been populated.
func (s *MemoryStore) KeyCount() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keyCount, nil
}

// store must be called with mu held.
func (s *MemoryStore) store(key keycodec.Key, values []string) {
	if s.counts[key] == 0 && len(values) > 0 {
		s.keyCount++
	}
	s.values[key] = cloneValues(values)
	s.counts[key] = len(values)
}

func cloneValues(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}

// MemoryBackend keeps all three tiers in process memory.
type MemoryBackend struct {
	contract *MemoryStore
	defaults *MemoryStore

	mu       sync.Mutex
	entities map[EntityID]*MemoryStore
}

// NewMemoryBackend creates the contract and default tiers. Entity stores
// are created on first use.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		contract: NewMemoryStore(),
		defaults: NewMemoryStore(),
		entities: make(map[EntityID]*MemoryStore),
	}
}

func (b *MemoryBackend) Contract() Store { return b.contract }

func (b *MemoryBackend) Defaults() Store { return b.defaults }

func (b *MemoryBackend) Entity(id EntityID) Store {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.entities[id]
	if !ok {
		s = NewMemoryStore()
		b.entities[id] = s
	}
	return s
}

func (b *MemoryBackend) LookupEntity(id EntityID) (Store, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.entities[id]
	if !ok {
		return nil, false, nil
	}
	return s, true, nil
}
