package let

import (
	gocache "github.com/patrickmn/go-cache"
)

// memoStore holds one example's computed values keyed by cache key.
// Entries live until flush; there is no eviction.
type memoStore interface {
	get(key string) (any, bool)
	store(key string, value any) any
	flush()
}

// mapStore backs the default cache. It assumes the single-threaded
// ownership the evaluation model prescribes: if a test body spawns
// goroutines that race to populate one key, the first writer wins with
// no atomicity guarantee.
type mapStore struct {
	entries map[string]any
}

func newMapStore() *mapStore {
	return &mapStore{entries: make(map[string]any)}
}

func (s *mapStore) get(key string) (any, bool) {
	value, ok := s.entries[key]
	return value, ok
}

func (s *mapStore) store(key string, value any) any {
	if existing, ok := s.entries[key]; ok {
		return existing
	}

	s.entries[key] = value

	return value
}

func (s *mapStore) flush() {
	s.entries = make(map[string]any)
}

// safeStore backs the thread-safe variant. Population is atomic: when
// two goroutines race to fill one key, the first stored value is kept
// and returned to both.
type safeStore struct {
	cache *gocache.Cache
}

func newSafeStore() *safeStore {
	return &safeStore{cache: gocache.New(gocache.NoExpiration, 0)}
}

func (s *safeStore) get(key string) (any, bool) {
	return s.cache.Get(key)
}

func (s *safeStore) store(key string, value any) any {
	if err := s.cache.Add(key, value, gocache.NoExpiration); err != nil {
		if existing, ok := s.cache.Get(key); ok {
			return existing
		}
	}

	return value
}

func (s *safeStore) flush() {
	s.cache.Flush()
}
