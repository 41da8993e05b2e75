// Package pkg is a package that provides utilities for lazyspec.
package pkg

// OrderedMap is a generic map that remembers the insertion order of its keys.
// Replacing the value of an existing key keeps the key's original position.
// Not safe for concurrent use.
type OrderedMap[K comparable, V any] interface {
	Len() int
	Set(key K, value V)
	Get(key K) (V, bool)
	Delete(key K) bool
	Keys() []K
	Range(fn func(key K, value V) error) error
}

type orderedMapImpl[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

// Len implements OrderedMap.
func (m *orderedMapImpl[K, V]) Len() int {
	return len(m.keys)
}

// Set implements OrderedMap.
func (m *orderedMapImpl[K, V]) Set(key K, value V) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}

	m.values[key] = value
}

// Get implements OrderedMap.
func (m *orderedMapImpl[K, V]) Get(key K) (V, bool) {
	value, ok := m.values[key]
	return value, ok
}

// Delete implements OrderedMap.
func (m *orderedMapImpl[K, V]) Delete(key K) bool {
	if _, ok := m.values[key]; !ok {
		return false
	}

	delete(m.values, key)

	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}

	return true
}

// Keys implements OrderedMap.
func (m *orderedMapImpl[K, V]) Keys() []K {
	keys := make([]K, len(m.keys))
	copy(keys, m.keys)

	return keys
}

// Range implements OrderedMap.
func (m *orderedMapImpl[K, V]) Range(fn func(key K, value V) error) error {
	for _, key := range m.keys {
		if err := fn(key, m.values[key]); err != nil {
			return err
		}
	}

	return nil
}

// NewOrderedMap creates an empty OrderedMap for keys of type K and values of type V.
func NewOrderedMap[K comparable, V any]() OrderedMap[K, V] {
	return &orderedMapImpl[K, V]{
		keys:   nil,
		values: make(map[K]V),
	}
}
