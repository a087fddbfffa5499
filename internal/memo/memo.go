package memo

import "sync"

// Memo is a fixed-capacity LRU map.
type Memo[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*entry[K, V]
	order    lruList[K]
	capacity int

	hits   uint64
	misses uint64
}

type entry[K comparable, V any] struct {
	value V
	node  *lruNode[K]
}

// New returns an empty memo holding at most capacity entries. A capacity
// below 1 is raised to 1.
func New[K comparable, V any](capacity int) *Memo[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Memo[K, V]{
		entries:  make(map[K]*entry[K, V], capacity),
		capacity: capacity,
	}
}

// Get returns the value stored for key and marks it recently used.
func (m *Memo[K, V]) Get(key K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		m.misses++
		var zero V
		return zero, false
	}
	m.hits++
	m.order.moveToFront(e.node)
	return e.value, true
}

// Set stores value for key, dropping the least recently used entry when
// the memo is full.
func (m *Memo[K, V]) Set(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[key]; ok {
		e.value = value
		m.order.moveToFront(e.node)
		return
	}
	if len(m.entries) >= m.capacity {
		if oldest, ok := m.order.removeOldest(); ok {
			delete(m.entries, oldest)
		}
	}
	m.entries[key] = &entry[K, V]{value: value, node: m.order.pushFront(key)}
}

// Clear removes every entry. The hit and miss counters are kept.
func (m *Memo[K, V]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[K]*entry[K, V], m.capacity)
	m.order.clear()
}

// Len returns the number of entries.
func (m *Memo[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}

// Capacity returns the maximum number of entries.
func (m *Memo[K, V]) Capacity() int { return m.capacity }

// Counters returns the number of Get hits and misses.
func (m *Memo[K, V]) Counters() (hits, misses uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.hits, m.misses
}
