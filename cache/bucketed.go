package cache

// DefaultCapacity is the number of entries a Bucketed cache holds before
// it is cleared.
const DefaultCapacity = 100

// Checksum computes the bucket of a key. Distinct keys may share a
// bucket; the cache's Equality decides.
type Checksum[K any] func(*K) uint32

// Equality reports whether two keys are the same entry.
type Equality[K any] func(a, b *K) bool

// Bucketed maps keys to values through checksum buckets.
//
// Keys are grouped by their checksum and compared with the equality
// function inside a bucket, so a poor (even constant) checksum costs only
// lookup time. When an insert finds the cache full, every entry is
// dropped first: there is no per-entry eviction order.
//
// Bucketed is not safe for concurrent use.
type Bucketed[K, V any] struct {
	buckets  map[uint32][]bucketEntry[K, V]
	checksum Checksum[K]
	equal    Equality[K]
	capacity int
	size     int

	hits   uint64
	misses uint64
	clears uint64
}

type bucketEntry[K, V any] struct {
	key   K
	value V
}

// NewBucketed creates a cache holding at most capacity entries.
// If capacity <= 0, DefaultCapacity is used.
func NewBucketed[K, V any](capacity int, checksum Checksum[K], equal Equality[K]) *Bucketed[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Bucketed[K, V]{
		buckets:  make(map[uint32][]bucketEntry[K, V]),
		checksum: checksum,
		equal:    equal,
		capacity: capacity,
	}
}

// Lookup returns the value stored under key.
func (c *Bucketed[K, V]) Lookup(key *K) (V, bool) {
	bucket := c.buckets[c.checksum(key)]
	for i := range bucket {
		if e := &bucket[i]; c.equal(&e.key, key) {
			c.hits++
			return e.value, true
		}
	}
	c.misses++
	var zero V
	return zero, false
}

// Insert stores value under a copy of key, replacing an equal key's value.
// It reports whether the cache was cleared to make room.
func (c *Bucketed[K, V]) Insert(key *K, value V) bool {
	sum := c.checksum(key)
	bucket := c.buckets[sum]
	for i := range bucket {
		if c.equal(&bucket[i].key, key) {
			bucket[i].value = value
			return false
		}
	}

	cleared := false
	if c.size >= c.capacity {
		c.Clear()
		c.clears++
		cleared = true
	}
	c.buckets[sum] = append(c.buckets[sum], bucketEntry[K, V]{key: *key, value: value})
	c.size++
	return cleared
}

// Clear removes all entries. Counters are kept.
func (c *Bucketed[K, V]) Clear() {
	clear(c.buckets)
	c.size = 0
}

// Len returns the number of entries.
func (c *Bucketed[K, V]) Len() int { return c.size }

// Capacity returns the maximum number of entries.
func (c *Bucketed[K, V]) Capacity() int { return c.capacity }

// Buckets returns the number of distinct checksums in use.
func (c *Bucketed[K, V]) Buckets() int { return len(c.buckets) }

// Stats returns current cache statistics.
func (c *Bucketed[K, V]) Stats() Stats {
	var hitRate float64
	if total := c.hits + c.misses; total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}
	return Stats{
		Len:      c.size,
		Capacity: c.capacity,
		Buckets:  len(c.buckets),
		Hits:     c.hits,
		Misses:   c.misses,
		Clears:   c.clears,
		HitRate:  hitRate,
	}
}

// ResetStats resets all statistics counters to zero.
func (c *Bucketed[K, V]) ResetStats() {
	c.hits, c.misses, c.clears = 0, 0, 0
}
