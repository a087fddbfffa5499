package cache

import "fmt"

// Stats holds cache statistics. Counters are informational only.
type Stats struct {
	// Len is the current number of entries.
	Len int

	// Capacity is the number of entries at which the cache is cleared.
	Capacity int

	// Buckets is the number of distinct checksums in use.
	Buckets int

	// Hits is the number of lookups that found an entry.
	Hits uint64

	// Misses is the number of lookups that found nothing.
	Misses uint64

	// Clears is the number of times the cache was emptied to make room.
	Clears uint64

	// HitRate is Hits / (Hits + Misses), or 0 before the first lookup.
	HitRate float64
}

func (s Stats) String() string {
	return fmt.Sprintf("%d/%d entries in %d buckets, %d hits, %d misses (%.1f%%), %d clears",
		s.Len, s.Capacity, s.Buckets, s.Hits, s.Misses, s.HitRate*100, s.Clears)
}
