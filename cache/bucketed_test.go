package cache

import (
	"strconv"
	"testing"

	"github.com/gogpu/ffp/settings"
)

type key struct {
	a, b int
}

func sumKey(k *key) uint32    { return uint32(k.a + k.b) }
func constKey(*key) uint32    { return 7 }
func equalKey(x, y *key) bool { return *x == *y }

func newTest(capacity int) *Bucketed[key, string] {
	return NewBucketed[key, string](capacity, sumKey, equalKey)
}

func TestNewBucketed(t *testing.T) {
	tests := []struct {
		capacity int
		want     int
	}{
		{0, DefaultCapacity},
		{-1, DefaultCapacity},
		{5, 5},
	}
	for _, tt := range tests {
		c := newTest(tt.capacity)
		if c.Capacity() != tt.want {
			t.Errorf("NewBucketed(%d).Capacity() = %d, want %d", tt.capacity, c.Capacity(), tt.want)
		}
		if c.Len() != 0 {
			t.Errorf("NewBucketed(%d).Len() = %d, want 0", tt.capacity, c.Len())
		}
	}
}

func TestLookupInsert(t *testing.T) {
	c := newTest(10)

	// Same checksum, different keys.
	c.Insert(&key{1, 2}, "a")
	c.Insert(&key{2, 1}, "b")
	c.Insert(&key{0, 3}, "c")

	for _, tt := range []struct {
		k    key
		want string
	}{
		{key{1, 2}, "a"},
		{key{2, 1}, "b"},
		{key{0, 3}, "c"},
	} {
		got, ok := c.Lookup(&tt.k)
		if !ok || got != tt.want {
			t.Errorf("Lookup(%v) = %q, %v, want %q, true", tt.k, got, ok, tt.want)
		}
	}
	if _, ok := c.Lookup(&key{3, 0}); ok {
		t.Error("Lookup({3 0}) found an entry that was never inserted")
	}
	if c.Buckets() != 1 {
		t.Errorf("Buckets() = %d, want 1", c.Buckets())
	}
}

func TestInsertReplaces(t *testing.T) {
	c := newTest(2)
	c.Insert(&key{1, 1}, "old")
	c.Insert(&key{2, 2}, "x")
	if c.Insert(&key{1, 1}, "new") {
		t.Error("Insert of an existing key cleared the cache")
	}
	if got, _ := c.Lookup(&key{1, 1}); got != "new" {
		t.Errorf("Lookup() = %q, want %q", got, "new")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestInsertCopiesKey(t *testing.T) {
	c := newTest(4)
	k := key{1, 2}
	c.Insert(&k, "a")
	k.a = 9
	if _, ok := c.Lookup(&key{1, 2}); !ok {
		t.Error("mutating the caller's key changed the stored key")
	}
}

func TestClearOnFull(t *testing.T) {
	const capacity = 8
	c := newTest(capacity)
	for i := 0; i < capacity; i++ {
		if c.Insert(&key{i, 0}, strconv.Itoa(i)) {
			t.Fatalf("Insert #%d cleared a cache that was not full", i)
		}
	}
	if c.Len() != capacity {
		t.Fatalf("Len() = %d, want %d", c.Len(), capacity)
	}

	if !c.Insert(&key{capacity, 0}, "last") {
		t.Error("Insert into a full cache did not clear it")
	}
	if c.Len() != 1 {
		t.Errorf("Len() after capacity+1 inserts = %d, want 1", c.Len())
	}
	if _, ok := c.Lookup(&key{0, 0}); ok {
		t.Error("entry survived the clear")
	}
	if got, ok := c.Lookup(&key{capacity, 0}); !ok || got != "last" {
		t.Errorf("Lookup(last) = %q, %v, want %q, true", got, ok, "last")
	}
	if s := c.Stats(); s.Clears != 1 {
		t.Errorf("Stats().Clears = %d, want 1", s.Clears)
	}
}

// A degenerate checksum changes nothing but speed.
func TestDegenerateChecksum(t *testing.T) {
	good := newTest(0)
	bad := NewBucketed[key, string](0, constKey, equalKey)

	var ops []key
	for i := 0; i < 50; i++ {
		ops = append(ops, key{i % 7, i % 5})
	}
	for _, k := range ops {
		g1, ok1 := good.Lookup(&k)
		g2, ok2 := bad.Lookup(&k)
		if g1 != g2 || ok1 != ok2 {
			t.Fatalf("Lookup(%v) = %q, %v with a constant checksum, want %q, %v", k, g2, ok2, g1, ok1)
		}
		if !ok1 {
			v := strconv.Itoa(k.a) + "/" + strconv.Itoa(k.b)
			good.Insert(&k, v)
			bad.Insert(&k, v)
		}
	}
	gs, bs := good.Stats(), bad.Stats()
	if gs.Hits != bs.Hits || gs.Misses != bs.Misses || gs.Len != bs.Len {
		t.Errorf("Stats() = %+v with a constant checksum, want %+v", bs, gs)
	}
	if bad.Buckets() != 1 {
		t.Errorf("Buckets() = %d, want 1", bad.Buckets())
	}
}

func TestStats(t *testing.T) {
	c := newTest(4)
	c.Insert(&key{1, 0}, "a")
	c.Lookup(&key{1, 0})
	c.Lookup(&key{1, 0})
	c.Lookup(&key{2, 0})

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 {
		t.Errorf("Stats() hits, misses = %d, %d, want 2, 1", s.Hits, s.Misses)
	}
	if s.HitRate < 0.66 || s.HitRate > 0.67 {
		t.Errorf("Stats().HitRate = %v, want 2/3", s.HitRate)
	}
	if s.Len != 1 || s.Capacity != 4 {
		t.Errorf("Stats() len, capacity = %d, %d, want 1, 4", s.Len, s.Capacity)
	}
	if got, want := s.String(), "1/4 entries in 1 buckets, 2 hits, 1 misses (66.7%), 0 clears"; got != want {
		t.Errorf("Stats().String() = %q, want %q", got, want)
	}

	c.ResetStats()
	if s := c.Stats(); s.Hits != 0 || s.Misses != 0 || s.HitRate != 0 || s.Len != 1 {
		t.Errorf("Stats() after ResetStats = %+v", s)
	}
}

func TestClear(t *testing.T) {
	c := newTest(4)
	c.Insert(&key{1, 0}, "a")
	c.Insert(&key{2, 0}, "b")
	c.Clear()
	if c.Len() != 0 || c.Buckets() != 0 {
		t.Errorf("Len(), Buckets() after Clear = %d, %d, want 0, 0", c.Len(), c.Buckets())
	}
	if s := c.Stats(); s.Clears != 0 {
		t.Errorf("Stats().Clears after an explicit Clear = %d, want 0", s.Clears)
	}
}

func TestPipelineSettingsKeys(t *testing.T) {
	c := NewBucketed[settings.PipelineSettings, int](0, settings.Checksum, settings.Equal)

	a := settings.Defaults()
	b := settings.Defaults()
	b.Stages[3].Combine.RGB = settings.CombineAdd

	c.Insert(&a, 1)
	if _, ok := c.Lookup(&b); ok {
		t.Error("settings differing in a combine record share an entry")
	}
	c.Insert(&b, 2)
	if got, _ := c.Lookup(&a); got != 1 {
		t.Errorf("Lookup(defaults) = %d, want 1", got)
	}
	if got, _ := c.Lookup(&b); got != 2 {
		t.Errorf("Lookup(modified) = %d, want 2", got)
	}
}

func BenchmarkLookupHit(b *testing.B) {
	c := NewBucketed[settings.PipelineSettings, int](0, settings.Checksum, settings.Equal)
	s := settings.Defaults()
	c.Insert(&s, 1)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Lookup(&s)
	}
}

func BenchmarkLookupConstantChecksum(b *testing.B) {
	c := NewBucketed[key, int](0, constKey, equalKey)
	for i := 0; i < DefaultCapacity; i++ {
		c.Insert(&key{i, 0}, i)
	}
	k := key{DefaultCapacity - 1, 0}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Lookup(&k)
	}
}

func BenchmarkInsertClear(b *testing.B) {
	c := newTest(DefaultCapacity)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Insert(&key{i, 0}, "")
	}
}
