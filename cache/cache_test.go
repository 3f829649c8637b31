package cache

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMesh is the minimal cache.Mesh implementation the tests need; it
// does not depend on the geom package so this package can be tested in
// isolation from the geometry that eventually populates it.
type fakeMesh struct {
	tag  string
	size int64
}

func (f fakeMesh) Clone() Mesh     { return f }
func (f fakeMesh) ByteSize() int64 { return f.size }

func TestGetSetRoundTrip(t *testing.T) {
	c := New(DefaultConfig())
	c.Set(1, fakeMesh{tag: "a", size: 100})

	got, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "a", got.(fakeMesh).tag)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(0), stats.Misses)
}

func TestGetMissIncrementsMisses(t *testing.T) {
	c := New(DefaultConfig())
	_, ok := c.Get(42)
	assert.False(t, ok)
	assert.Equal(t, int64(1), c.Stats().Misses)
}

func TestByteAccountingInvariant(t *testing.T) {
	c := New(DefaultConfig())
	for i := Key(0); i < 10; i++ {
		c.Set(i, fakeMesh{size: int64(i) + 1})
	}
	var want int64
	for i := Key(0); i < 10; i++ {
		want += int64(i) + 1
	}
	assert.Equal(t, want, c.Stats().Bytes, "current_bytes must equal the sum of entry byte sizes")
	assert.Equal(t, 10, c.Stats().Entries)
}

func TestLRUEvictionOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxEntries = 2
	cfg.MaxBytes = 0 // unbounded by size for this test
	c := New(cfg)

	c.Set(1, fakeMesh{size: 1})
	c.Set(2, fakeMesh{size: 1})
	// Touch 1 so it becomes more-recently-used than 2.
	_, _ = c.Get(1)
	// Inserting a third entry must evict 2 (the least-recently-used),
	// not 1.
	c.Set(3, fakeMesh{size: 1})

	if _, ok := c.Get(2); ok {
		t.Fatal("expected key 2 (least recently used) to have been evicted")
	}
	if _, ok := c.Get(1); !ok {
		t.Fatal("expected key 1 (recently touched) to survive eviction")
	}
	if _, ok := c.Get(3); !ok {
		t.Fatal("expected key 3 (just inserted) to survive")
	}
}

func TestMaxBytesExcludesOversizedEntry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxBytes = 10
	c := New(cfg)
	c.Set(1, fakeMesh{size: 100}) // CacheOverflow: silently not cached
	_, ok := c.Get(1)
	assert.False(t, ok)
	assert.Equal(t, int64(0), c.Stats().Bytes)
}

func TestGetOrCreateInvokesFactoryOnce(t *testing.T) {
	c := New(DefaultConfig())
	var calls int64
	factory := func() (Mesh, error) {
		atomic.AddInt64(&calls, 1)
		time.Sleep(5 * time.Millisecond)
		return fakeMesh{tag: "built", size: 1}, nil
	}

	var wg sync.WaitGroup
	const n = 20
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			m, err := c.GetOrCreate(7, factory)
			require.NoError(t, err)
			assert.Equal(t, "built", m.(fakeMesh).tag)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&calls), "factory must run at most once per key under concurrent callers")
}

func TestOptimizeEvictsLowAccessEntries(t *testing.T) {
	c := New(DefaultConfig())
	c.Set(1, fakeMesh{size: 1})
	c.Set(2, fakeMesh{size: 1})
	c.Set(3, fakeMesh{size: 1})
	// Access entry 1 heavily, leave 2 and 3 at their single insert-time
	// access count.
	for i := 0; i < 20; i++ {
		_, _ = c.Get(1)
	}
	c.Optimize()

	_, ok1 := c.Get(1)
	assert.True(t, ok1, "heavily-accessed entry should survive Optimize")
}

func TestFingerprintDeterministic(t *testing.T) {
	k1 := NewFingerprint().String("hole").Float64(22.0).Float64(6000).Sum()
	k2 := NewFingerprint().String("hole").Float64(22.0).Float64(6000).Sum()
	assert.Equal(t, k1, k2)

	k3 := NewFingerprint().String("hole").Float64(23.0).Float64(6000).Sum()
	assert.NotEqual(t, k1, k3)
}

func TestFingerprintMatchesReferenceFNV(t *testing.T) {
	got := NewFingerprint().String("a").String("b").Sum()
	want := sumFNV("a", "b")
	assert.Equal(t, want, got)
}
