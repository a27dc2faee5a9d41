package cache

import (
	"strconv"
	"testing"
	"time"
)

func newTestCache(t *testing.T, size int) (*LRUCache[string], *time.Time) {
	t.Helper()
	c := NewLRUCache[string](size, time.Minute)
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestLRUCache_GetSet(t *testing.T) {
	c, _ := newTestCache(t, 2)
	c.Set("2025-03", "march")
	if v, ok := c.Get("2025-03"); !ok || v != "march" {
		t.Fatalf("got %q %v", v, ok)
	}
	c.Set("2025-03", "march v2")
	if v, _ := c.Get("2025-03"); v != "march v2" || c.Size() != 1 {
		t.Fatalf("overwrite failed: %q size=%d", v, c.Size())
	}
	if _, ok := c.Get("missing"); ok {
		t.Fatal("unexpected hit")
	}
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(t, 2)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a")
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a was used recently and should stay")
	}
}

func TestLRUCache_Expiry(t *testing.T) {
	c, now := newTestCache(t, 10)
	for i := 0; i < 3; i++ {
		c.Set(strconv.Itoa(i), "v")
	}
	*now = now.Add(30 * time.Second)
	c.Set("fresh", "v")
	*now = now.Add(45 * time.Second)

	if removed := c.CleanExpired(); removed != 3 {
		t.Fatalf("expected 3 expired, got %d", removed)
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Fatal("fresh entry should survive")
	}
	*now = now.Add(time.Minute)
	if _, ok := c.Get("fresh"); ok {
		t.Fatal("entry should expire on read")
	}
}

func TestLRUCache_DeleteAndPurge(t *testing.T) {
	c, _ := newTestCache(t, 10)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Delete("a")
	if c.Size() != 1 {
		t.Fatalf("size=%d", c.Size())
	}
	c.Purge()
	if c.Size() != 0 {
		t.Fatalf("size after purge=%d", c.Size())
	}
	c.Set("c", "3")
	if v, ok := c.Get("c"); !ok || v != "3" {
		t.Fatal("cache unusable after purge")
	}
}

func TestManager(t *testing.T) {
	c, now := newTestCache(t, 10)
	c.Set("a", "1")
	*now = now.Add(2 * time.Minute)

	m := NewManager()
	m.Register(c)
	if n := m.CleanNow(); n != 1 {
		t.Fatalf("expected 1 removed, got %d", n)
	}

	m.StartCleanup(time.Hour)
	m.StartCleanup(time.Hour)
	m.Stop()
	m.Stop()

	NewManager().Stop()
}
