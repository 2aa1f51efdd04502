package cache

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestCacheGetSet(t *testing.T) {
	c := New[string, int](10)

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for absent key")
	}

	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v", v, ok)
	}

	c.Set("a", 2)
	if v, _ := c.Get("a"); v != 2 {
		t.Errorf("updated value = %d, want 2", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCacheEviction(t *testing.T) {
	c := New[int, int](3)
	for i := 0; i < 3; i++ {
		c.Set(i, i)
	}

	// Touch 0 so it becomes most recently used; inserting 3 must evict 1.
	c.Get(0)
	c.Set(3, 3)

	if _, ok := c.Get(1); ok {
		t.Error("key 1 should have been evicted")
	}
	if _, ok := c.Get(0); !ok {
		t.Error("recently used key 0 should survive")
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}

	_, _, evicts, _ := c.Stats()
	if evicts != 1 {
		t.Errorf("evicts = %d, want 1", evicts)
	}
}

func TestCacheGetOrCompute(t *testing.T) {
	c := New[string, string](10)

	calls := 0
	build := func() (string, error) {
		calls++
		return "built", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrCompute("k", build)
		if err != nil || v != "built" {
			t.Fatalf("GetOrCompute = %q, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("compute ran %d times, want 1", calls)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrCompute("bad", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
	if _, ok := c.Get("bad"); ok {
		t.Error("failed compute must not be cached")
	}
}

func TestCachePurge(t *testing.T) {
	c := New[string, int](10)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len() after Purge = %d", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("purged key should miss")
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New[string, int](64)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", j%16)
				c.Set(key, n)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 16 {
		t.Errorf("Len() = %d, want <= 16", c.Len())
	}
}

func TestCacheDefaultCapacity(t *testing.T) {
	c := New[string, int](0)
	for i := 0; i < 150; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	if c.Len() != 100 {
		t.Errorf("Len() = %d, want default capacity 100", c.Len())
	}
}
