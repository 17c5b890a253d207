package cmap

import (
	"fmt"
	"sort"
	"sync"
	"testing"
)

type entry struct {
	Value string
	TTL   int64
}

func TestNew(t *testing.T) {
	m := New[string, int]()
	if m == nil {
		t.Fatal("New() returned nil")
	}
	if len(m.shards) != DefaultShardCount {
		t.Errorf("shard count = %d, want %d", len(m.shards), DefaultShardCount)
	}
}

func TestNewWithShards(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{0, DefaultShardCount},
		{-1, DefaultShardCount},
		{3, DefaultShardCount},
		{1, 1},
		{2, 2},
		{8, 8},
		{64, 64},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("shards=%d", tt.input), func(t *testing.T) {
			m := NewWithShards[string, int](tt.input)
			if m.ShardCount() != tt.expected {
				t.Errorf("NewWithShards(%d) shard count = %d, want %d",
					tt.input, m.ShardCount(), tt.expected)
			}
		})
	}
}

func TestSetAndGet(t *testing.T) {
	m := New[string, entry]()

	m.Set("key1", entry{Value: "a", TTL: 1})
	m.Set("key2", entry{Value: "b", TTL: 2})

	val, ok := m.Get("key1")
	if !ok || val.Value != "a" || val.TTL != 1 {
		t.Errorf("Get(key1) = (%+v, %v), want ({a 1}, true)", val, ok)
	}

	if _, ok := m.Get("nonexistent"); ok {
		t.Error("Get(nonexistent) should report absence")
	}
}

func TestOverwrite(t *testing.T) {
	m := New[string, entry]()

	m.Set("key1", entry{Value: "v1", TTL: 10})
	m.Set("key1", entry{Value: "v2", TTL: 20})

	val, ok := m.Get("key1")
	if !ok || val != (entry{Value: "v2", TTL: 20}) {
		t.Errorf("Get(key1) = (%+v, %v), want ({v2 20}, true)", val, ok)
	}
	if m.Count() != 1 {
		t.Errorf("Count() = %d, want 1", m.Count())
	}
}

func TestDelete(t *testing.T) {
	m := New[string, int]()

	m.Set("key1", 100)
	m.Delete("key1")

	if m.Has("key1") {
		t.Error("key1 should not exist after deletion")
	}

	// Delete non-existent key should not panic
	m.Delete("nonexistent")
}

func TestPop(t *testing.T) {
	m := New[string, int]()
	m.Set("key1", 100)

	val, ok := m.Pop("key1")
	if !ok || val != 100 {
		t.Errorf("Pop(key1) = (%d, %v), want (100, true)", val, ok)
	}
	if m.Has("key1") {
		t.Error("key1 should be gone after Pop")
	}

	val, ok = m.Pop("key1")
	if ok || val != 0 {
		t.Errorf("second Pop(key1) = (%d, %v), want (0, false)", val, ok)
	}
}

func TestCountAndClear(t *testing.T) {
	m := New[string, int]()

	if m.Count() != 0 {
		t.Errorf("Count() = %d, want 0", m.Count())
	}

	m.Set("key1", 1)
	m.Set("key2", 2)
	m.Set("key3", 3)
	if m.Count() != 3 {
		t.Errorf("Count() = %d, want 3", m.Count())
	}

	m.Clear()
	if m.Count() != 0 {
		t.Errorf("Count() after Clear() = %d, want 0", m.Count())
	}
}

func TestNamedStringKey(t *testing.T) {
	type Key string
	m := New[Key, int]()

	m.Set(Key("k"), 7)
	if v, ok := m.Get("k"); !ok || v != 7 {
		t.Errorf("Get(k) = (%d, %v), want (7, true)", v, ok)
	}
}

func TestRangeAndKeys(t *testing.T) {
	m := New[string, int]()
	for i := 0; i < 10; i++ {
		m.Set(fmt.Sprintf("key%d", i), i)
	}

	sum := 0
	m.Range(func(_ string, v int) bool {
		sum += v
		return true
	})
	if sum != 45 {
		t.Errorf("Range sum = %d, want 45", sum)
	}

	visited := 0
	m.Range(func(string, int) bool {
		visited++
		return visited < 3
	})
	if visited != 3 {
		t.Errorf("Range with early stop visited %d, want 3", visited)
	}

	keys := m.Keys()
	sort.Strings(keys)
	if len(keys) != 10 || keys[0] != "key0" || keys[9] != "key9" {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestStats(t *testing.T) {
	m := NewWithShards[string, int](4)
	for i := 0; i < 100; i++ {
		m.Set(fmt.Sprintf("key-%d", i), i)
	}

	stats := m.Stats()
	if len(stats) != 4 {
		t.Fatalf("Stats() length = %d, want 4", len(stats))
	}

	total := 0
	used := 0
	for _, s := range stats {
		total += s.Count
		if s.Count > 0 {
			used++
		}
	}
	if total != 100 {
		t.Errorf("total count from stats = %d, want 100", total)
	}
	if used < 2 {
		t.Errorf("keys landed in %d shards, want them spread", used)
	}
}

func TestConcurrentAccess(t *testing.T) {
	m := New[string, int]()
	var wg sync.WaitGroup
	numGoroutines := 50
	numOps := 200

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := 0; j < numOps; j++ {
				m.Set(fmt.Sprintf("%d-%d", base, j), j)
			}
		}(i)
	}
	wg.Wait()

	if m.Count() != numGoroutines*numOps {
		t.Errorf("Count() = %d, want %d", m.Count(), numGoroutines*numOps)
	}

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := 0; j < numOps; j++ {
				key := fmt.Sprintf("%d-%d", base, j)
				m.Get(key)
				m.Pop(key)
			}
		}(i)
	}
	wg.Wait()

	if m.Count() != 0 {
		t.Errorf("Count() after concurrent Pop = %d, want 0", m.Count())
	}
}
