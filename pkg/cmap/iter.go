// Package cmap provides a concurrent-safe sharded map.
package cmap

// Range iterates over all key-value pairs.
//
// The callback returns false to stop iteration. Locks are taken shard by
// shard, so the view is not a consistent snapshot. The callback must not
// write to the map.
func (m *Map[K, V]) Range(fn func(key K, value V) bool) {
	for _, shard := range m.shards {
		shard.mu.RLock()
		for k, v := range shard.items {
			if !fn(k, v) {
				shard.mu.RUnlock()
				return
			}
		}
		shard.mu.RUnlock()
	}
}

// Keys returns all keys.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.Count())
	m.Range(func(key K, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// ShardStats returns statistics about each shard.
type ShardStats struct {
	Index int
	Count int
}

// Stats returns statistics about all shards.
func (m *Map[K, V]) Stats() []ShardStats {
	stats := make([]ShardStats, len(m.shards))
	for i, shard := range m.shards {
		shard.mu.RLock()
		stats[i] = ShardStats{
			Index: i,
			Count: len(shard.items),
		}
		shard.mu.RUnlock()
	}
	return stats
}
