// Package cmap provides a concurrent map implementation for Samus.
//
// This package implements a sharded concurrent map for the key space
// of the store:
//
//   - Sharding: power-of-two shard count, murmur3 key hashing
//   - Fine-grained Locking: per-shard RWMutex, so reads proceed in
//     parallel and writes only contend within one shard
//   - Iteration: shard-by-shard iteration under read locks
//
// Usage:
//
//	m := cmap.New[string, domain.Entry]()
//	m.Set("key", entry)
//	val, ok := m.Get("key")
//	old, ok := m.Pop("key")
//
// Thread Safety:
//
// All operations are thread-safe. Read operations (Get, Has, Count)
// use RLock, write operations (Set, Pop, Delete) use Lock.
package cmap
