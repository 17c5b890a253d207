// Package memory provides the in-memory key-value store for Samus.
//
// It keeps one process-wide mapping from key to domain.Entry on top of
// pkg/cmap, so the store can be shared by every connection handler
// without an outer lock.
//
// Features:
//
//   - Sharded Storage: keys distributed across shards for parallelism
//   - Last-write-wins: Set replaces the whole entry
//   - TTL as data: the ttl attribute is recorded, never enforced
//   - Strict delete: optional symmetric not-found on Delete
//
// Thread Safety:
//
// All operations are thread-safe through per-shard locking.
// Get uses RLock, Set and Delete use Lock.
package memory
