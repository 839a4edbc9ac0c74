// Package cset provides a sharded concurrent set.
//
// Members are spread over a power-of-two number of shards, each guarded by
// its own RWMutex:
//
//   - Sharding: configurable shard count for parallelism
//   - Fine-grained Locking: per-shard RWMutex for minimal contention
//   - Weakly Consistent Traversal: shard-by-shard, no global lock
//   - Slice Snapshots: ToSlice and CopyInto via package snapshot
//
// Usage:
//
//	s := cset.New[string](cset.WithShardCount(32))
//	s.Add("a")
//	members := s.ToSlice()
//
// Traversal Contract:
//
// Iter visits shards in order and copies a shard's members under its read
// lock when it reaches that shard. A member present for the whole traversal
// is yielded exactly once. A member added or removed while the traversal
// runs may or may not be yielded. No member is yielded twice. Len sums the
// shard sizes one shard at a time and is only an estimate under concurrent
// writes.
package cset
