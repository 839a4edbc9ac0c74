package cset

import (
	"hash/maphash"
	"math/rand/v2"
	"sync"

	"github.com/spaolacci/murmur3"

	"github.com/yndnr/snapset/pkg/snapshot"
)

// DefaultShardCount is the default number of shards.
const DefaultShardCount = 16

// Set is a concurrent-safe sharded set.
type Set[T comparable] struct {
	shards    []*shard[T]
	shardMask uint64
	seed      maphash.Seed
	strSeed   uint32
	snap      *snapshot.Snapshotter[T]
}

type shard[T comparable] struct {
	mu    sync.RWMutex
	items map[T]struct{}
}

// Option configures a Set.
type Option func(*config)

type config struct {
	shardCount int
	snapOpts   []snapshot.Option
}

// WithShardCount sets the number of shards. It must be a power of two;
// other values fall back to DefaultShardCount.
func WithShardCount(n int) Option {
	return func(c *config) {
		c.shardCount = n
	}
}

// WithSnapshotOptions configures the snapshotter used by ToSlice and CopyInto.
func WithSnapshotOptions(opts ...snapshot.Option) Option {
	return func(c *config) {
		c.snapOpts = append(c.snapOpts, opts...)
	}
}

// New creates an empty set.
func New[T comparable](opts ...Option) *Set[T] {
	cfg := config{shardCount: DefaultShardCount}
	for _, opt := range opts {
		opt(&cfg)
	}

	shardCount := cfg.shardCount
	if shardCount <= 0 || shardCount&(shardCount-1) != 0 {
		shardCount = DefaultShardCount
	}

	s := &Set[T]{
		shards:    make([]*shard[T], shardCount),
		shardMask: uint64(shardCount - 1),
		seed:      maphash.MakeSeed(),
		strSeed:   rand.Uint32(),
		snap:      snapshot.New[T](cfg.snapOpts...),
	}
	for i := range s.shards {
		s.shards[i] = &shard[T]{items: make(map[T]struct{})}
	}
	return s
}

// NewWithShards creates an empty set with the given shard count.
func NewWithShards[T comparable](shardCount int) *Set[T] {
	return New[T](WithShardCount(shardCount))
}

// getShard picks the shard for v. Strings go through murmur3, everything
// else through maphash.
func (s *Set[T]) getShard(v T) *shard[T] {
	var h uint64
	switch k := any(v).(type) {
	case string:
		h = murmur3.Sum64WithSeed([]byte(k), s.strSeed)
	default:
		h = maphash.Comparable(s.seed, v)
	}
	return s.shards[h&s.shardMask]
}

// Add inserts v and reports whether it was absent.
func (s *Set[T]) Add(v T) bool {
	sh := s.getShard(v)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, ok := sh.items[v]; ok {
		return false
	}
	sh.items[v] = struct{}{}
	return true
}

// AddAll inserts every value and returns how many were new.
func (s *Set[T]) AddAll(values ...T) int {
	added := 0
	for _, v := range values {
		if s.Add(v) {
			added++
		}
	}
	return added
}

// Remove deletes v and reports whether it was present.
func (s *Set[T]) Remove(v T) bool {
	sh := s.getShard(v)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, ok := sh.items[v]; !ok {
		return false
	}
	delete(sh.items, v)
	return true
}

// Contains reports whether v is a member.
func (s *Set[T]) Contains(v T) bool {
	sh := s.getShard(v)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	_, ok := sh.items[v]
	return ok
}

// Len returns the number of members.
func (s *Set[T]) Len() int {
	count := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		count += len(sh.items)
		sh.mu.RUnlock()
	}
	return count
}

// Clear removes all members.
func (s *Set[T]) Clear() {
	for _, sh := range s.shards {
		sh.mu.Lock()
		sh.items = make(map[T]struct{})
		sh.mu.Unlock()
	}
}

// ToSlice returns a snapshot of the members in a new slice.
func (s *Set[T]) ToSlice() []T {
	// In-memory traversal never fails.
	out, _ := s.snap.ToSlice(s)
	return out
}

// CopyInto snapshots the members into dst when it is long enough. See
// snapshot.CopyInto for the destination rules.
func (s *Set[T]) CopyInto(dst []T) []T {
	out, _ := s.snap.CopyInto(s, dst)
	return out
}

// ShardCount returns the number of shards.
func (s *Set[T]) ShardCount() int {
	return len(s.shards)
}

// ShardStats holds the member count of one shard.
type ShardStats struct {
	Index int `json:"index"`
	Count int `json:"count"`
}

// Stats returns the member count of every shard.
func (s *Set[T]) Stats() []ShardStats {
	stats := make([]ShardStats, len(s.shards))
	for i, sh := range s.shards {
		sh.mu.RLock()
		stats[i] = ShardStats{Index: i, Count: len(sh.items)}
		sh.mu.RUnlock()
	}
	return stats
}
