package cset

import (
	"iter"

	"github.com/yndnr/snapset/pkg/snapshot"
)

// Iter starts a weakly consistent traversal.
func (s *Set[T]) Iter() snapshot.Iterator[T] {
	return &iterator[T]{set: s, pos: -1}
}

// iterator copies one shard at a time into buf and yields from the copy,
// so no lock is held between Next calls.
type iterator[T comparable] struct {
	set   *Set[T]
	shard int
	buf   []T
	pos   int
	cur   T
}

func (it *iterator[T]) Next() bool {
	for it.pos+1 >= len(it.buf) {
		if it.shard >= len(it.set.shards) {
			clear(it.buf)
			it.buf = it.buf[:0]
			return false
		}
		it.load(it.set.shards[it.shard])
		it.shard++
		it.pos = -1
	}
	it.pos++
	it.cur = it.buf[it.pos]
	return true
}

func (it *iterator[T]) load(sh *shard[T]) {
	clear(it.buf)
	it.buf = it.buf[:0]

	sh.mu.RLock()
	for v := range sh.items {
		it.buf = append(it.buf, v)
	}
	sh.mu.RUnlock()
}

func (it *iterator[T]) Value() T   { return it.cur }
func (it *iterator[T]) Err() error { return nil }

// All returns the members as a range-over-func sequence with the same
// guarantees as Iter.
func (s *Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		it := s.Iter()
		for it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

// Range calls fn for each member until fn returns false.
//
// Note: fn runs while the current shard's read lock is held, so it must not
// add or remove members. Use All or Iter for traversals that mutate the set.
func (s *Set[T]) Range(fn func(v T) bool) {
	for _, sh := range s.shards {
		sh.mu.RLock()
		for v := range sh.items {
			if !fn(v) {
				sh.mu.RUnlock()
				return
			}
		}
		sh.mu.RUnlock()
	}
}
