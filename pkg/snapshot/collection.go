package snapshot

import "iter"

// Collection is the read view a snapshot is taken from.
//
// Len and Iter are independent observations. Len may be stale by the time
// the traversal runs, in either direction.
type Collection[T any] interface {
	// Len returns the current element count estimate.
	Len() int
	// Iter starts a new traversal.
	Iter() Iterator[T]
}

// Iterator yields the elements of one traversal pass.
//
// Next reports whether another element is available and advances to it.
// Value returns the current element. Err returns the first fatal error the
// traversal hit, if any; a traversal that stops because of an error must
// return false from Next.
//
// An Iterator that also implements io.Closer is closed by the snapshotter
// once the traversal ends.
type Iterator[T any] interface {
	Next() bool
	Value() T
	Err() error
}

// FromSlice returns a Collection over a fixed slice. The slice is not copied.
func FromSlice[T any](items []T) Collection[T] {
	return sliceCollection[T](items)
}

type sliceCollection[T any] []T

func (s sliceCollection[T]) Len() int { return len(s) }

func (s sliceCollection[T]) Iter() Iterator[T] {
	return &sliceIterator[T]{items: s, pos: -1}
}

type sliceIterator[T any] struct {
	items []T
	pos   int
}

func (it *sliceIterator[T]) Next() bool {
	if it.pos+1 >= len(it.items) {
		it.pos = len(it.items)
		return false
	}
	it.pos++
	return true
}

func (it *sliceIterator[T]) Value() T   { return it.items[it.pos] }
func (it *sliceIterator[T]) Err() error { return nil }

// FromSeq adapts a size function and a range-over-func sequence.
//
// Each Iter call pulls a fresh traversal from seq; the pull is stopped when
// the snapshotter closes the iterator.
func FromSeq[T any](lenFn func() int, seq iter.Seq[T]) Collection[T] {
	return &seqCollection[T]{lenFn: lenFn, seq: seq}
}

type seqCollection[T any] struct {
	lenFn func() int
	seq   iter.Seq[T]
}

func (c *seqCollection[T]) Len() int {
	if c.lenFn == nil {
		return 0
	}
	return c.lenFn()
}

func (c *seqCollection[T]) Iter() Iterator[T] {
	next, stop := iter.Pull(c.seq)
	return &pullIterator[T]{next: next, stop: stop}
}

type pullIterator[T any] struct {
	next func() (T, bool)
	stop func()
	cur  T
}

func (it *pullIterator[T]) Next() bool {
	v, ok := it.next()
	if !ok {
		return false
	}
	it.cur = v
	return true
}

func (it *pullIterator[T]) Value() T   { return it.cur }
func (it *pullIterator[T]) Err() error { return nil }

// Close stops the underlying pull iterator.
func (it *pullIterator[T]) Close() error {
	it.stop()
	return nil
}

// FromFuncs builds a Collection from plain functions.
func FromFuncs[T any](lenFn func() int, iterFn func() Iterator[T]) Collection[T] {
	return funcCollection[T]{lenFn: lenFn, iterFn: iterFn}
}

type funcCollection[T any] struct {
	lenFn  func() int
	iterFn func() Iterator[T]
}

func (c funcCollection[T]) Len() int          { return c.lenFn() }
func (c funcCollection[T]) Iter() Iterator[T] { return c.iterFn() }
