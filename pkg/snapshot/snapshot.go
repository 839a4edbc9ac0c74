package snapshot

import (
	"errors"
	"io"
	"slices"
	"sync"
)

var (
	// ErrInvalidDestination is returned when the destination handle is unusable.
	ErrInvalidDestination = errors.New("snapshot: invalid destination")
	// ErrNilCollection is returned when no collection is given.
	ErrNilCollection = errors.New("snapshot: nil collection")
)

// maxPooledCap bounds the scratch buffers kept for reuse.
const maxPooledCap = 1 << 16

// Snapshotter converts collections of T into slices.
//
// The zero value is ready to use: no observer and no scratch pool.
// A Snapshotter is safe for concurrent use.
type Snapshotter[T any] struct {
	observer Observer
	pool     *sync.Pool
}

// Option configures a Snapshotter.
type Option func(*options)

type options struct {
	observer Observer
	pool     bool
}

// WithObserver reports an Event to o after every successful conversion.
func WithObserver(o Observer) Option {
	return func(opts *options) {
		opts.observer = o
	}
}

// WithScratchPool reuses scratch buffers across CopyInto and Fill calls.
func WithScratchPool() Option {
	return func(opts *options) {
		opts.pool = true
	}
}

// New creates a Snapshotter.
func New[T any](opts ...Option) *Snapshotter[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	s := &Snapshotter[T]{observer: o.observer}
	if o.pool {
		s.pool = &sync.Pool{
			New: func() any {
				return new([]T)
			},
		}
	}
	return s
}

// ToSlice returns the elements of one traversal of c, in traversal order,
// in a new slice whose length and capacity equal the number of elements
// copied. An empty traversal yields a non-nil empty slice.
//
// Traversal errors are returned unchanged.
func (s *Snapshotter[T]) ToSlice(c Collection[T]) ([]T, error) {
	if c == nil {
		return nil, ErrNilCollection
	}

	hint := sizeHint(c)
	buf, err := collect(c, make([]T, 0, hint))
	if err != nil {
		return nil, err
	}

	out := trim(buf)
	s.observe(Event{Op: OpToSlice, Hint: hint, Count: len(out)})
	return out, nil
}

// CopyInto snapshots c into dst when dst is long enough.
//
// If len(dst) >= count the elements are written to dst[0:count], dst[count]
// is set to the zero value when len(dst) > count, and dst[:count] is
// returned. Otherwise a new slice of exactly count elements is returned and
// dst is not modified. dst is also left untouched when the traversal fails.
func (s *Snapshotter[T]) CopyInto(c Collection[T], dst []T) ([]T, error) {
	return s.copyInto(OpCopyInto, c, dst)
}

// Fill snapshots c into *dst and returns the element count.
//
// When *dst is long enough it keeps its length, holds the snapshot in its
// first count slots and the zero value at index count (if that slot exists).
// When it is too short, *dst is replaced by a new slice of exactly count
// elements and the old backing array is not modified.
func (s *Snapshotter[T]) Fill(c Collection[T], dst *[]T) (int, error) {
	if dst == nil {
		return 0, ErrInvalidDestination
	}

	out, err := s.copyInto(OpFill, c, *dst)
	if err != nil {
		return 0, err
	}
	if len(out) > len(*dst) {
		*dst = out
	}
	return len(out), nil
}

func (s *Snapshotter[T]) copyInto(op Op, c Collection[T], dst []T) ([]T, error) {
	if c == nil {
		return nil, ErrNilCollection
	}

	hint := sizeHint(c)
	scratch := s.acquire(hint)
	buf, err := collect(c, *scratch)
	if err != nil {
		s.release(scratch, (*scratch)[:cap(*scratch)])
		return nil, err
	}

	n := len(buf)
	var out []T
	reused := len(dst) >= n
	switch {
	case reused:
		copy(dst, buf)
		if len(dst) > n {
			var zero T
			dst[n] = zero
		}
		out = dst[:n]
	case s.pool == nil:
		out = trim(buf)
	default:
		out = make([]T, n)
		copy(out, buf)
	}

	s.release(scratch, buf)
	s.observe(Event{Op: op, Hint: hint, Count: n, Reused: reused})
	return out, nil
}

// acquire returns a zero-length scratch buffer with capacity for hint.
func (s *Snapshotter[T]) acquire(hint int) *[]T {
	if s.pool == nil {
		buf := make([]T, 0, hint)
		return &buf
	}

	p := s.pool.Get().(*[]T)
	if cap(*p) < hint {
		*p = make([]T, 0, hint)
	}
	*p = (*p)[:0]
	return p
}

// release clears buf and returns it to the pool.
func (s *Snapshotter[T]) release(p *[]T, buf []T) {
	if s.pool == nil {
		return
	}
	clear(buf)
	if cap(buf) > maxPooledCap {
		*p = nil
	} else {
		*p = buf[:0]
	}
	s.pool.Put(p)
}

func (s *Snapshotter[T]) observe(e Event) {
	if s.observer != nil {
		s.observer.ObserveSnapshot(e)
	}
}

// collect appends one traversal of c to buf. The capacity of buf is only a
// starting point: append grows it when the traversal outruns the hint.
func collect[T any](c Collection[T], buf []T) (out []T, err error) {
	it := c.Iter()
	if closer, ok := it.(io.Closer); ok {
		defer func() {
			if cerr := closer.Close(); cerr != nil && err == nil {
				out, err = nil, cerr
			}
		}()
	}

	for it.Next() {
		buf = append(buf, it.Value())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return buf, nil
}

// trim drops unused capacity. Large shrinks are copied so the oversized
// backing array can be collected.
func trim[T any](buf []T) []T {
	switch {
	case len(buf) == cap(buf):
		return buf
	case len(buf) < cap(buf)/2:
		out := make([]T, len(buf))
		copy(out, buf)
		return out
	default:
		return slices.Clip(buf)
	}
}

func sizeHint[T any](c Collection[T]) int {
	n := c.Len()
	if n < 0 {
		return 0
	}
	return n
}

// ToSlice snapshots c into a new slice using a zero Snapshotter.
func ToSlice[T any](c Collection[T]) ([]T, error) {
	var s Snapshotter[T]
	return s.ToSlice(c)
}

// CopyInto snapshots c into dst using a zero Snapshotter.
func CopyInto[T any](c Collection[T], dst []T) ([]T, error) {
	var s Snapshotter[T]
	return s.CopyInto(c, dst)
}

// Fill snapshots c into *dst using a zero Snapshotter.
func Fill[T any](c Collection[T], dst *[]T) (int, error) {
	var s Snapshotter[T]
	return s.Fill(c, dst)
}
