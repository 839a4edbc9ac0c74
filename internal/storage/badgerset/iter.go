package badgerset

import (
	"github.com/dgraph-io/badger/v3"

	"github.com/yndnr/snapset/pkg/snapshot"
)

// Iter starts a traversal over one read transaction. The snapshotter closes
// it; direct callers must call Close on the returned iterator if it
// implements io.Closer.
func (s *Set) Iter() snapshot.Iterator[string] {
	if s.closed.Load() {
		return &errIterator{err: ErrClosed}
	}

	txn := s.db.NewTransaction(false)
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = s.prefix
	it := txn.NewIterator(opts)
	it.Rewind()

	return &iterator{txn: txn, it: it, prefixLen: len(s.prefix)}
}

type iterator struct {
	txn       *badger.Txn
	it        *badger.Iterator
	prefixLen int
	started   bool
	closed    bool
	cur       string
}

func (i *iterator) Next() bool {
	if i.closed {
		return false
	}
	if i.started {
		i.it.Next()
	}
	i.started = true
	if !i.it.Valid() {
		return false
	}
	// string() copies; the key buffer is reused by Badger.
	i.cur = string(i.it.Item().Key()[i.prefixLen:])
	return true
}

func (i *iterator) Value() string { return i.cur }
func (i *iterator) Err() error    { return nil }

// Close releases the iterator and discards the read transaction.
func (i *iterator) Close() error {
	if i.closed {
		return nil
	}
	i.closed = true
	i.it.Close()
	i.txn.Discard()
	return nil
}

type errIterator struct {
	err error
}

func (e *errIterator) Next() bool    { return false }
func (e *errIterator) Value() string { return "" }
func (e *errIterator) Err() error    { return e.err }
