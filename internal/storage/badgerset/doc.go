// Package badgerset provides a persistent string set on Badger v3.
//
// Members are stored as keys under a fixed prefix with empty values.
//
// Traversal Contract:
//
// Iter opens one read-only transaction and walks the prefix with a key-only
// iterator. Badger transactions are MVCC views, so a traversal sees exactly
// the members committed before it began; writes committed afterwards are
// invisible to it. Len is an in-process counter updated after each commit
// and can disagree with a concurrently started traversal in either
// direction.
package badgerset
