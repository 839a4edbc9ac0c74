package badgerset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/dgraph-io/badger/v3"

	"github.com/yndnr/snapset/pkg/snapshot"
)

// DefaultPrefix is the key prefix for members.
const DefaultPrefix = "m/"

// maxConflictRetries bounds retries of transactions that lost a write race.
const maxConflictRetries = 8

var (
	// ErrClosed is returned by operations on a closed set.
	ErrClosed = errors.New("badgerset: closed")
	// ErrEmptyMember is returned when adding an empty member.
	ErrEmptyMember = errors.New("badgerset: empty member")
)

// Config configures a Set.
type Config struct {
	// Dir is the Badger directory. Ignored when InMemory is set.
	Dir string `koanf:"dir" json:"dir" yaml:"dir"`
	// InMemory keeps everything in memory.
	InMemory bool `koanf:"in_memory" json:"in_memory" yaml:"in_memory"`
	// SyncWrites fsyncs every commit.
	SyncWrites bool `koanf:"sync_writes" json:"sync_writes" yaml:"sync_writes"`
	// Prefix overrides DefaultPrefix.
	Prefix string `koanf:"prefix" json:"prefix" yaml:"prefix"`
}

// Set is a persistent string set.
type Set struct {
	db     *badger.DB
	prefix []byte
	logger *slog.Logger
	snap   *snapshot.Snapshotter[string]

	count  atomic.Int64
	closed atomic.Bool
}

// Open opens (or creates) a set and counts its existing members.
func Open(cfg Config, logger *slog.Logger, opts ...snapshot.Option) (*Set, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.InMemory && cfg.Dir == "" {
		return nil, fmt.Errorf("badgerset: dir is required")
	}

	bopts := badger.DefaultOptions(cfg.Dir)
	if cfg.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.Logger = &badgerLogger{logger: logger}
	bopts.SyncWrites = cfg.SyncWrites

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("badgerset: open db: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	s := &Set{
		db:     db,
		prefix: []byte(prefix),
		logger: logger,
		snap:   snapshot.New[string](opts...),
	}

	n, err := s.scanCount()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("badgerset: count members: %w", err)
	}
	s.count.Store(n)

	logger.Info("badger set opened",
		"dir", cfg.Dir,
		"in_memory", cfg.InMemory,
		"members", n)

	return s, nil
}

func (s *Set) key(member string) []byte {
	k := make([]byte, 0, len(s.prefix)+len(member))
	k = append(k, s.prefix...)
	return append(k, member...)
}

// Add inserts member and reports whether it was absent.
func (s *Set) Add(ctx context.Context, member string) (bool, error) {
	if member == "" {
		return false, ErrEmptyMember
	}
	added := false
	err := s.update(ctx, func(txn *badger.Txn) error {
		added = false
		_, err := txn.Get(s.key(member))
		switch {
		case err == nil:
			return nil
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		added = true
		return txn.Set(s.key(member), nil)
	})
	if err != nil {
		return false, err
	}
	if added {
		s.count.Add(1)
	}
	return added, nil
}

// Remove deletes member and reports whether it was present.
func (s *Set) Remove(ctx context.Context, member string) (bool, error) {
	removed := false
	err := s.update(ctx, func(txn *badger.Txn) error {
		removed = false
		_, err := txn.Get(s.key(member))
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			return nil
		case err != nil:
			return err
		}
		removed = true
		return txn.Delete(s.key(member))
	})
	if err != nil {
		return false, err
	}
	if removed {
		s.count.Add(-1)
	}
	return removed, nil
}

// Contains reports whether member is in the set.
func (s *Set) Contains(ctx context.Context, member string) (bool, error) {
	if s.closed.Load() {
		return false, ErrClosed
	}
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(s.key(member))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		found = err == nil
		return err
	})
	return found, err
}

// update runs fn in a read-write transaction, retrying on write conflicts.
func (s *Set) update(ctx context.Context, fn func(*badger.Txn) error) error {
	for attempt := 0; ; attempt++ {
		if s.closed.Load() {
			return ErrClosed
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		err := s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) || attempt >= maxConflictRetries {
			return err
		}
		s.logger.Debug("badger set transaction conflict, retrying", "attempt", attempt+1)
	}
}

// Len returns the member count estimate.
func (s *Set) Len() int {
	return int(s.count.Load())
}

// ToSlice snapshots the members into a new slice. Storage errors are
// returned unchanged.
func (s *Set) ToSlice() ([]string, error) {
	return s.snap.ToSlice(s)
}

// CopyInto snapshots the members into dst when it is long enough. See
// snapshot.CopyInto for the destination rules.
func (s *Set) CopyInto(dst []string) ([]string, error) {
	return s.snap.CopyInto(s, dst)
}

// Close closes the underlying database.
func (s *Set) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}

func (s *Set) scanCount() (int64, error) {
	var n int64
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = s.prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...), "component", "badger")
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...), "component", "badger")
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...), "component", "badger")
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...), "component", "badger")
}
