package stress

import (
	"context"
	"fmt"

	"github.com/yndnr/snapset/internal/config"
	"github.com/yndnr/snapset/internal/storage/badgerset"
	"github.com/yndnr/snapset/internal/telemetry/logger"
	"github.com/yndnr/snapset/pkg/cset"
	"github.com/yndnr/snapset/pkg/snapshot"
)

// target is the set a run mutates and snapshots.
type target interface {
	add(ctx context.Context, member string) (bool, error)
	remove(ctx context.Context, member string) (bool, error)
	toSlice() ([]string, error)
	copyInto(dst []string) ([]string, error)
	size() int
	close() error
}

func openTarget(cfg config.StressSection, bcfg badgerset.Config, log logger.Logger, opts ...snapshot.Option) (target, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		s := cset.New[string](
			cset.WithShardCount(cfg.Shards),
			cset.WithSnapshotOptions(opts...),
		)
		return memTarget{s}, nil
	case config.BackendBadger:
		s, err := badgerset.Open(bcfg, log.Slog(), opts...)
		if err != nil {
			return nil, fmt.Errorf("open badger backend: %w", err)
		}
		return badgerTarget{s}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

type memTarget struct {
	s *cset.Set[string]
}

func (t memTarget) add(_ context.Context, m string) (bool, error)    { return t.s.Add(m), nil }
func (t memTarget) remove(_ context.Context, m string) (bool, error) { return t.s.Remove(m), nil }
func (t memTarget) toSlice() ([]string, error)                       { return t.s.ToSlice(), nil }
func (t memTarget) copyInto(dst []string) ([]string, error)          { return t.s.CopyInto(dst), nil }
func (t memTarget) size() int                                        { return t.s.Len() }
func (t memTarget) close() error                                     { return nil }

type badgerTarget struct {
	s *badgerset.Set
}

func (t badgerTarget) add(ctx context.Context, m string) (bool, error)    { return t.s.Add(ctx, m) }
func (t badgerTarget) remove(ctx context.Context, m string) (bool, error) { return t.s.Remove(ctx, m) }
func (t badgerTarget) toSlice() ([]string, error)                         { return t.s.ToSlice() }
func (t badgerTarget) copyInto(dst []string) ([]string, error)            { return t.s.CopyInto(dst) }
func (t badgerTarget) size() int                                          { return t.s.Len() }
func (t badgerTarget) close() error                                       { return t.s.Close() }
