package stress

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/yndnr/snapset/internal/config"
	"github.com/yndnr/snapset/internal/storage/badgerset"
	"github.com/yndnr/snapset/internal/telemetry/logger"
	"github.com/yndnr/snapset/internal/telemetry/metric"
	"github.com/yndnr/snapset/pkg/snapshot"
)

// ErrUnknownBackend is returned for a backend name the runner cannot open.
var ErrUnknownBackend = errors.New("stress: unknown backend")

// Runner executes stress runs.
type Runner struct {
	cfg     config.StressSection
	badger  badgerset.Config
	log     logger.Logger
	metrics *metric.Registry
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. Defaults to logger.Default().
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		r.log = l
	}
}

// WithMetrics exports snapshot and mutation counts to m.
func WithMetrics(m *metric.Registry) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithBadgerConfig sets the configuration of the badger backend.
func WithBadgerConfig(c badgerset.Config) Option {
	return func(r *Runner) {
		r.badger = c
	}
}

// NewRunner creates a runner for cfg.
func NewRunner(cfg config.StressSection, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		badger: badgerset.Config{InMemory: true},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Default()
	}
	return r
}

// Run loads the initial members, then mutates and snapshots the backend
// until cfg.Duration elapses or ctx is cancelled. Cancellation ends the run
// normally; only backend failures are returned as errors.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	runID := ulid.Make().String()
	ctx = logger.WithRunID(logger.WithLogger(ctx, r.log), runID)
	log := logger.L(ctx).With("backend", r.cfg.Backend)

	t := &tally{}
	obs := observers{t}
	if r.metrics != nil {
		obs = append(obs, r.metrics)
	}

	tgt, err := openTarget(r.cfg, r.badger, r.log, snapshot.WithObserver(obs), snapshot.WithScratchPool())
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := tgt.close(); cerr != nil {
			log.Warn("close backend", "error", cerr)
		}
	}()

	stable := make([]string, r.cfg.InitialSize)
	for i := range stable {
		stable[i] = ulid.Make().String()
		if _, err := tgt.add(ctx, stable[i]); err != nil {
			return nil, fmt.Errorf("load initial members: %w", err)
		}
	}
	chk := newChecker(stable)

	log.Info("stress run started",
		"writers", r.cfg.Writers,
		"readers", r.cfg.Readers,
		"duration", r.cfg.Duration,
		"initial_size", r.cfg.InitialSize,
		"buffer", r.cfg.Buffer,
	)

	runCtx, cancel := context.WithTimeout(ctx, r.cfg.Duration)
	defer cancel()

	start := time.Now()
	g, gctx := errgroup.WithContext(runCtx)
	for i := range r.cfg.Writers {
		g.Go(func() error {
			return r.write(gctx, tgt, t, i)
		})
	}
	for i := range r.cfg.Readers {
		g.Go(func() error {
			return r.read(gctx, tgt, chk, t, log.With("reader", i))
		})
	}
	err = g.Wait()
	elapsed := time.Since(start)

	rep := t.report()
	rep.RunID = runID
	rep.Backend = r.cfg.Backend
	rep.Elapsed = elapsed
	rep.Writers = r.cfg.Writers
	rep.Readers = r.cfg.Readers
	rep.FinalLen = tgt.size()

	if err != nil {
		log.Error("stress run failed", "error", err)
		return rep, err
	}
	log.Info("stress run finished",
		"elapsed", elapsed,
		"to_slice", rep.ToSlice,
		"copy_into", rep.CopyInto,
		"violations", rep.Violations,
	)
	return rep, nil
}

func (r *Runner) limiter() *rate.Limiter {
	if r.cfg.Rate <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(r.cfg.Rate), max(r.cfg.Burst, 1))
}

// write adds fresh members and removes ones this writer added earlier.
func (r *Runner) write(ctx context.Context, tgt target, t *tally, id int) error {
	lim := r.limiter()
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(id)))
	var owned []string

	for {
		if err := lim.Wait(ctx); err != nil {
			return nil
		}

		if len(owned) > 0 && rng.Float64() < r.cfg.RemoveRatio {
			i := rng.IntN(len(owned))
			m := owned[i]
			owned[i] = owned[len(owned)-1]
			owned = owned[:len(owned)-1]

			if _, err := tgt.remove(ctx, m); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("writer %d: remove: %w", id, err)
			}
			t.removes.Add(1)
			r.observeMutation("remove")
			continue
		}

		m := ulid.Make().String()
		if _, err := tgt.add(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("writer %d: add: %w", id, err)
		}
		owned = append(owned, m)
		t.adds.Add(1)
		r.observeMutation("add")
	}
}

func (r *Runner) observeMutation(kind string) {
	if r.metrics != nil {
		r.metrics.ObserveMutation(kind)
	}
}

// read alternates ToSlice and, when a buffer is configured, CopyInto.
func (r *Runner) read(ctx context.Context, tgt target, chk *checker, t *tally, log logger.Logger) error {
	var dst []string
	if r.cfg.Buffer > 0 {
		dst = make([]string, r.cfg.Buffer)
	}

	for n := 0; ctx.Err() == nil; n++ {
		var (
			got      []string
			problems []string
			err      error
		)
		if dst != nil && n%2 == 1 {
			for i := range dst {
				dst[i] = untouched
			}
			got, err = tgt.copyInto(dst)
			if err == nil {
				problems = chk.copy(dst, got)
			}
		} else {
			got, err = tgt.toSlice()
			if err == nil {
				problems = chk.slice(got)
			}
		}
		if err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}

		t.size(len(got))
		if len(problems) > 0 {
			for _, p := range t.violate(problems) {
				log.Warn("snapshot violation", "problem", p)
			}
		}
	}
	return nil
}
