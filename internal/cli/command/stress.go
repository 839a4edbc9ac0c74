package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/snapset/internal/cli/output"
	"github.com/yndnr/snapset/internal/config"
	"github.com/yndnr/snapset/internal/infra/confloader"
	"github.com/yndnr/snapset/internal/infra/shutdown"
	"github.com/yndnr/snapset/internal/stress"
	"github.com/yndnr/snapset/internal/telemetry/logger"
	"github.com/yndnr/snapset/internal/telemetry/metric"
)

// ErrViolations is returned when a stress run observed invalid snapshots.
var ErrViolations = errors.New("snapshot violations detected")

const shutdownTimeout = 10 * time.Second

var stressKeys = []flagKey{
	{"backend", "stress.backend"},
	{"shards", "stress.shards"},
	{"writers", "stress.writers"},
	{"readers", "stress.readers"},
	{"duration", "stress.duration"},
	{"rate", "stress.rate"},
	{"initial-size", "stress.initial_size"},
	{"buffer", "stress.buffer"},
	{"metrics-addr", "metrics.addr"},
	{"badger-dir", "badger.dir"},
}

// StressCommand returns the stress command.
func StressCommand() *cli.Command {
	return &cli.Command{
		Name:  "stress",
		Usage: "Mutate a set while snapshotting it and check every snapshot",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "backend", Usage: "Set backend: memory, badger"},
			&cli.IntFlag{Name: "shards", Usage: "Shard count of the memory backend"},
			&cli.IntFlag{Name: "writers", Usage: "Number of mutating goroutines"},
			&cli.IntFlag{Name: "readers", Usage: "Number of snapshotting goroutines"},
			&cli.DurationFlag{Name: "duration", Aliases: []string{"d"}, Usage: "Run length"},
			&cli.Float64Flag{Name: "rate", Usage: "Mutations per second per writer, 0 for unthrottled"},
			&cli.IntFlag{Name: "initial-size", Usage: "Members loaded before the run"},
			&cli.IntFlag{Name: "buffer", Usage: "CopyInto destination length, 0 disables CopyInto"},
			&cli.StringFlag{Name: "metrics-addr", Usage: "Serve Prometheus metrics on `ADDR` during the run"},
			&cli.StringFlag{Name: "badger-dir", Usage: "Store the badger backend on disk in `DIR`"},
			&cli.BoolFlag{Name: "progress", Usage: "Show a progress bar on stderr"},
		},
		Action: stressAction,
	}
}

func stressAction(c *cli.Context) error {
	cfg, loader, err := loadConfig(c, stressKeys...)
	if err != nil {
		return err
	}
	if c.IsSet("badger-dir") {
		cfg.Badger.InMemory = false
	}
	log, err := newLogger(c, cfg)
	if err != nil {
		return err
	}

	handler := shutdown.NewHandler(shutdownTimeout)
	ctx, stop := handler.NotifyContext(c.Context)
	defer stop()

	opts := []stress.Option{
		stress.WithLogger(log),
		stress.WithBadgerConfig(cfg.Badger),
	}

	if cfg.Metrics.Addr != "" {
		reg, err := metric.NewRegistry()
		if err != nil {
			return fmt.Errorf("init metrics: %w", err)
		}
		ms, err := startMetrics(cfg.Metrics.Addr, reg, log)
		if err != nil {
			return err
		}
		handler.OnShutdown("metrics", ms.Shutdown)
		opts = append(opts, stress.WithMetrics(reg))
	}

	if path := loader.FilePath(); path != "" {
		w, err := confloader.NewWatcher(path, confloader.WithWatcherLogger(log))
		if err != nil {
			log.Warn("config watcher unavailable", "error", err)
		} else {
			w.OnChange(func(string) { reloadLogLevel(loader, log) })
			w.StartAsync()
			handler.OnShutdown("config-watcher", func(context.Context) error {
				return w.Stop()
			})
		}
	}

	var finished chan struct{}
	done := make(chan struct{})
	if c.Bool("progress") {
		finished = make(chan struct{})
		bar := output.NewProgressBar(c.App.ErrWriter, "stress", cfg.Stress.Duration)
		go func() {
			defer close(finished)
			bar.Track(done, 200*time.Millisecond)
		}()
	}

	rep, runErr := stress.NewRunner(cfg.Stress, opts...).Run(ctx)

	close(done)
	if finished != nil {
		<-finished
	}
	if err := handler.Shutdown(); err != nil {
		log.Warn("shutdown", "error", err)
	}

	if runErr != nil {
		return fmt.Errorf("stress run: %w", runErr)
	}
	if err := render(c, rep); err != nil {
		return err
	}
	if !rep.OK() {
		return fmt.Errorf("%w: %d", ErrViolations, rep.Violations)
	}
	return nil
}

// reloadLogLevel re-reads the configuration and applies its log level.
// Other settings only take effect on the next run.
func reloadLogLevel(loader *confloader.Loader, log logger.Logger) {
	cfg := config.Default()
	if err := loader.Load(cfg); err != nil {
		log.Warn("config reload failed", "error", err)
		return
	}
	if !logger.ValidLevel(cfg.Log.Level) {
		log.Warn("config reload ignored invalid log level", "level", cfg.Log.Level)
		return
	}
	if prev := logger.GetLevel(); prev != cfg.Log.Level {
		logger.SetLevel(cfg.Log.Level)
		log.Info("log level changed", "from", prev, "to", cfg.Log.Level)
	}
}
