package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/snapset/internal/cli/output"
	"github.com/yndnr/snapset/internal/config"
	"github.com/yndnr/snapset/internal/infra/buildinfo"
	"github.com/yndnr/snapset/internal/infra/confloader"
	"github.com/yndnr/snapset/internal/telemetry/logger"
)

// EnvPrefix is the prefix of environment variables read as configuration.
const EnvPrefix = "SNAPSET_"

const formatterKey = "formatter"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "snapset",
		Usage:   "Race-tolerant snapshots of concurrently mutated sets",
		Version: buildinfo.Get().String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			SnapshotCommand(),
			StressCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
		Before: func(c *cli.Context) error {
			format, err := output.ParseFormat(c.String("output"))
			if err != nil {
				return err
			}
			c.App.Metadata[formatterKey] = output.NewFormatter(format)
			return nil
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML configuration file",
			EnvVars: []string{"SNAPSET_CONFIG_FILE"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: text, json",
		},
	}
}

// flagKey binds a command-line flag to a configuration key.
type flagKey struct {
	flag string
	key  string
}

var globalKeys = []flagKey{
	{"log-level", "log.level"},
	{"log-format", "log.format"},
}

// overrides collects the values of flags the user actually set.
func overrides(c *cli.Context, keys []flagKey) map[string]any {
	out := make(map[string]any)
	for _, k := range keys {
		if c.IsSet(k.flag) {
			out[k.key] = c.Value(k.flag)
		}
	}
	return out
}

// loadConfig merges defaults, the config file, SNAPSET_ environment
// variables and explicitly set flags, then validates the result.
func loadConfig(c *cli.Context, keys ...flagKey) (*config.Config, *confloader.Loader, error) {
	loader := confloader.NewLoader(
		confloader.WithConfigFile(c.String("config")),
		confloader.WithEnvPrefix(EnvPrefix),
		confloader.WithOverrides(overrides(c, append(globalKeys, keys...))),
	)

	cfg := config.Default()
	if err := loader.Load(cfg); err != nil {
		return nil, nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, nil, err
	}
	return cfg, loader, nil
}

// newLogger builds the process logger, writing to the app's error stream.
func newLogger(c *cli.Context, cfg *config.Config) (logger.Logger, error) {
	lc := cfg.Log
	lc.Output = c.App.ErrWriter
	if lc.Output == nil {
		lc.Output = os.Stderr
	}
	l, err := logger.New(lc)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(l)
	return l, nil
}

// render writes data to the app's output stream in the selected format.
func render(c *cli.Context, data any) error {
	f, ok := c.App.Metadata[formatterKey].(output.Formatter)
	if !ok {
		f = output.NewFormatter(output.FormatTable)
	}
	w := c.App.Writer
	if w == nil {
		w = os.Stdout
	}
	return f.Format(w, data)
}
