package config

import (
	"os"
	"time"

	"github.com/yndnr/snapset/internal/storage/badgerset"
	"github.com/yndnr/snapset/internal/telemetry/logger"
)

// Default configuration values.
const (
	DefaultBackend     = BackendMemory
	DefaultShards      = 32
	DefaultWriters     = 4
	DefaultReaders     = 2
	DefaultDuration    = 5 * time.Second
	DefaultRate        = 2000
	DefaultBurst       = 64
	DefaultInitialSize = 1024
	DefaultRemoveRatio = 0.4
	DefaultBuffer      = 2048

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Stress: StressSection{
			Backend:     DefaultBackend,
			Shards:      DefaultShards,
			Writers:     DefaultWriters,
			Readers:     DefaultReaders,
			Duration:    DefaultDuration,
			Rate:        DefaultRate,
			Burst:       DefaultBurst,
			InitialSize: DefaultInitialSize,
			RemoveRatio: DefaultRemoveRatio,
			Buffer:      DefaultBuffer,
		},
		Badger: badgerset.Config{
			InMemory: true,
			Prefix:   badgerset.DefaultPrefix,
		},
		Log: logger.Config{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
			Output: os.Stderr,
		},
	}
}
