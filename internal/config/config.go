// Package config defines the snapset configuration structure.
package config

import (
	"time"

	"github.com/yndnr/snapset/internal/storage/badgerset"
	"github.com/yndnr/snapset/internal/telemetry/logger"
)

// Config is the root configuration for snapset.
type Config struct {
	Stress  StressSection    `koanf:"stress" json:"stress" yaml:"stress"`
	Badger  badgerset.Config `koanf:"badger" json:"badger" yaml:"badger"`
	Metrics MetricsSection   `koanf:"metrics" json:"metrics" yaml:"metrics"`
	Log     logger.Config    `koanf:"log" json:"log" yaml:"log"`
}

// Backend names the collection a stress run mutates and snapshots.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// StressSection configures the mutate-while-snapshot workload.
type StressSection struct {
	// Backend is either "memory" (sharded in-process set) or "badger".
	Backend string `koanf:"backend" json:"backend" yaml:"backend"`

	// Shards is the shard count of the memory backend.
	Shards int `koanf:"shards" json:"shards" yaml:"shards"`

	// Writers and Readers are the number of mutating and snapshotting goroutines.
	Writers int `koanf:"writers" json:"writers" yaml:"writers"`
	Readers int `koanf:"readers" json:"readers" yaml:"readers"`

	// Duration bounds the run.
	Duration time.Duration `koanf:"duration" json:"duration" yaml:"duration"`

	// Rate is the mutation rate per writer in operations per second.
	// Zero means unthrottled.
	Rate  float64 `koanf:"rate" json:"rate" yaml:"rate"`
	Burst int     `koanf:"burst" json:"burst" yaml:"burst"`

	// InitialSize members are loaded before the run and never removed.
	InitialSize int `koanf:"initial_size" json:"initial_size" yaml:"initial_size"`

	// RemoveRatio is the fraction of writer operations that remove a member.
	RemoveRatio float64 `koanf:"remove_ratio" json:"remove_ratio" yaml:"remove_ratio"`

	// Buffer is the length of the destination readers pass to CopyInto.
	// Zero disables the CopyInto path.
	Buffer int `koanf:"buffer" json:"buffer" yaml:"buffer"`
}

// MetricsSection configures the Prometheus endpoint.
type MetricsSection struct {
	// Addr is the listen address for /metrics. Empty disables it.
	Addr string `koanf:"addr" json:"addr" yaml:"addr"`
}
