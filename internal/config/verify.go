package config

import (
	"errors"
	"fmt"

	"github.com/yndnr/snapset/internal/telemetry/logger"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Verify validates the configuration.
func Verify(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: nil config", ErrInvalid)
	}
	if err := verifyStress(&cfg.Stress); err != nil {
		return err
	}
	if err := verifyBadger(cfg); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyStress(s *StressSection) error {
	switch s.Backend {
	case BackendMemory, BackendBadger:
	default:
		return invalid("stress.backend", "must be %q or %q, got %q", BackendMemory, BackendBadger, s.Backend)
	}
	if s.Shards < 1 || s.Shards&(s.Shards-1) != 0 {
		return invalid("stress.shards", "must be a power of two, got %d", s.Shards)
	}
	if s.Writers < 0 {
		return invalid("stress.writers", "must not be negative")
	}
	if s.Readers < 1 {
		return invalid("stress.readers", "must be at least 1")
	}
	if s.Duration <= 0 {
		return invalid("stress.duration", "must be positive")
	}
	if s.Rate < 0 {
		return invalid("stress.rate", "must not be negative")
	}
	if s.Rate > 0 && s.Burst < 1 {
		return invalid("stress.burst", "must be at least 1 when rate is set")
	}
	if s.InitialSize < 0 {
		return invalid("stress.initial_size", "must not be negative")
	}
	if s.RemoveRatio < 0 || s.RemoveRatio > 1 {
		return invalid("stress.remove_ratio", "must be within [0, 1]")
	}
	if s.Buffer < 0 {
		return invalid("stress.buffer", "must not be negative")
	}
	return nil
}

func verifyBadger(cfg *Config) error {
	if cfg.Stress.Backend != BackendBadger {
		return nil
	}
	if !cfg.Badger.InMemory && cfg.Badger.Dir == "" {
		return invalid("badger.dir", "is required unless badger.in_memory is set")
	}
	return nil
}

func verifyLog(l *logger.Config) error {
	if !logger.ValidLevel(l.Level) {
		return invalid("log.level", "unknown level %q", l.Level)
	}
	switch l.Format {
	case "json", "text":
	default:
		return invalid("log.format", "must be json or text, got %q", l.Format)
	}
	return nil
}

func invalid(key, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrInvalid, key, fmt.Sprintf(format, args...))
}
