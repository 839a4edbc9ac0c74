package confloader

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Stress struct {
		Writers     int    `koanf:"writers"`
		InitialSize int    `koanf:"initial_size"`
		Backend     string `koanf:"backend"`
	} `koanf:"stress"`
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapset.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestNewLoader(t *testing.T) {
	l := NewLoader()
	if l.envPrefix != DefaultEnvPrefix {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, DefaultEnvPrefix)
	}

	l = NewLoader(WithEnvPrefix("TEST_"), WithConfigFile("/tmp/x.yaml"))
	if l.envPrefix != "TEST_" || l.FilePath() != "/tmp/x.yaml" {
		t.Errorf("options not applied: prefix=%q file=%q", l.envPrefix, l.FilePath())
	}
}

func TestLoader_Defaults(t *testing.T) {
	var cfg testConfig
	cfg.Stress.Writers = 4
	cfg.Log.Level = "info"

	if err := NewLoader(WithEnvPrefix("SNAPSET_TEST_NONE_")).Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Stress.Writers != 4 || cfg.Log.Level != "info" {
		t.Errorf("defaults overwritten: %+v", cfg)
	}
}

func TestLoader_FileEnvOverridePriority(t *testing.T) {
	path := writeFile(t, `
stress:
  writers: 2
  initial_size: 100
  backend: memory
log:
  level: warn
`)
	t.Setenv("SNAPTEST_STRESS_WRITERS", "6")
	t.Setenv("SNAPTEST_STRESS_INITIAL_SIZE", "250")

	var cfg testConfig
	l := NewLoader(
		WithEnvPrefix("SNAPTEST_"),
		WithConfigFile(path),
		WithOverrides(map[string]any{"stress.backend": "badger"}),
	)
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Stress.Writers != 6 {
		t.Errorf("writers = %d, want 6 (env beats file)", cfg.Stress.Writers)
	}
	if cfg.Stress.InitialSize != 250 {
		t.Errorf("initial_size = %d, want 250", cfg.Stress.InitialSize)
	}
	if cfg.Stress.Backend != "badger" {
		t.Errorf("backend = %q, want badger (override beats file)", cfg.Stress.Backend)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want warn", cfg.Log.Level)
	}
	if l.All()["stress.backend"] != "badger" {
		t.Errorf("All()[stress.backend] = %v", l.All()["stress.backend"])
	}
}

func TestLoader_MissingFile(t *testing.T) {
	var cfg testConfig
	err := NewLoader(WithConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))).Load(&cfg)
	if err == nil {
		t.Fatal("Load() with missing file should fail")
	}
}

func TestLoader_InvalidYAML(t *testing.T) {
	path := writeFile(t, "stress: [unclosed")
	var cfg testConfig
	if err := NewLoader(WithConfigFile(path)).Load(&cfg); err == nil {
		t.Fatal("Load() with invalid YAML should fail")
	}
}

func TestEnvKey(t *testing.T) {
	l := NewLoader()
	tests := map[string]string{
		"SNAPSET_STRESS_WRITERS":      "stress.writers",
		"SNAPSET_STRESS_INITIAL_SIZE": "stress.initial_size",
		"SNAPSET_LOG_LEVEL":           "log.level",
		"SNAPSET_DEBUG":               "debug",
	}
	for in, want := range tests {
		if got := l.envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMapProvider(t *testing.T) {
	p := mapProvider{"a.b.c": 1, "a.d": "x"}
	if _, err := p.ReadBytes(); err != ErrReadBytesNotSupported {
		t.Errorf("ReadBytes() error = %v, want ErrReadBytesNotSupported", err)
	}
	m, err := p.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	a := m["a"].(map[string]any)
	if a["d"] != "x" || a["b"].(map[string]any)["c"] != 1 {
		t.Errorf("Read() = %v", m)
	}
}
