package buildinfo

import (
	"runtime"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()
	if info.Version != Version {
		t.Errorf("Version = %q, want %q", info.Version, Version)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
	if info.Commit == "" {
		t.Error("Commit should never be empty")
	}
}

func TestInfoString(t *testing.T) {
	s := Info{Version: "v1.2.3", Commit: "abc", BuildTime: "now", GoVersion: "go1.24"}.String()
	for _, part := range []string{"v1.2.3", "abc", "now", "go1.24"} {
		if !strings.Contains(s, part) {
			t.Errorf("String() = %q, missing %q", s, part)
		}
	}
}
