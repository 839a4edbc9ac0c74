package output

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestProgressBar_Update(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, "stress", 4*time.Second)

	bar.Update(time.Second)

	out := buf.String()
	if !strings.HasPrefix(out, "\rstress [") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, " 25%") {
		t.Errorf("output missing percentage: %q", out)
	}
	if !strings.Contains(out, "(1s/4s)") {
		t.Errorf("output missing times: %q", out)
	}
	if got := strings.Count(out, "█"); got != 10 {
		t.Errorf("filled cells = %d, want 10", got)
	}
}

func TestProgressBar_ClampsOverrun(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, "stress", time.Second)

	bar.Update(3 * time.Second)
	if !strings.Contains(buf.String(), "100%") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestProgressBar_NoTotal(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, "stress", 0)

	bar.Update(1500 * time.Millisecond)
	if buf.String() != "\rstress 1.5s" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestProgressBar_Track(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, "stress", time.Second)

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		bar.Track(done, 5*time.Millisecond)
		close(finished)
	}()

	time.Sleep(30 * time.Millisecond)
	close(done)

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Track did not return after done was closed")
	}
	if !strings.HasSuffix(buf.String(), "100% (1s/1s)\n") {
		t.Errorf("output does not end finished: %q", buf.String())
	}
}
