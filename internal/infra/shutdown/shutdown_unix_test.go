//go:build unix

package shutdown

import (
	"context"
	"syscall"
	"testing"
	"time"
)

func TestHandler_NotifyContext(t *testing.T) {
	h := NewHandler(time.Second)
	ctx, cancel := h.NotifyContext(context.Background())
	defer cancel()

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Skipf("cannot signal self: %v", err)
	}

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context not cancelled by SIGTERM")
	}
}
