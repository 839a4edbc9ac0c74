package command

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/yndnr/snapset/internal/telemetry/logger"
	"github.com/yndnr/snapset/internal/telemetry/metric"
)

// metricsServer serves /metrics for the lifetime of a command.
type metricsServer struct {
	srv *http.Server
	ln  net.Listener
}

// startMetrics listens on addr and serves reg in the background.
func startMetrics(addr string, reg *metric.Registry, log logger.Logger) (*metricsServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen metrics %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server error", "error", err)
		}
	}()
	log.Info("metrics server listening", "addr", ln.Addr().String())

	return &metricsServer{srv: srv, ln: ln}, nil
}

// Addr returns the bound address.
func (m *metricsServer) Addr() string {
	return m.ln.Addr().String()
}

// Shutdown stops the server gracefully.
func (m *metricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
