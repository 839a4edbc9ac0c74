package stress

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/snapset/internal/config"
	"github.com/yndnr/snapset/internal/telemetry/logger"
	"github.com/yndnr/snapset/internal/telemetry/metric"
)

func testConfig(backend string) config.StressSection {
	cfg := config.Default().Stress
	cfg.Backend = backend
	cfg.Writers = 2
	cfg.Readers = 2
	cfg.Duration = 150 * time.Millisecond
	cfg.Rate = 20000
	cfg.Burst = 100
	cfg.InitialSize = 64
	cfg.Buffer = 96
	return cfg
}

func testLogger(t *testing.T) (logger.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := logger.New(logger.Config{Level: "info", Format: "json", Output: &buf})
	require.NoError(t, err)
	return l, &buf
}

func TestRunner_Backends(t *testing.T) {
	for _, backend := range []string{config.BackendMemory, config.BackendBadger} {
		t.Run(backend, func(t *testing.T) {
			l, _ := testLogger(t)
			rep, err := NewRunner(testConfig(backend), WithLogger(l)).Run(context.Background())
			require.NoError(t, err)

			assert.True(t, rep.OK(), "violations: %v", rep.Samples)
			assert.Equal(t, backend, rep.Backend)
			assert.NotEmpty(t, rep.RunID)
			assert.Positive(t, rep.Adds)
			assert.Positive(t, rep.ToSlice)
			assert.Positive(t, rep.CopyInto)
			assert.Equal(t, rep.CopyInto, rep.Reused+rep.Allocated)
			assert.GreaterOrEqual(t, rep.MinLen, 64)
			assert.GreaterOrEqual(t, rep.FinalLen, 64)
			assert.EqualValues(t, 64+rep.Adds-rep.Removes, rep.FinalLen)
		})
	}
}

func TestRunner_StaticSet(t *testing.T) {
	cfg := testConfig(config.BackendMemory)
	cfg.Writers = 0
	cfg.Duration = 50 * time.Millisecond

	l, _ := testLogger(t)
	rep, err := NewRunner(cfg, WithLogger(l)).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, rep.OK(), "violations: %v", rep.Samples)
	assert.Zero(t, rep.Adds)
	assert.Zero(t, rep.Grew)
	assert.Zero(t, rep.Shrank)
	assert.Equal(t, 64, rep.MinLen)
	assert.Equal(t, 64, rep.MaxLen)
	// 64 members always fit the 96-slot buffer.
	assert.Equal(t, rep.CopyInto, rep.Reused)
}

func TestRunner_SmallBufferAllocates(t *testing.T) {
	cfg := testConfig(config.BackendMemory)
	cfg.Writers = 0
	cfg.Buffer = 8
	cfg.Duration = 50 * time.Millisecond

	l, _ := testLogger(t)
	rep, err := NewRunner(cfg, WithLogger(l)).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, rep.OK(), "violations: %v", rep.Samples)
	assert.Positive(t, rep.CopyInto)
	assert.Equal(t, rep.CopyInto, rep.Allocated)
}

func TestRunner_Metrics(t *testing.T) {
	reg, err := metric.NewRegistry()
	require.NoError(t, err)

	l, _ := testLogger(t)
	rep, err := NewRunner(testConfig(config.BackendMemory), WithLogger(l), WithMetrics(reg)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, float64(rep.ToSlice), testutil.ToFloat64(reg.SnapshotsTotal.WithLabelValues("to_slice")))
	assert.Equal(t, float64(rep.CopyInto), testutil.ToFloat64(reg.SnapshotsTotal.WithLabelValues("copy_into")))
	// Initial members are loaded before the run and not counted.
	assert.Equal(t, float64(rep.Adds), testutil.ToFloat64(reg.MutationsTotal.WithLabelValues("add")))
	assert.Equal(t, float64(rep.Removes), testutil.ToFloat64(reg.MutationsTotal.WithLabelValues("remove")))
}

func TestRunner_Cancelled(t *testing.T) {
	cfg := testConfig(config.BackendMemory)
	cfg.Duration = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	l, _ := testLogger(t)
	start := time.Now()
	rep, err := NewRunner(cfg, WithLogger(l)).Run(ctx)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 10*time.Second)
	assert.True(t, rep.OK(), "violations: %v", rep.Samples)
}

func TestRunner_UnknownBackend(t *testing.T) {
	cfg := testConfig("redis")
	l, _ := testLogger(t)
	_, err := NewRunner(cfg, WithLogger(l)).Run(context.Background())
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestRunner_LogsRunID(t *testing.T) {
	cfg := testConfig(config.BackendMemory)
	cfg.Duration = 20 * time.Millisecond

	l, buf := testLogger(t)
	rep, err := NewRunner(cfg, WithLogger(l)).Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"run_id":"`+rep.RunID+`"`)
	assert.Contains(t, buf.String(), "stress run finished")
}
