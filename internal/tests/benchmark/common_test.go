package benchmark

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"testing"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/snapset/internal/storage/badgerset"
	"github.com/yndnr/snapset/pkg/cset"
	"github.com/yndnr/snapset/pkg/snapshot"
)

// SetSizes defines the set sizes for benchmarking.
var SetSizes = []int{1000, 10000, 100000}

// SmallSetSizes for the slower persistent backend.
var SmallSetSizes = []int{1000, 10000}

func members(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = ulid.Make().String()
	}
	return out
}

func newMemorySet(b *testing.B, n int, opts ...snapshot.Option) *cset.Set[string] {
	b.Helper()
	s := cset.New[string](cset.WithShardCount(32), cset.WithSnapshotOptions(opts...))
	s.AddAll(members(n)...)
	return s
}

func newBadgerSet(b *testing.B, n int, opts ...snapshot.Option) *badgerset.Set {
	b.Helper()
	s, err := badgerset.Open(badgerset.Config{InMemory: true}, nil, opts...)
	if err != nil {
		b.Fatalf("open badger set: %v", err)
	}
	b.Cleanup(func() { s.Close() })

	ctx := context.Background()
	for _, m := range members(n) {
		if _, err := s.Add(ctx, m); err != nil {
			b.Fatalf("add: %v", err)
		}
	}
	return s
}

// churn adds and removes members on a separate goroutine until stop is
// called.
func churn(s *cset.Set[string]) (stop func()) {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			m := ulid.Make().String()
			s.Add(m)
			s.Remove(m)
		}
	}()
	return func() {
		close(done)
		wg.Wait()
	}
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithSizes runs a benchmark function with various set sizes.
func runWithSizes(b *testing.B, sizes []int, benchFn func(b *testing.B, n int)) {
	for _, n := range sizes {
		b.Run(fmt.Sprintf("members_%d", n), func(b *testing.B) {
			benchFn(b, n)
		})
	}
}
