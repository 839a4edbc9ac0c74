// Package benchmark provides performance benchmarks for snapset.
//
// Run benchmarks with:
//
//	go test -bench=. -benchmem ./internal/tests/benchmark/...
//
// Run one backend at a longer bench time:
//
//	go test -bench=BenchmarkBadger -benchmem -benchtime=10s ./internal/tests/benchmark/...
//
// Compare results:
//
//	benchstat old.txt new.txt
package benchmark
