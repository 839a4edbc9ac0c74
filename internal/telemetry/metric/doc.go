// Package metric provides Prometheus metrics for snapset.
//
// Registry implements snapshot.Observer and records, per conversion form:
//
//   - snapshot counts
//   - size-hint misses (traversal grew or shrank past the Len estimate)
//   - destination reuse versus reallocation
//   - snapshot sizes
//
// Metrics are exposed at /metrics in Prometheus format when the CLI is
// started with a metrics address.
package metric
