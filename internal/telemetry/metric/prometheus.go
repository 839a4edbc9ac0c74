package metric

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yndnr/snapset/pkg/snapshot"
)

// Namespace prefixes every metric name.
const Namespace = "snapset"

// Registry holds the snapshot metrics.
type Registry struct {
	reg *prometheus.Registry

	SnapshotsTotal   *prometheus.CounterVec
	HintMissesTotal  *prometheus.CounterVec
	DestinationTotal *prometheus.CounterVec
	SnapshotSize     *prometheus.HistogramVec
	MutationsTotal   *prometheus.CounterVec
}

// NewRegistry creates the metrics on a fresh prometheus.Registry, together
// with the Go runtime and process collectors.
func NewRegistry() (*Registry, error) {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		SnapshotsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "snapshots_total",
			Help:      "Completed snapshot conversions.",
		}, []string{"op"}),
		HintMissesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "snapshot_hint_misses_total",
			Help:      "Conversions whose traversal disagreed with the size estimate.",
		}, []string{"op", "direction"}),
		DestinationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "snapshot_destination_total",
			Help:      "Caller destinations reused or replaced by a new allocation.",
		}, []string{"op", "result"}),
		SnapshotSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "snapshot_elements",
			Help:      "Elements copied per conversion.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}, []string{"op"}),
		MutationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "mutations_total",
			Help:      "Set mutations applied by workload writers.",
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{
		r.SnapshotsTotal,
		r.HintMissesTotal,
		r.DestinationTotal,
		r.SnapshotSize,
		r.MutationsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := r.reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}

	return r, nil
}

// ObserveSnapshot implements snapshot.Observer.
func (r *Registry) ObserveSnapshot(e snapshot.Event) {
	op := string(e.Op)
	r.SnapshotsTotal.WithLabelValues(op).Inc()
	r.SnapshotSize.WithLabelValues(op).Observe(float64(e.Count))

	switch {
	case e.Grew():
		r.HintMissesTotal.WithLabelValues(op, "grow").Inc()
	case e.Shrank():
		r.HintMissesTotal.WithLabelValues(op, "shrink").Inc()
	}

	if e.Op == snapshot.OpToSlice {
		return
	}
	if e.Reused {
		r.DestinationTotal.WithLabelValues(op, "reused").Inc()
	} else {
		r.DestinationTotal.WithLabelValues(op, "allocated").Inc()
	}
}

// ObserveMutation counts one set mutation of the given kind (add, remove).
func (r *Registry) ObserveMutation(kind string) {
	r.MutationsTotal.WithLabelValues(kind).Inc()
}

// Gatherer returns the underlying registry for scraping or inspection.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
