package stress

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/snapset/pkg/snapshot"
)

// maxSamples bounds the violation messages kept in a Report.
const maxSamples = 16

// Report summarises a run.
type Report struct {
	RunID    string        `json:"run_id" yaml:"run_id"`
	Backend  string        `json:"backend" yaml:"backend"`
	Elapsed  time.Duration `json:"elapsed" yaml:"elapsed"`
	Writers  int           `json:"writers" yaml:"writers"`
	Readers  int           `json:"readers" yaml:"readers"`
	Adds     int64         `json:"adds" yaml:"adds"`
	Removes  int64         `json:"removes" yaml:"removes"`
	ToSlice  int64         `json:"to_slice" yaml:"to_slice"`
	CopyInto int64         `json:"copy_into" yaml:"copy_into"`

	// Reused and Allocated split CopyInto calls by destination outcome.
	Reused    int64 `json:"reused" yaml:"reused"`
	Allocated int64 `json:"allocated" yaml:"allocated"`

	// Grew and Shrank count snapshots whose size differed from the hint.
	Grew   int64 `json:"grew" yaml:"grew"`
	Shrank int64 `json:"shrank" yaml:"shrank"`

	MinLen   int `json:"min_len" yaml:"min_len"`
	MaxLen   int `json:"max_len" yaml:"max_len"`
	FinalLen int `json:"final_len" yaml:"final_len"`

	Violations int64    `json:"violations" yaml:"violations"`
	Samples    []string `json:"samples,omitempty" yaml:"samples,omitempty"`
}

// OK reports whether the run saw no violations.
func (r *Report) OK() bool {
	return r.Violations == 0
}

// tally accumulates counters while a run is in progress.
type tally struct {
	adds, removes     atomic.Int64
	toSlice, copyInto atomic.Int64
	reused, allocated atomic.Int64
	grew, shrank      atomic.Int64
	violations        atomic.Int64

	mu      sync.Mutex
	samples []string
	minLen  int
	maxLen  int
	sized   bool
}

// ObserveSnapshot implements snapshot.Observer.
func (t *tally) ObserveSnapshot(e snapshot.Event) {
	switch e.Op {
	case snapshot.OpToSlice:
		t.toSlice.Add(1)
	case snapshot.OpCopyInto, snapshot.OpFill:
		t.copyInto.Add(1)
		if e.Reused {
			t.reused.Add(1)
		} else {
			t.allocated.Add(1)
		}
	}
	switch {
	case e.Grew():
		t.grew.Add(1)
	case e.Shrank():
		t.shrank.Add(1)
	}
}

func (t *tally) size(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.sized || n < t.minLen {
		t.minLen = n
	}
	if !t.sized || n > t.maxLen {
		t.maxLen = n
	}
	t.sized = true
}

// violate records problems and returns the ones kept as samples.
func (t *tally) violate(problems []string) []string {
	t.violations.Add(int64(len(problems)))
	t.mu.Lock()
	defer t.mu.Unlock()
	room := maxSamples - len(t.samples)
	if room <= 0 {
		return nil
	}
	kept := problems[:min(room, len(problems))]
	t.samples = append(t.samples, kept...)
	return kept
}

func (t *tally) report() *Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	return &Report{
		Adds:       t.adds.Load(),
		Removes:    t.removes.Load(),
		ToSlice:    t.toSlice.Load(),
		CopyInto:   t.copyInto.Load(),
		Reused:     t.reused.Load(),
		Allocated:  t.allocated.Load(),
		Grew:       t.grew.Load(),
		Shrank:     t.shrank.Load(),
		MinLen:     t.minLen,
		MaxLen:     t.maxLen,
		Violations: t.violations.Load(),
		Samples:    append([]string(nil), t.samples...),
	}
}

// observers fans one event out to several observers.
type observers []snapshot.Observer

func (o observers) ObserveSnapshot(e snapshot.Event) {
	for _, ob := range o {
		ob.ObserveSnapshot(e)
	}
}
