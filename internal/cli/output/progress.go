package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// ProgressBar shows elapsed time against a fixed run length.
type ProgressBar struct {
	w       io.Writer
	title   string
	total   time.Duration
	current time.Duration
	width   int
	mu      sync.Mutex
}

// NewProgressBar creates a progress bar for a run of length total.
func NewProgressBar(w io.Writer, title string, total time.Duration) *ProgressBar {
	return &ProgressBar{
		w:     w,
		title: title,
		total: total,
		width: 40,
	}
}

// Update sets the elapsed time and redraws.
func (p *ProgressBar) Update(elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = elapsed
	p.render()
}

// Track redraws every interval until done is closed, then finishes the bar.
func (p *ProgressBar) Track(done <-chan struct{}, interval time.Duration) {
	start := time.Now()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			p.Finish()
			return
		case <-ticker.C:
			p.Update(time.Since(start))
		}
	}
}

// Finish fills the bar and ends the line.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = p.total
	p.render()
	fmt.Fprintln(p.w)
}

func (p *ProgressBar) render() {
	if p.total <= 0 {
		fmt.Fprintf(p.w, "\r%s %s", p.title, p.current.Round(time.Millisecond))
		return
	}

	percent := min(float64(p.current)/float64(p.total), 1)
	filled := int(float64(p.width) * percent)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", p.width-filled)

	fmt.Fprintf(p.w, "\r%s [%s] %3.0f%% (%s/%s)",
		p.title,
		bar,
		percent*100,
		p.current.Round(time.Millisecond),
		p.total,
	)
}
