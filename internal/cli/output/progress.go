package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// ProgressBar shows how many of a known number of operations completed.
// It implements the stress Observer interface and is safe for concurrent
// use. It redraws only when the whole percentage changes.
type ProgressBar struct {
	w       io.Writer
	title   string
	total   uint64
	current uint64
	shown   int
	width   int
	mu      sync.Mutex
}

// NewProgressBar creates a progress bar for total operations.
func NewProgressBar(w io.Writer, title string, total uint64) *ProgressBar {
	return &ProgressBar{
		w:     w,
		title: title,
		total: total,
		shown: -1,
		width: 40,
	}
}

// ObserveOp counts one completed operation.
func (p *ProgressBar) ObserveOp(string, bool, time.Duration) {
	p.Increment(1)
}

// Increment adds n completed operations.
func (p *ProgressBar) Increment(n uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current += n
	if pct := p.percent(); pct != p.shown {
		p.shown = pct
		p.render()
	}
}

// Finish draws the final state and ends the line.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shown = p.percent()
	p.render()
	fmt.Fprintln(p.w)
}

func (p *ProgressBar) percent() int {
	if p.total == 0 {
		return 100
	}
	pct := int(p.current * 100 / p.total)
	if pct > 100 {
		pct = 100
	}
	return pct
}

func (p *ProgressBar) render() {
	filled := p.width * p.shown / 100
	bar := strings.Repeat("#", filled) + strings.Repeat(".", p.width-filled)
	fmt.Fprintf(p.w, "\r%s [%s] %3d%% (%d/%d)", p.title, bar, p.shown, p.current, p.total)
}
