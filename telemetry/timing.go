package telemetry

import (
	"io"
	"sync"
	"time"

	"github.com/robinvdvleuten/ledger/output"
)

// TimingCollector builds a tree of timed spans. It is safe for concurrent use,
// which the web server relies on when it reloads while serving requests.
type TimingCollector struct {
	mu    sync.Mutex
	roots []*span
	open  []*span // spans started via Start that have not ended, innermost last
	now   func() time.Time
}

type span struct {
	name     string
	start    time.Time
	end      time.Time
	children []*span
}

func (s *span) duration() time.Duration {
	if s.end.IsZero() {
		return 0
	}
	return s.end.Sub(s.start)
}

// NewTimingCollector creates an empty collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{now: time.Now}
}

// Start begins a span under the innermost open span, or as a new root.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := &span{name: name, start: c.now()}
	if n := len(c.open); n > 0 {
		parent := c.open[n-1]
		parent.children = append(parent.children, s)
	} else {
		c.roots = append(c.roots, s)
	}
	c.open = append(c.open, s)

	return &timingTimer{collector: c, span: s, tracked: true}
}

// Report writes one tree per root span.
func (c *TimingCollector) Report(w io.Writer, styles *output.Styles) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, root := range c.roots {
		writeTree(w, root, styles)
	}
}

type timingTimer struct {
	collector *TimingCollector
	span      *span
	tracked   bool // started via Start and present on the open stack
}

func (t *timingTimer) End() {
	c := t.collector
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.span.end.IsZero() {
		t.span.end = c.now()
	}
	if !t.tracked {
		return
	}

	for i := len(c.open) - 1; i >= 0; i-- {
		if c.open[i] == t.span {
			c.open = append(c.open[:i], c.open[i+1:]...)
			break
		}
	}
	t.tracked = false
}

func (t *timingTimer) Child(name string) Timer {
	c := t.collector
	c.mu.Lock()
	defer c.mu.Unlock()

	s := &span{name: name, start: c.now()}
	t.span.children = append(t.span.children, s)

	return &timingTimer{collector: c, span: s}
}
