package watcher

import (
	"sync"
	"time"
)

// pendingPath is a scheduled callback. gen changes every time the path is
// rescheduled, so a timer that fired before being replaced can tell it is
// outdated.
type pendingPath struct {
	timer *time.Timer
	gen   uint64
}

// Debouncer coalesces bursts of events per path into one callback that
// fires once the path has been quiet for the delay.
type Debouncer struct {
	delay    time.Duration
	callback func(path string)

	mu      sync.Mutex
	pending map[string]pendingPath
	nextGen uint64
}

// NewDebouncer creates a Debouncer.
func NewDebouncer(delay time.Duration, callback func(path string)) *Debouncer {
	return &Debouncer{
		delay:    delay,
		callback: callback,
		pending:  make(map[string]pendingPath),
	}
}

// Add schedules path, restarting its timer if it is already pending.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pending[path]; ok {
		p.timer.Stop()
	}

	d.nextGen++
	gen := d.nextGen
	d.pending[path] = pendingPath{
		timer: time.AfterFunc(d.delay, func() { d.fire(path, gen) }),
		gen:   gen,
	}
}

// fire runs the callback for path unless the entry was replaced or
// cancelled after its timer went off.
func (d *Debouncer) fire(path string, gen uint64) {
	d.mu.Lock()
	p, ok := d.pending[path]
	if !ok || p.gen != gen {
		d.mu.Unlock()
		return
	}
	delete(d.pending, path)
	d.mu.Unlock()

	// Called without the lock so the callback may Add again.
	if d.callback != nil {
		d.callback(path)
	}
}

// Cancel drops a pending path. Unknown paths are ignored.
func (d *Debouncer) Cancel(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pending[path]; ok {
		p.timer.Stop()
		delete(d.pending, path)
	}
}

// CancelAll drops every pending path.
func (d *Debouncer) CancelAll() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for path, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, path)
	}
}

// PendingCount returns the number of paths waiting for their timer.
func (d *Debouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
