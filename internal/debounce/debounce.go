// Package debounce coalesces bursts of triggers into a single call that
// runs once the burst has been quiet for a fixed delay.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs fn once no Trigger has arrived for delay. Every Trigger
// restarts the countdown. fn runs on a timer goroutine.
type Debouncer struct {
	mu         sync.Mutex
	delay      time.Duration
	fn         func()
	timer      *time.Timer
	generation uint64
	pending    bool
	stopped    bool
}

func New(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{
		delay: delay,
		fn:    fn,
	}
}

// Trigger schedules fn, cancelling any countdown already running.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.generation++
	generation := d.generation
	d.pending = true

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(generation)
	})
}

// A timer that already fired before Stop took effect still calls fire, so
// the generation check drops it.
func (d *Debouncer) fire(generation uint64) {
	d.mu.Lock()
	if d.stopped || !d.pending || generation != d.generation {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.mu.Unlock()

	d.fn()
}

// Flush runs a pending call immediately on the caller's goroutine. It
// reports whether anything was pending.
func (d *Debouncer) Flush() bool {
	if !d.cancel() {
		return false
	}
	d.fn()
	return true
}

// Cancel drops a pending call without running it.
func (d *Debouncer) Cancel() bool {
	return d.cancel()
}

func (d *Debouncer) cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || !d.pending {
		return false
	}

	d.pending = false
	d.generation++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	return true
}

func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Stop cancels any pending call and ignores every later Trigger.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.pending = false
	d.generation++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
