package coverflow

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending scheduled call.
type Timer interface {
	// Stop prevents the call from running. It reports whether it was still pending.
	Stop() bool
}

// Scheduler runs f once after d.
//
// Hosts with their own event loop should post f back onto that loop rather than
// running it on the timer goroutine, so the engine is only ever touched from one
// goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules with time.AfterFunc. f runs on its own goroutine.
type RealScheduler struct{}

// AfterFunc implements Scheduler.
func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// QueueScheduler holds callbacks until the host runs them with RunDue or
// Flush, so they execute on the host's goroutine. It is the engine's default.
type QueueScheduler struct {
	mu      sync.Mutex
	now     func() time.Time
	seq     uint64
	pending []*queuedTimer
}

type queuedTimer struct {
	s   *QueueScheduler
	due time.Time
	seq uint64
	fn  func()
}

// NewQueueScheduler creates an empty queue reading the clock from now, or
// time.Now when now is nil.
func NewQueueScheduler(now func() time.Time) *QueueScheduler {
	if now == nil {
		now = time.Now
	}
	return &QueueScheduler{now: now}
}

// AfterFunc implements Scheduler. f runs during the first RunDue at least d
// from now, or during Flush.
func (s *QueueScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &queuedTimer{s: s, due: s.now().Add(d), seq: s.seq, fn: f}
	s.pending = append(s.pending, t)
	return t
}

func (t *queuedTimer) Stop() bool {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.pending {
		if p == t {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Next returns the earliest pending deadline.
func (s *QueueScheduler) Next() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return time.Time{}, false
	}
	next := s.pending[0].due
	for _, t := range s.pending[1:] {
		if t.due.Before(next) {
			next = t.due
		}
	}
	return next, true
}

// Len returns the number of pending callbacks.
func (s *QueueScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// RunDue runs every callback whose deadline has passed, earliest first, and
// returns how many ran. Callbacks scheduled while running wait for the next
// call.
func (s *QueueScheduler) RunDue() int {
	return s.run(false)
}

// Flush runs every pending callback regardless of its deadline.
func (s *QueueScheduler) Flush() int {
	return s.run(true)
}

func (s *QueueScheduler) run(all bool) int {
	s.mu.Lock()
	now := s.now()
	var due, keep []*queuedTimer
	for _, t := range s.pending {
		if all || !t.due.After(now) {
			due = append(due, t)
		} else {
			keep = append(keep, t)
		}
	}
	s.pending = keep
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].seq < due[j].seq
		}
		return due[i].due.Before(due[j].due)
	})
	for _, t := range due {
		t.fn()
	}
	return len(due)
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(d time.Duration, f func()) Timer

// AfterFunc implements Scheduler.
func (fn SchedulerFunc) AfterFunc(d time.Duration, f func()) Timer {
	return fn(d, f)
}

// Debouncer coalesces bursts of triggers into one call of fn.
//
// Each Trigger restarts the delay, so fn runs once, delay after the last
// trigger of a burst. A Debouncer is safe for concurrent use.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	sched   Scheduler
	fn      func()
	pending Timer
	gen     uint64
}

// NewDebouncer creates a debouncer calling fn through sched. A nil sched uses
// RealScheduler.
func NewDebouncer(delay time.Duration, sched Scheduler, fn func()) *Debouncer {
	if sched == nil {
		sched = RealScheduler{}
	}
	return &Debouncer{delay: delay, sched: sched, fn: fn}
}

// Trigger (re)starts the delay.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = d.sched.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// a timer that lost the race with Stop or a newer Trigger must not fire
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.pending = nil
		d.mu.Unlock()
		d.fn()
	})
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop cancels any scheduled call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}
