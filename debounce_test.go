package coverflow

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeTimer is a manually fired Timer
type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	pending := !t.stopped
	t.stopped = true
	return pending
}

// fakeScheduler collects timers until the test fires them
type fakeScheduler struct {
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{delay: d, fn: f}
	s.timers = append(s.timers, t)
	return t
}

// fire runs every timer that has not been stopped, as if its delay elapsed.
func (s *fakeScheduler) fire() {
	due := s.timers
	s.timers = nil
	for _, t := range due {
		if !t.stopped {
			t.stopped = true
			t.fn()
		}
	}
}

func (s *fakeScheduler) live() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

func TestDebouncer_LastTriggerWins(t *testing.T) {
	sched := &fakeScheduler{}
	calls := 0
	d := NewDebouncer(100*time.Millisecond, sched, func() { calls++ })

	d.Trigger()
	d.Trigger()
	d.Trigger()
	assert.Equal(t, 1, sched.live(), "each trigger replaces the previous timer")
	assert.True(t, d.Pending())

	sched.fire()
	assert.Equal(t, 1, calls)
	assert.False(t, d.Pending())

	sched.fire()
	assert.Equal(t, 1, calls)
}

func TestDebouncer_StaleTimerDoesNotFire(t *testing.T) {
	sched := &fakeScheduler{}
	calls := 0
	d := NewDebouncer(time.Millisecond, sched, func() { calls++ })

	d.Trigger()
	stale := sched.timers[0]
	d.Trigger()

	// a timer that already left the scheduler when Stop was called
	stale.fn()
	assert.Equal(t, 0, calls)

	sched.fire()
	assert.Equal(t, 1, calls)
}

func TestDebouncer_Stop(t *testing.T) {
	sched := &fakeScheduler{}
	calls := 0
	d := NewDebouncer(time.Millisecond, sched, func() { calls++ })

	d.Trigger()
	d.Stop()
	sched.fire()

	assert.Equal(t, 0, calls)
	assert.False(t, d.Pending())
}

func TestDebouncer_RealScheduler(t *testing.T) {
	var calls int32
	d := NewDebouncer(20*time.Millisecond, nil, func() { atomic.AddInt32(&calls, 1) })

	for i := 0; i < 5; i++ {
		d.Trigger()
		time.Sleep(2 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 },
		time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "a burst collapses into one call")
}

func TestQueueScheduler_RunDue(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewQueueScheduler(func() time.Time { return now })

	var order []string
	s.AfterFunc(10*time.Millisecond, func() { order = append(order, "late") })
	s.AfterFunc(5*time.Millisecond, func() { order = append(order, "early") })
	s.AfterFunc(5*time.Millisecond, func() { order = append(order, "early2") })

	next, ok := s.Next()
	assert.True(t, ok)
	assert.Equal(t, now.Add(5*time.Millisecond), next)

	assert.Equal(t, 0, s.RunDue())
	now = now.Add(6 * time.Millisecond)
	assert.Equal(t, 2, s.RunDue())
	assert.Equal(t, []string{"early", "early2"}, order)
	assert.Equal(t, 1, s.Len())

	now = now.Add(time.Hour)
	assert.Equal(t, 1, s.RunDue())
	assert.Equal(t, []string{"early", "early2", "late"}, order)
	_, ok = s.Next()
	assert.False(t, ok)
}

func TestQueueScheduler_StopAndFlush(t *testing.T) {
	s := NewQueueScheduler(nil)
	calls := 0

	stopped := s.AfterFunc(time.Hour, func() { calls++ })
	s.AfterFunc(time.Hour, func() { calls++ })
	assert.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())

	assert.Equal(t, 0, s.RunDue())
	assert.Equal(t, 1, s.Flush())
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, s.Flush())
}

func TestQueueScheduler_Debouncer(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewQueueScheduler(func() time.Time { return now })
	calls := 0
	d := NewDebouncer(10*time.Millisecond, s, func() { calls++ })

	d.Trigger()
	now = now.Add(8 * time.Millisecond)
	d.Trigger()
	assert.Equal(t, 1, s.Len(), "a newer trigger replaces the queued call")

	now = now.Add(8 * time.Millisecond)
	assert.Equal(t, 0, s.RunDue())
	now = now.Add(2 * time.Millisecond)
	assert.Equal(t, 1, s.RunDue())
	assert.Equal(t, 1, calls)
	assert.False(t, d.Pending())
}
