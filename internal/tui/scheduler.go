package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/teranos/coverflow"
)

// timerMsg delivers an expired timer back to the program loop.
type timerMsg struct {
	timer *loopTimer
}

type loopTimer struct {
	fn   func()
	done bool
}

// Stop implements coverflow.Timer.
func (t *loopTimer) Stop() bool {
	pending := !t.done
	t.done = true
	return pending
}

func (t *loopTimer) fire() {
	if t.done {
		return
	}
	t.done = true
	t.fn()
}

// loopScheduler turns engine timers into tea.Tick commands, so callbacks run
// inside Update like any other message. It is only touched from the program
// loop.
type loopScheduler struct {
	queued []tea.Cmd
	issued []*loopTimer
}

var _ coverflow.Scheduler = (*loopScheduler)(nil)

// AfterFunc implements coverflow.Scheduler.
func (s *loopScheduler) AfterFunc(d time.Duration, f func()) coverflow.Timer {
	t := &loopTimer{fn: f}
	s.prune()
	s.issued = append(s.issued, t)
	s.queued = append(s.queued, tea.Tick(d, func(time.Time) tea.Msg {
		return timerMsg{timer: t}
	}))
	return t
}

// drain returns the ticks queued since the last call.
func (s *loopScheduler) drain() tea.Cmd {
	if len(s.queued) == 0 {
		return nil
	}
	cmds := s.queued
	s.queued = nil
	return tea.Batch(cmds...)
}

// outstanding returns the timers that have neither fired nor been stopped.
func (s *loopScheduler) outstanding() []*loopTimer {
	s.prune()
	return append([]*loopTimer(nil), s.issued...)
}

func (s *loopScheduler) prune() {
	live := s.issued[:0]
	for _, t := range s.issued {
		if !t.done {
			live = append(live, t)
		}
	}
	s.issued = live
}
