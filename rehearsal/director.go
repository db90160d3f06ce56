// Package rehearsal runs bubbletea models headlessly for scripted sessions.
//
// A Director starts the model in a real tea.Program with no terminal attached
// and feeds it keys, mouse drags and wheel notches. Every step is synchronous:
// it returns once the program loop has handled the input, so state can be
// inspected without polling.
//
// Basic usage:
//
//	result := rehearsal.New(t, tui.New(deck.Sample(), tui.DefaultOptions()), rehearsal.DefaultConfig()).
//		Start().
//		PressRight().
//		Drag(60, 40, 10, 4).
//		AssertViewContains("Mei-Ling Cho").
//		Stop()
//
//	assert.True(t, result.Success)
package rehearsal

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/teranos/coverflow/trip"
)

// Config configures a Director.
type Config struct {
	// Timeout bounds every synchronous step
	Timeout time.Duration
	// Width and Height are sent as the initial window size
	Width  int
	Height int
	// CaptureViews records a view snapshot after every step
	CaptureViews bool
}

// DefaultConfig returns a 100x30 session with a five second step timeout.
func DefaultConfig() Config {
	return Config{
		Timeout:      5 * time.Second,
		Width:        100,
		Height:       30,
		CaptureViews: true,
	}
}

// Action records one step of a session.
type Action struct {
	Timestamp time.Time
	Type      string // "key", "mouse", "wheel", "resize", "wait", "assertion"
	Details   string
}

// Snapshot is the view after a step.
type Snapshot struct {
	Timestamp time.Time
	Reason    string
	View      string
}

// Result summarises a finished session.
type Result struct {
	Actions    []Action
	Snapshots  []Snapshot
	Success    bool
	Duration   time.Duration
	Err        error  // last error or fall recorded, nil on success
	TripReport string // trip.Handler report when anything went wrong
}

// syncMsg is answered once every message sent before it has been handled.
type syncMsg struct {
	done chan struct{}
}

// inspectMsg runs fn on the program loop with the current model.
type inspectMsg struct {
	fn   func(tea.Model)
	done chan struct{}
}

// wrapper answers director messages and hands everything else to the model.
type wrapper struct {
	inner tea.Model
}

func (w wrapper) Init() tea.Cmd { return w.inner.Init() }

func (w wrapper) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case syncMsg:
		close(msg.done)
		return w, nil
	case inspectMsg:
		msg.fn(w.inner)
		close(msg.done)
		return w, nil
	}
	inner, cmd := w.inner.Update(msg)
	w.inner = inner
	return w, cmd
}

func (w wrapper) View() string { return w.inner.View() }

// Director drives one headless session.
type Director struct {
	t       testing.TB
	model   tea.Model
	config  Config
	program *tea.Program

	exited chan struct{}
	final  tea.Model
	runErr error

	trips     *trip.Handler
	lastTrip  *trip.Trip
	failed    bool
	actions   []Action
	snapshots []Snapshot
	start     time.Time
}

// New creates a director for model. Call Start before any step.
func New(t testing.TB, model tea.Model, config Config) *Director {
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	return &Director{
		t:      t,
		model:  model,
		config: config,
		trips:  trip.NewHandler("rehearsal", nil),
	}
}

// WithTimeout sets the step timeout. It is ignored once started.
func (d *Director) WithTimeout(timeout time.Duration) *Director {
	if d.program != nil {
		d.t.Logf("rehearsal started, ignoring WithTimeout(%v)", timeout)
		return d
	}
	d.config.Timeout = timeout
	return d
}

// WithViewCapture enables or disables a snapshot after every step. It is
// ignored once started.
func (d *Director) WithViewCapture(enabled bool) *Director {
	if d.program != nil {
		d.t.Logf("rehearsal started, ignoring WithViewCapture(%v)", enabled)
		return d
	}
	d.config.CaptureViews = enabled
	return d
}

// Start runs the program and sends the initial window size.
func (d *Director) Start() *Director {
	if d.program != nil {
		d.t.Logf("rehearsal already started")
		return d
	}
	d.start = time.Now()
	d.program = tea.NewProgram(wrapper{inner: d.model},
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)
	d.exited = make(chan struct{})

	go func() {
		defer close(d.exited)
		final, err := d.program.Run()
		if w, ok := final.(wrapper); ok {
			d.final = w.inner
		}
		d.runErr = err
	}()

	return d.Resize(d.config.Width, d.config.Height)
}

// Send delivers msg and waits until the program has handled it.
func (d *Director) Send(msg tea.Msg) *Director {
	if d.failed || d.program == nil || d.ended() {
		return d
	}
	done := make(chan struct{})
	d.await(fmt.Sprintf("%T", msg), done, msg, syncMsg{done: done})
	return d
}

// Resize sends a window size.
func (d *Director) Resize(width, height int) *Director {
	d.Send(tea.WindowSizeMsg{Width: width, Height: height})
	d.record("resize", fmt.Sprintf("%dx%d", width, height))
	return d
}

// PressKey sends a special key such as tea.KeyLeft.
func (d *Director) PressKey(k tea.KeyType) *Director {
	msg := tea.KeyMsg{Type: k}
	d.Send(msg)
	d.record("key", msg.String())
	return d
}

// PressLeft sends the left arrow.
func (d *Director) PressLeft() *Director { return d.PressKey(tea.KeyLeft) }

// PressRight sends the right arrow.
func (d *Director) PressRight() *Director { return d.PressKey(tea.KeyRight) }

// Type sends each rune of text as its own key press.
func (d *Director) Type(text string) *Director {
	for _, r := range text {
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		d.record("key", string(r))
	}
	return d
}

// Drag presses at column from, moves to column to in steps and releases.
func (d *Director) Drag(from, to, y, steps int) *Director {
	steps = max(steps, 1)
	d.mouse(from, y, tea.MouseActionPress)
	for i := 1; i <= steps; i++ {
		d.mouse(from+(to-from)*i/steps, y, tea.MouseActionMotion)
	}
	d.mouse(to, y, tea.MouseActionRelease)
	d.record("mouse", fmt.Sprintf("drag %d→%d", from, to))
	return d
}

// Click presses and releases at x, y.
func (d *Director) Click(x, y int) *Director {
	d.mouse(x, y, tea.MouseActionPress)
	d.mouse(x, y, tea.MouseActionRelease)
	d.record("mouse", fmt.Sprintf("click %d,%d", x, y))
	return d
}

func (d *Director) mouse(x, y int, action tea.MouseAction) {
	d.Send(tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft})
}

// Wheel sends horizontal wheel notches, positive to the right.
func (d *Director) Wheel(notches int) *Director {
	button := tea.MouseButtonWheelRight
	if notches < 0 {
		button, notches = tea.MouseButtonWheelLeft, -notches
	}
	msg := tea.MouseMsg{Action: tea.MouseActionPress, Button: button}
	for i := 0; i < notches; i++ {
		d.Send(msg)
	}
	d.record("wheel", fmt.Sprintf("%s x%d", msg, notches))
	return d
}

// Wait sleeps so timers in the program can fire, then syncs.
func (d *Director) Wait(duration time.Duration) *Director {
	time.Sleep(duration)
	if !d.failed && d.program != nil && !d.ended() {
		done := make(chan struct{})
		d.await("wait", done, syncMsg{done: done})
	}
	d.record("wait", duration.String())
	return d
}

// Inspect runs fn with the current model on the program loop. After the
// program has exited fn sees the final model.
func (d *Director) Inspect(fn func(tea.Model)) *Director {
	if d.program == nil {
		fn(d.model)
		return d
	}
	if d.ended() {
		if d.final != nil {
			fn(d.final)
		}
		return d
	}
	done := make(chan struct{})
	d.await("inspect", done, inspectMsg{fn: fn, done: done})
	return d
}

// View returns the current view.
func (d *Director) View() string {
	var view string
	d.Inspect(func(m tea.Model) { view = m.View() })
	return view
}

// WaitForText waits until the view contains text. Running out of time is a
// fall, since later steps would act on the wrong state.
func (d *Director) WaitForText(text string) *Director {
	if d.failed || d.program == nil {
		return d
	}

	timeout := time.NewTimer(d.config.Timeout)
	defer timeout.Stop()
	for !strings.Contains(d.View(), text) {
		if d.failed || d.ended() {
			return d
		}
		select {
		case <-timeout.C:
			d.recordTrip(trip.NewFall(trip.KindSession, "timed out waiting for "+text, trip.Context{
				"expected": text,
				"view":     d.View(),
			}))
			return d
		case <-time.After(10 * time.Millisecond):
		}
	}
	d.record("wait", "text="+text)
	return d
}

// AssertViewContains records a trip when the view lacks text.
func (d *Director) AssertViewContains(text string) *Director {
	view := d.View()
	if !strings.Contains(view, text) {
		d.recordTrip(trip.NewTrip(trip.KindSession, "view does not contain "+text, trip.Context{
			"expected": text,
			"view":     view,
		}))
		return d
	}
	d.record("assertion", "contains="+text)
	return d
}

// Stop quits the program and returns the session result.
func (d *Director) Stop() *Result {
	if d.program != nil {
		go d.program.Quit()
		select {
		case <-d.exited:
		case <-time.After(d.config.Timeout):
			d.program.Kill()
			<-d.exited
			d.recordTrip(trip.NewTrip(trip.KindSession, "program did not quit", nil))
		}
	}

	result := &Result{
		Actions:   d.actions,
		Snapshots: d.snapshots,
		Success:   !d.failed && !d.trips.HasTrips(),
		Duration:  time.Since(d.start),
	}
	if d.lastTrip != nil {
		result.Err = d.lastTrip
		result.TripReport = d.trips.DetailedReport()
	}
	return result
}

// Trips returns the handler holding the session's trips.
func (d *Director) Trips() *trip.Handler {
	return d.trips
}

// HasFailed reports whether a step fell.
func (d *Director) HasFailed() bool {
	return d.failed
}

// await sends msgs in order and waits for the program to close done. A
// program that stalls, or exits with an error, is recorded as a fall; a
// program the model quit ends the session quietly.
func (d *Director) await(step string, done chan struct{}, msgs ...tea.Msg) {
	go func() {
		for _, msg := range msgs {
			d.program.Send(msg)
		}
	}()

	timer := time.NewTimer(d.config.Timeout)
	defer timer.Stop()
	select {
	case <-done:
	case <-d.exited:
		if d.runErr != nil {
			d.recordTrip(trip.NewFall(trip.KindSession, "program exited during "+step, trip.Context{
				"error": d.runErr.Error(),
			}))
		}
	case <-timer.C:
		d.recordTrip(trip.NewFall(trip.KindSession, step+" timed out", trip.Context{
			"timeout": d.config.Timeout.String(),
		}))
	}
}

// ended reports whether the program has exited.
func (d *Director) ended() bool {
	select {
	case <-d.exited:
		return true
	default:
		return false
	}
}

func (d *Director) record(kind, details string) {
	if d.failed {
		return
	}
	d.actions = append(d.actions, Action{Timestamp: time.Now(), Type: kind, Details: details})
	if d.config.CaptureViews {
		d.snapshots = append(d.snapshots, Snapshot{Timestamp: time.Now(), Reason: kind, View: d.View()})
	}
}

func (d *Director) recordTrip(t *trip.Trip) {
	d.trips.Record(t)
	d.lastTrip = t
	if t.IsFall() {
		d.failed = true
	}

	d.t.Helper()
	if t.IsFall() {
		d.t.Error(t)
	} else {
		d.t.Log(t.DetailedString())
	}
}
