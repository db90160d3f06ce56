package coverflow

import (
	"time"

	"github.com/go-logr/logr"

	"github.com/teranos/coverflow/internal/logging"
	"github.com/teranos/coverflow/trip"
)

const (
	// DefaultRefitDelay coalesces resize bursts into one refit
	DefaultRefitDelay = 100 * time.Millisecond
	// DefaultWheelIdle ends a wheel gesture after this much wheel silence
	DefaultWheelIdle = 100 * time.Millisecond
)

// Direction is a keyboard navigation direction.
type Direction int

const (
	// Left moves to the previous card
	Left Direction = iota
	// Right moves to the next card
	Right
)

// Layout carries the presentation measurements the renderer supplies.
type Layout struct {
	// TrackWidth is the width of the card track, in gesture units
	TrackWidth float64
	// BaseOffsetPercent is the resting distance of the side cards, usually
	// picked with BaseOffsetFor
	BaseOffsetPercent float64
}

// Engine drives one carousel from normalized input.
//
// It owns a Carousel and a Tracker and pushes render descriptors into a
// Renderer: one descriptor per card on every gesture move, and a settled
// descriptor plus classification per card whenever the active card is decided.
//
// The engine is single-threaded. All methods must be called from the host's
// event loop. Timer driven work (wheel release, resize refit) goes through a
// Scheduler. By default it is queued and runs on the caller's goroutine, when
// the host calls RunTimers or before the next input is applied. Hosts with
// their own loop can pass a Scheduler that posts back onto it instead.
//
// Example usage:
//
//	engine := coverflow.NewEngine(len(cards), renderer,
//		coverflow.WithLogger(logger),
//		coverflow.WithRefit(fitQuotes))
//	defer engine.Close()
//
//	engine.GestureStart(100, coverflow.Mouse)
//	engine.GestureMove(0)
//	engine.GestureEnd() // Advance
type Engine struct {
	carousel *Carousel
	tracker  *Tracker
	renderer Renderer
	layout   Layout

	log   logr.Logger
	trips *trip.Handler
	sched Scheduler
	queue *QueueScheduler
	// timers is set while queued timers run, so inputs they issue do not
	// run the queue again
	timers bool

	refitFn    func()
	refitDelay time.Duration
	refit      *Debouncer

	wheelDelay time.Duration
	wheelIdle  *Debouncer
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log logr.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithTrips records ignored inputs into h.
func WithTrips(h *trip.Handler) Option {
	return func(e *Engine) { e.trips = h }
}

// WithScheduler sets the scheduler used for wheel release and refits. f must
// run on the goroutine that drives the engine.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.sched = s }
}

// WithTracker replaces the gesture constants.
func WithTracker(config TrackerConfig) Option {
	return func(e *Engine) { e.tracker = NewTracker(config) }
}

// WithLayout sets the initial layout.
func WithLayout(l Layout) Option {
	return func(e *Engine) { e.layout = l }
}

// WithRefit registers fn to re-fit content. It runs once on construction and
// again, debounced, after Resize.
func WithRefit(fn func()) Option {
	return func(e *Engine) { e.refitFn = fn }
}

// WithRefitDelay overrides DefaultRefitDelay.
func WithRefitDelay(d time.Duration) Option {
	return func(e *Engine) { e.refitDelay = d }
}

// WithWheelIdle overrides DefaultWheelIdle.
func WithWheelIdle(d time.Duration) Option {
	return func(e *Engine) { e.wheelDelay = d }
}

// NewEngine creates an engine for count cards and renders the initial layout.
// A nil renderer is allowed and renders nothing.
func NewEngine(count int, r Renderer, opts ...Option) *Engine {
	if r == nil {
		r = nopRenderer{}
	}
	e := &Engine{
		carousel:   NewCarousel(count),
		tracker:    NewTracker(DefaultTrackerConfig()),
		renderer:   r,
		layout:     Layout{BaseOffsetPercent: BaseOffsetFor(0, DefaultBreakpoints())},
		log:        logr.Discard(),
		refitDelay: DefaultRefitDelay,
		wheelDelay: DefaultWheelIdle,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.sched == nil {
		e.queue = NewQueueScheduler(nil)
		e.sched = e.queue
	}

	e.wheelIdle = NewDebouncer(e.wheelDelay, e.sched, e.releaseWheel)
	if e.refitFn != nil {
		e.refit = NewDebouncer(e.refitDelay, e.sched, e.Refit)
	}

	e.Settle()
	e.Refit()
	return e
}

// RunTimers runs queued wheel releases and refits that have come due and
// returns how many ran. It does nothing when a Scheduler was supplied.
func (e *Engine) RunTimers() int {
	if e.queue == nil || e.timers {
		return 0
	}
	e.timers = true
	defer func() { e.timers = false }()
	return e.queue.RunDue()
}

// NextTimer returns when the earliest queued timer is due, so a host can
// sleep until then and call RunTimers. ok is false when nothing is queued or
// a Scheduler was supplied.
func (e *Engine) NextTimer() (at time.Time, ok bool) {
	if e.queue == nil {
		return time.Time{}, false
	}
	return e.queue.Next()
}

// Count returns the number of cards.
func (e *Engine) Count() int {
	return e.carousel.Count()
}

// Current returns the active index; ok is false for an empty carousel.
func (e *Engine) Current() (int, bool) {
	return e.carousel.Current()
}

// Position classifies card against the active card.
func (e *Engine) Position(card int) Position {
	return e.carousel.RelativePosition(card)
}

// IsAtStart reports whether the first card is active.
func (e *Engine) IsAtStart() bool {
	return e.carousel.AtStart()
}

// IsAtEnd reports whether the last card is active.
func (e *Engine) IsAtEnd() bool {
	return e.carousel.AtEnd()
}

// Dragging reports whether a gesture is in progress.
func (e *Engine) Dragging() bool {
	return e.tracker.Dragging()
}

// Offset returns the raw offset of the gesture in progress.
func (e *Engine) Offset() float64 {
	return e.tracker.Offset()
}

// Layout returns the current layout.
func (e *Engine) Layout() Layout {
	return e.layout
}

// GestureStart begins a gesture at pos. A second start while dragging is
// ignored.
func (e *Engine) GestureStart(pos float64, m Modality) {
	e.RunTimers()
	if !e.tracker.Start(pos, m) {
		e.stumble(trip.KindInput, "gesture start while dragging", trip.Context{
			"modality": m.String(),
			"owner":    e.tracker.Modality().String(),
		})
		return
	}
	e.log.V(logging.Debug).Info("gesture started", "modality", m.String(), "position", pos)

	e.setTransitions(false)
	if m != Wheel {
		if pc, ok := e.renderer.(PointerCapturer); ok {
			pc.CapturePointer()
		}
	}
	e.renderFrame()
}

// GestureMove tracks the pointer at pos and re-renders every card. Ignored
// while idle.
func (e *Engine) GestureMove(pos float64) {
	e.RunTimers()
	if !e.tracker.Move(pos) {
		e.stumble(trip.KindInput, "gesture move while idle", trip.Context{"position": pos})
		return
	}
	e.renderFrame()
}

// GestureEnd resolves the gesture in progress, applies the decision and
// settles every card. Ignored while idle, in which case it returns Cancel.
func (e *Engine) GestureEnd() Decision {
	e.RunTimers()
	modality := e.tracker.Modality()
	offset := e.tracker.Offset()

	d, ok := e.tracker.End(e.carousel)
	if !ok {
		e.stumble(trip.KindInput, "gesture end while idle", nil)
		return Cancel
	}
	e.wheelIdle.Stop()

	e.setTransitions(true)
	if modality != Wheel {
		if pc, ok := e.renderer.(PointerCapturer); ok {
			pc.ReleasePointer()
		}
	}

	switch d {
	case Advance:
		e.carousel.Next()
	case Retreat:
		e.carousel.Prev()
	}
	e.log.V(logging.Debug).Info("gesture ended",
		"modality", modality.String(), "offset", offset, "decision", d.String())

	e.Settle()
	return d
}

// Wheel feeds a wheel delta. Horizontal deltas drive a wheel gesture that ends
// itself once the wheel has been quiet for the wheel idle delay.
func (e *Engine) Wheel(dx, dy float64) {
	e.RunTimers()
	starting := !e.tracker.Dragging()
	if !e.tracker.Wheel(dx, dy) {
		if e.tracker.Dragging() && e.tracker.Modality() != Wheel {
			e.stumble(trip.KindInput, "wheel during pointer gesture", trip.Context{"dx": dx})
		}
		return
	}
	if starting {
		e.log.V(logging.Debug).Info("gesture started", "modality", Wheel.String(), "position", 0)
		e.setTransitions(false)
	}
	e.renderFrame()
	e.wheelIdle.Trigger()
}

func (e *Engine) releaseWheel() {
	if e.tracker.Dragging() && e.tracker.Modality() == Wheel {
		e.GestureEnd()
	}
}

// Next activates the following card.
func (e *Engine) Next() {
	e.RunTimers()
	e.navigate("next", e.carousel.Next())
}

// Prev activates the preceding card.
func (e *Engine) Prev() {
	e.RunTimers()
	e.navigate("prev", e.carousel.Prev())
}

// GoTo activates card index. Out of range indices are ignored.
func (e *Engine) GoTo(index int) {
	e.RunTimers()
	if index == e.currentOr(-1) {
		return
	}
	changed := e.carousel.GoTo(index)
	if !changed {
		e.stumble(trip.KindNavigation, "goto out of range", trip.Context{
			"index": index,
			"count": e.carousel.Count(),
		})
		return
	}
	e.log.V(logging.Debug).Info("navigated", "op", "goto", "active", index)
	e.Settle()
}

// KeyNavigate maps arrow keys onto Prev and Next.
func (e *Engine) KeyNavigate(dir Direction) {
	switch dir {
	case Left:
		e.Prev()
	case Right:
		e.Next()
	}
}

func (e *Engine) navigate(op string, changed bool) {
	if !changed {
		e.stumble(trip.KindNavigation, op+" at boundary", trip.Context{"active": e.currentOr(-1)})
		return
	}
	e.log.V(logging.Debug).Info("navigated", "op", op, "active", e.currentOr(-1))
	e.Settle()
}

// SetCount changes the number of cards and settles.
func (e *Engine) SetCount(count int) {
	e.RunTimers()
	e.carousel.SetCount(count)
	e.Settle()
}

// SetLayout applies new measurements immediately, re-rendering the gesture in
// progress or settling.
func (e *Engine) SetLayout(l Layout) {
	e.RunTimers()
	e.layout = l
	if e.tracker.Dragging() {
		e.renderFrame()
		return
	}
	e.Settle()
}

// Resize applies new measurements and schedules a debounced refit.
func (e *Engine) Resize(l Layout) {
	e.SetLayout(l)
	if e.refit != nil {
		e.refit.Trigger()
	}
}

// Refit runs the refit function immediately.
func (e *Engine) Refit() {
	if e.refitFn == nil {
		return
	}
	e.log.V(logging.Debug).Info("refit")
	e.refitFn()
}

// Settle applies the resting descriptor and classification to every card and
// updates navigation controls.
func (e *Engine) Settle() {
	for i := 0; i < e.carousel.Count(); i++ {
		p := e.carousel.RelativePosition(i)
		e.renderer.ApplyRenderDescriptor(i, Settled(p, e.layout.BaseOffsetPercent))
		e.renderer.ApplyClassification(i, p)
	}
	if cu, ok := e.renderer.(ControlsUpdater); ok {
		cu.UpdateControls(e.currentOr(-1), e.carousel.AtStart(), e.carousel.AtEnd())
	}
}

// Close cancels pending timers and releases a held pointer capture.
func (e *Engine) Close() {
	e.wheelIdle.Stop()
	if e.refit != nil {
		e.refit.Stop()
	}
	if e.tracker.Dragging() && e.tracker.Modality() != Wheel {
		if pc, ok := e.renderer.(PointerCapturer); ok {
			pc.ReleasePointer()
		}
	}
}

func (e *Engine) renderFrame() {
	clamped := e.tracker.Clamped()
	params := ResolveParams{
		MaxDrag:           e.tracker.Config().MaxDrag,
		TrackWidth:        e.layout.TrackWidth,
		BaseOffsetPercent: e.layout.BaseOffsetPercent,
	}
	e.log.V(logging.Trace).Info("frame", "offset", e.tracker.Offset(), "clamped", clamped)
	for i := 0; i < e.carousel.Count(); i++ {
		e.renderer.ApplyRenderDescriptor(i, Resolve(e.carousel.RelativePosition(i), clamped, params))
	}
}

func (e *Engine) setTransitions(enabled bool) {
	if ts, ok := e.renderer.(TransitionSetter); ok {
		ts.SetTransitions(enabled)
	}
}

func (e *Engine) currentOr(fallback int) int {
	if i, ok := e.carousel.Current(); ok {
		return i
	}
	return fallback
}

func (e *Engine) stumble(kind, message string, context trip.Context) {
	e.log.V(logging.Trace).Info("ignored", "kind", kind, "reason", message)
	e.trips.Record(trip.NewStumble(kind, message, context))
}
