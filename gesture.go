package coverflow

import "math"

// Modality identifies the input device that started a gesture.
type Modality int

const (
	// Mouse is a pointer press-drag-release
	Mouse Modality = iota
	// Touch is a finger swipe
	Touch
	// Wheel is a horizontal wheel or touchpad swipe
	Wheel
)

func (m Modality) String() string {
	switch m {
	case Mouse:
		return "mouse"
	case Touch:
		return "touch"
	case Wheel:
		return "wheel"
	default:
		return "unknown"
	}
}

// Decision is the outcome of a gesture, computed once when it ends.
type Decision int

const (
	// Cancel snaps every card back to its resting layout
	Cancel Decision = iota
	// Advance moves to the next item
	Advance
	// Retreat moves to the previous item
	Retreat
)

func (d Decision) String() string {
	switch d {
	case Cancel:
		return "cancel"
	case Advance:
		return "advance"
	case Retreat:
		return "retreat"
	default:
		return "unknown"
	}
}

// TrackerConfig holds the gesture constants.
//
// Thresholds are in the same units as the positions fed to the tracker and are
// chosen per modality; MaxDrag bounds the visual offset only and never
// influences the commit decision.
type TrackerConfig struct {
	MouseThreshold float64
	TouchThreshold float64
	WheelThreshold float64
	MaxDrag        float64
}

// DefaultTrackerConfig returns the stock thresholds: 80 for mouse and wheel,
// 50 for touch, and a 150 unit visual clamp.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		MouseThreshold: 80,
		TouchThreshold: 50,
		WheelThreshold: 80,
		MaxDrag:        150,
	}
}

// Threshold returns the commit threshold for m.
func (c TrackerConfig) Threshold(m Modality) float64 {
	switch m {
	case Touch:
		return c.TouchThreshold
	case Wheel:
		return c.WheelThreshold
	default:
		return c.MouseThreshold
	}
}

// Tracker turns press/move/release sequences into a drag offset and a commit
// decision.
//
// The tracker is a two state machine (idle, dragging). Every input modality
// feeds the same instance through Start, Move and End, so overlapping touch and
// pointer events for one physical gesture cannot fork the state: whichever
// press arrives first owns the gesture and the rest are ignored.
//
// Out of sequence events are not errors. Move or End while idle, and Start
// while dragging, return false and leave the tracker untouched.
type Tracker struct {
	config   TrackerConfig
	dragging bool
	modality Modality
	start    float64
	offset   float64
}

// NewTracker creates an idle tracker.
func NewTracker(config TrackerConfig) *Tracker {
	return &Tracker{config: config}
}

// Config returns the tracker constants.
func (t *Tracker) Config() TrackerConfig {
	return t.config
}

// Dragging reports whether a gesture is in progress.
func (t *Tracker) Dragging() bool {
	return t.dragging
}

// Modality returns the modality of the current gesture.
func (t *Tracker) Modality() Modality {
	return t.modality
}

// Offset returns the raw signed offset from the start position. It is zero
// while idle.
func (t *Tracker) Offset() float64 {
	return t.offset
}

// Clamped returns the offset bounded to ±MaxDrag, the value fed to layout.
func (t *Tracker) Clamped() float64 {
	return clamp(t.offset, -t.config.MaxDrag, t.config.MaxDrag)
}

// Start begins a gesture at pos.
func (t *Tracker) Start(pos float64, m Modality) bool {
	if t.dragging {
		return false
	}
	t.dragging = true
	t.modality = m
	t.start = pos
	t.offset = 0
	return true
}

// Move records the pointer at pos. The offset is recomputed from the start
// position on every call.
func (t *Tracker) Move(pos float64) bool {
	if !t.dragging {
		return false
	}
	t.offset = pos - t.start
	return true
}

// Wheel feeds a wheel delta into the tracker.
//
// Mostly vertical deltas are ignored so page scrolling keeps working. A
// horizontal delta starts a wheel gesture when idle and otherwise accumulates
// into the offset; scrolling right (positive dx) reveals the next item, like a
// leftward drag. Wheel gestures have no release event, the caller ends them.
func (t *Tracker) Wheel(dx, dy float64) bool {
	if math.Abs(dx) <= math.Abs(dy) {
		return false
	}
	if !t.dragging {
		t.Start(0, Wheel)
	} else if t.modality != Wheel {
		return false
	}
	return t.Move(t.start + t.offset - dx)
}

// End finishes the gesture and returns to idle.
//
// The raw, unclamped offset is compared against the modality threshold: past
// -threshold advances unless b is at its end, past +threshold retreats unless b
// is at its start, anything else cancels. ok is false when no gesture was in
// progress.
func (t *Tracker) End(b Bounds) (d Decision, ok bool) {
	if !t.dragging {
		return Cancel, false
	}
	threshold := t.config.Threshold(t.modality)
	switch {
	case t.offset < -threshold && !b.AtEnd():
		d = Advance
	case t.offset > threshold && !b.AtStart():
		d = Retreat
	default:
		d = Cancel
	}
	t.dragging = false
	t.start = 0
	t.offset = 0
	return d, true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
