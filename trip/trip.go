// Package trip records the inputs a carousel ignored and the failures its hosts
// shrugged off.
//
// The engine itself never fails: a stray move after a release, a prev at the
// first card or a dot pointing at a card that no longer exists are all defined
// as no-ops. They are still worth knowing about when a host misbehaves, so the
// engine can report each one as a Stumble. Host side failures such as a frame
// that could not be written are recorded as Error or Fall trips.
//
// Example usage:
//
//	trips := trip.NewHandler("carousel", trip.DefaultPolicy())
//	engine := coverflow.NewEngine(5, renderer, coverflow.WithTrips(trips))
//	...
//	fmt.Println(trips.Summary())
package trip

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Kinds of trips recorded by this module.
const (
	// KindInput is a gesture event that arrived out of sequence
	KindInput = "input"
	// KindNavigation is a navigation request past a boundary or to a stale index
	KindNavigation = "navigation"
	// KindCapture is a frame that could not be rendered or written
	KindCapture = "capture"
	// KindSession is a scripted session step that timed out or failed a check
	KindSession = "session"
)

// Trip is one recorded incident with its context.
type Trip struct {
	Kind      string    // Incident category, one of the Kind constants
	Message   string    // Human-readable description
	Context   Context   // Additional debugging information
	Timestamp time.Time // When it happened
	Severity  Severity  // How serious it is
}

// Context holds structured details about a trip.
type Context map[string]interface{}

// Severity indicates how a trip should be handled.
type Severity int

const (
	// Stumble is harmless and was absorbed as a no-op.
	// Examples: move while idle, next at the last card
	Stumble Severity = iota

	// Error is a failure the host recovered from.
	// Examples: one frame could not be written
	Error

	// Fall is a failure after which the host should stop.
	// Examples: the output directory cannot be created
	Fall
)

func (s Severity) String() string {
	switch s {
	case Stumble:
		return "stumble"
	case Error:
		return "error"
	case Fall:
		return "fall"
	default:
		return "unknown"
	}
}

// NewTrip creates a trip with Error severity.
func NewTrip(kind, message string, context Context) *Trip {
	return &Trip{
		Kind:      kind,
		Message:   message,
		Context:   context,
		Timestamp: time.Now(),
		Severity:  Error,
	}
}

// NewStumble creates a trip with Stumble severity.
func NewStumble(kind, message string, context Context) *Trip {
	t := NewTrip(kind, message, context)
	t.Severity = Stumble
	return t
}

// NewFall creates a trip with Fall severity.
func NewFall(kind, message string, context Context) *Trip {
	t := NewTrip(kind, message, context)
	t.Severity = Fall
	return t
}

// Error implements the error interface.
func (t *Trip) Error() string {
	return fmt.Sprintf("[%s:%s] %s", t.Kind, t.Severity, t.Message)
}

// IsFall reports whether the host should stop.
func (t *Trip) IsFall() bool {
	return t.Severity == Fall
}

// DetailedString returns the trip with its timestamp and sorted context.
func (t *Trip) DetailedString() string {
	var details strings.Builder

	details.WriteString(t.Error())
	details.WriteString(fmt.Sprintf("\n  Time: %s", t.Timestamp.Format("15:04:05.000")))

	if len(t.Context) > 0 {
		keys := make([]string, 0, len(t.Context))
		for k := range t.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		details.WriteString("\n  Context:")
		for _, k := range keys {
			details.WriteString(fmt.Sprintf("\n    %s: %v", k, t.Context[k]))
		}
	}

	return details.String()
}

// Policy controls what a Handler keeps and when it gives up.
type Policy struct {
	// StopOnFall makes ShouldContinue false once a Fall is recorded
	StopOnFall bool

	// MaxStumbles is how many recent stumbles are retained; older ones are
	// only counted. Zero keeps none.
	MaxStumbles int
}

// DefaultPolicy stops on falls and retains the last 64 stumbles.
func DefaultPolicy() *Policy {
	return &Policy{
		StopOnFall:  true,
		MaxStumbles: 64,
	}
}

// Handler collects trips for one component.
//
// Stumbles can arrive on every stray input event, so only the most recent
// Policy.MaxStumbles are retained; Count still reflects all of them. A Handler
// is not safe for concurrent use.
type Handler struct {
	component string
	trips     []*Trip
	stumbles  []*Trip
	counts    map[string]int
	policy    *Policy
}

// NewHandler creates a handler for component. A nil policy uses DefaultPolicy.
func NewHandler(component string, policy *Policy) *Handler {
	if policy == nil {
		policy = DefaultPolicy()
	}

	return &Handler{
		component: component,
		trips:     make([]*Trip, 0),
		stumbles:  make([]*Trip, 0),
		counts:    make(map[string]int),
		policy:    policy,
	}
}

// Record adds a trip. Nil handlers and nil trips are ignored so callers can
// record unconditionally.
func (h *Handler) Record(t *Trip) {
	if h == nil || t == nil {
		return
	}
	h.counts[t.Kind]++

	if t.Severity != Stumble {
		h.trips = append(h.trips, t)
		return
	}
	if h.policy.MaxStumbles <= 0 {
		return
	}
	if len(h.stumbles) >= h.policy.MaxStumbles {
		copy(h.stumbles, h.stumbles[1:])
		h.stumbles = h.stumbles[:len(h.stumbles)-1]
	}
	h.stumbles = append(h.stumbles, t)
}

// ShouldContinue reports whether the host should keep going.
func (h *Handler) ShouldContinue() bool {
	if h == nil || !h.policy.StopOnFall {
		return true
	}
	for _, t := range h.trips {
		if t.IsFall() {
			return false
		}
	}
	return true
}

// Count returns how many trips of kind were recorded, retained or not.
func (h *Handler) Count(kind string) int {
	if h == nil {
		return 0
	}
	return h.counts[kind]
}

// HasTrips reports whether any Error or Fall was recorded.
func (h *Handler) HasTrips() bool {
	return h != nil && len(h.trips) > 0
}

// Trips returns the recorded errors and falls in order.
func (h *Handler) Trips() []*Trip {
	if h == nil {
		return nil
	}
	return h.trips
}

// Stumbles returns the retained stumbles, oldest first.
func (h *Handler) Stumbles() []*Trip {
	if h == nil {
		return nil
	}
	return h.stumbles
}

// Summary gives a one line overview.
func (h *Handler) Summary() string {
	if h == nil {
		return "no trips"
	}
	total := 0
	for _, n := range h.counts {
		total += n
	}
	if total == 0 {
		return fmt.Sprintf("[%s] no trips", h.component)
	}
	return fmt.Sprintf("[%s] %d trips, %d stumbles",
		h.component, len(h.trips), total-len(h.trips))
}

// DetailedReport lists every retained trip.
func (h *Handler) DetailedReport() string {
	if h == nil {
		return ""
	}
	var report strings.Builder

	report.WriteString(fmt.Sprintf("=== %s ===\n", h.component))
	report.WriteString(h.Summary() + "\n")

	if len(h.trips) > 0 {
		report.WriteString("\nTrips:\n")
		for i, t := range h.trips {
			report.WriteString(fmt.Sprintf("%d. %s\n", i+1, t.DetailedString()))
		}
	}

	if len(h.stumbles) > 0 {
		report.WriteString("\nRecent stumbles:\n")
		for i, s := range h.stumbles {
			report.WriteString(fmt.Sprintf("%d. %s\n", i+1, s.DetailedString()))
		}
	}

	return report.String()
}
