package coverflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// edges is a Bounds stub
type edges struct{ start, end bool }

func (e edges) AtStart() bool { return e.start }
func (e edges) AtEnd() bool   { return e.end }

var middle = edges{}

func TestTracker_CancelWithoutMove(t *testing.T) {
	tr := NewTracker(DefaultTrackerConfig())

	assert.True(t, tr.Start(100, Mouse))
	d, ok := tr.End(middle)
	assert.True(t, ok)
	assert.Equal(t, Cancel, d)
	assert.False(t, tr.Dragging())
}

func TestTracker_Decisions(t *testing.T) {
	tests := []struct {
		name     string
		modality Modality
		from, to float64
		bounds   edges
		want     Decision
	}{
		{"advance past threshold", Mouse, 100, 0, middle, Advance},
		{"retreat past threshold", Mouse, 0, 100, middle, Retreat},
		{"exactly at threshold cancels", Mouse, 80, 0, middle, Cancel},
		{"short drag cancels", Mouse, 100, 40, middle, Cancel},
		{"advance at last index cancels", Mouse, 200, 0, edges{end: true}, Cancel},
		{"retreat at first index cancels", Mouse, 0, 200, edges{start: true}, Cancel},
		{"touch commits at a shorter distance", Touch, 100, 40, middle, Advance},
		{"mouse needs the longer distance", Mouse, 100, 40, middle, Cancel},
		{"raw offset beyond the clamp still commits", Mouse, 0, 1000, middle, Retreat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker(DefaultTrackerConfig())
			tr.Start(tt.from, tt.modality)
			tr.Move(tt.to)

			d, ok := tr.End(tt.bounds)
			assert.True(t, ok)
			assert.Equal(t, tt.want, d)
		})
	}
}

func TestTracker_OffsetIsAbsolute(t *testing.T) {
	tr := NewTracker(DefaultTrackerConfig())
	tr.Start(50, Mouse)

	tr.Move(10)
	tr.Move(30)
	assert.Equal(t, -20.0, tr.Offset(), "offset is recomputed from the start, not accumulated")
}

func TestTracker_Clamp(t *testing.T) {
	tr := NewTracker(DefaultTrackerConfig())
	tr.Start(0, Mouse)

	tr.Move(-400)
	assert.Equal(t, -400.0, tr.Offset())
	assert.Equal(t, -150.0, tr.Clamped())

	tr.Move(90)
	assert.Equal(t, 90.0, tr.Clamped())

	tr.Move(151)
	assert.Equal(t, 150.0, tr.Clamped())
}

func TestTracker_IdleEventsAreNoOps(t *testing.T) {
	tr := NewTracker(DefaultTrackerConfig())

	assert.False(t, tr.Move(300))
	assert.Equal(t, 0.0, tr.Offset())
	assert.False(t, tr.Dragging())

	_, ok := tr.End(middle)
	assert.False(t, ok)
	assert.False(t, tr.Dragging())

	tr.Start(0, Mouse)
	tr.Move(-200)
	tr.End(middle)

	assert.False(t, tr.Move(-300), "stray move after end is ignored")
	assert.Equal(t, 0.0, tr.Offset())
}

func TestTracker_SecondStartIgnored(t *testing.T) {
	tr := NewTracker(DefaultTrackerConfig())

	assert.True(t, tr.Start(100, Touch))
	tr.Move(70)
	assert.False(t, tr.Start(300, Mouse), "the first press owns the gesture")

	assert.Equal(t, Touch, tr.Modality())
	assert.Equal(t, -30.0, tr.Offset())
}

func TestTracker_OffsetResetsOnStartAndEnd(t *testing.T) {
	tr := NewTracker(DefaultTrackerConfig())

	tr.Start(10, Mouse)
	tr.Move(500)
	tr.End(middle)
	assert.Equal(t, 0.0, tr.Offset())

	tr.Start(999, Mouse)
	assert.Equal(t, 0.0, tr.Offset())
}

func TestTracker_Wheel(t *testing.T) {
	tr := NewTracker(DefaultTrackerConfig())

	assert.False(t, tr.Wheel(3, 40), "mostly vertical scrolling is ignored")
	assert.False(t, tr.Dragging())

	assert.True(t, tr.Wheel(50, 2))
	assert.True(t, tr.Dragging())
	assert.Equal(t, Wheel, tr.Modality())
	assert.Equal(t, -50.0, tr.Offset())

	assert.True(t, tr.Wheel(40, 0))
	assert.Equal(t, -90.0, tr.Offset())

	d, ok := tr.End(middle)
	assert.True(t, ok)
	assert.Equal(t, Advance, d)
}

func TestTracker_WheelDoesNotHijackPointer(t *testing.T) {
	tr := NewTracker(DefaultTrackerConfig())
	tr.Start(0, Mouse)
	tr.Move(20)

	assert.False(t, tr.Wheel(100, 0))
	assert.Equal(t, 20.0, tr.Offset())
}

func TestTrackerConfig_Threshold(t *testing.T) {
	cfg := DefaultTrackerConfig()
	assert.Equal(t, 80.0, cfg.Threshold(Mouse))
	assert.Equal(t, 50.0, cfg.Threshold(Touch))
	assert.Equal(t, 80.0, cfg.Threshold(Wheel))
	assert.Equal(t, 150.0, cfg.MaxDrag)
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "advance", Advance.String())
	assert.Equal(t, "retreat", Retreat.String())
	assert.Equal(t, "cancel", Cancel.String())
	assert.Equal(t, "touch", Touch.String())
}
