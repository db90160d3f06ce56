package tui

import "github.com/teranos/coverflow"

// cardState is the latest engine output for one card.
type cardState struct {
	descriptor coverflow.RenderDescriptor
	position   coverflow.Position
}

// termRenderer records engine output for View to draw. The terminal redraws
// whole frames and never animates, so the transitions flag is only kept for
// inspection.
type termRenderer struct {
	cards       []cardState
	active      int
	atStart     bool
	atEnd       bool
	transitions bool
	captured    bool
}

var (
	_ coverflow.Renderer         = (*termRenderer)(nil)
	_ coverflow.ControlsUpdater  = (*termRenderer)(nil)
	_ coverflow.TransitionSetter = (*termRenderer)(nil)
	_ coverflow.PointerCapturer  = (*termRenderer)(nil)
)

func newTermRenderer(count int) *termRenderer {
	return &termRenderer{cards: make([]cardState, count), transitions: true}
}

func (r *termRenderer) ApplyRenderDescriptor(card int, d coverflow.RenderDescriptor) {
	if card >= 0 && card < len(r.cards) {
		r.cards[card].descriptor = d
	}
}

func (r *termRenderer) ApplyClassification(card int, p coverflow.Position) {
	if card >= 0 && card < len(r.cards) {
		r.cards[card].position = p
	}
}

func (r *termRenderer) UpdateControls(active int, atStart, atEnd bool) {
	r.active, r.atStart, r.atEnd = active, atStart, atEnd
}

func (r *termRenderer) SetTransitions(enabled bool) { r.transitions = enabled }

// Mouse motion is only forwarded to the engine while the pointer is captured.
func (r *termRenderer) CapturePointer() { r.captured = true }
func (r *termRenderer) ReleasePointer() { r.captured = false }
