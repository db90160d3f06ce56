package coverflow

// Renderer is the presentation layer the engine drives.
//
// The engine never touches presentation objects itself; it hands each card's
// continuous descriptor and discrete classification to the renderer by index.
type Renderer interface {
	// ApplyRenderDescriptor positions card for the current frame
	ApplyRenderDescriptor(card int, d RenderDescriptor)
	// ApplyClassification sets the discrete style state of card after a settle
	ApplyClassification(card int, p Position)
}

// TransitionSetter is implemented by renderers that animate between frames.
// Transitions are disabled while a gesture is tracking the pointer.
type TransitionSetter interface {
	SetTransitions(enabled bool)
}

// ControlsUpdater is implemented by renderers with navigation controls: dot
// indicators and prev/next buttons.
type ControlsUpdater interface {
	UpdateControls(active int, atStart, atEnd bool)
}

// PointerCapturer is implemented by renderers that can keep receiving pointer
// events once the pointer leaves the widget. The engine captures when a gesture
// starts and releases when it ends, so the subscription lives exactly as long
// as the gesture.
type PointerCapturer interface {
	CapturePointer()
	ReleasePointer()
}

// Renderers fans every call out to rs in order. Optional capabilities are
// forwarded to the members that implement them.
func Renderers(rs ...Renderer) Renderer {
	return multiRenderer(rs)
}

type multiRenderer []Renderer

func (m multiRenderer) ApplyRenderDescriptor(card int, d RenderDescriptor) {
	for _, r := range m {
		r.ApplyRenderDescriptor(card, d)
	}
}

func (m multiRenderer) ApplyClassification(card int, p Position) {
	for _, r := range m {
		r.ApplyClassification(card, p)
	}
}

func (m multiRenderer) SetTransitions(enabled bool) {
	for _, r := range m {
		if ts, ok := r.(TransitionSetter); ok {
			ts.SetTransitions(enabled)
		}
	}
}

func (m multiRenderer) UpdateControls(active int, atStart, atEnd bool) {
	for _, r := range m {
		if cu, ok := r.(ControlsUpdater); ok {
			cu.UpdateControls(active, atStart, atEnd)
		}
	}
}

func (m multiRenderer) CapturePointer() {
	for _, r := range m {
		if pc, ok := r.(PointerCapturer); ok {
			pc.CapturePointer()
		}
	}
}

func (m multiRenderer) ReleasePointer() {
	for _, r := range m {
		if pc, ok := r.(PointerCapturer); ok {
			pc.ReleasePointer()
		}
	}
}

// nopRenderer backs engines created without a renderer.
type nopRenderer struct{}

func (nopRenderer) ApplyRenderDescriptor(int, RenderDescriptor) {}
func (nopRenderer) ApplyClassification(int, Position)           {}
