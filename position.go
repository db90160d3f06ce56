package coverflow

import "math"

// Resting values for the side slots and hidden cards.
const (
	sideScale     = 0.85
	sideOpacity   = 0.6
	hiddenScale   = 0.7
	activeShrink  = 0.15
	sideTrackRate = 0.5
)

// RenderDescriptor is the continuous visual state of one card for one frame.
//
// TranslatePercent is a horizontal translation in percent of the card's own
// width, applied after scaling. Descriptors are never stored by the engine;
// they are recomputed from the carousel and gesture state every frame.
type RenderDescriptor struct {
	TranslatePercent float64
	Scale            float64
	Opacity          float64
}

// ResolveParams carries the presentation constants supplied by the renderer.
type ResolveParams struct {
	// MaxDrag is the clamp applied to the gesture offset
	MaxDrag float64
	// TrackWidth converts the offset into a percentage of the track
	TrackWidth float64
	// BaseOffsetPercent is how far the side slots sit from the centre
	BaseOffsetPercent float64
}

// Resolve maps a card's position and the clamped gesture offset to its render
// descriptor. It is pure.
//
// The active card follows the drag and shrinks by up to 15% at full drag. The
// neighbour being revealed grows from its resting 0.85 scale and 0.6 opacity
// to full size as the offset approaches MaxDrag; the other neighbour holds its
// resting values. Hidden cards are invisible whatever the offset.
func Resolve(p Position, clamped float64, params ResolveParams) RenderDescriptor {
	dragPercent := 0.0
	if params.TrackWidth > 0 {
		dragPercent = clamped / params.TrackWidth * 100
	}
	progress := 0.0
	if params.MaxDrag > 0 {
		progress = math.Min(math.Abs(clamped)/params.MaxDrag, 1)
	}

	switch p {
	case Active:
		return RenderDescriptor{
			TranslatePercent: dragPercent,
			Scale:            1 - progress*activeShrink,
			Opacity:          1,
		}
	case Prev:
		d := RenderDescriptor{
			TranslatePercent: -params.BaseOffsetPercent + dragPercent*sideTrackRate,
			Scale:            sideScale,
			Opacity:          sideOpacity,
		}
		if clamped > 0 {
			d.Scale, d.Opacity = reveal(progress)
		}
		return d
	case Next:
		d := RenderDescriptor{
			TranslatePercent: params.BaseOffsetPercent + dragPercent*sideTrackRate,
			Scale:            sideScale,
			Opacity:          sideOpacity,
		}
		if clamped < 0 {
			d.Scale, d.Opacity = reveal(progress)
		}
		return d
	default:
		return RenderDescriptor{Scale: hiddenScale, Opacity: 0}
	}
}

// Settled returns the resting descriptor for p, as used once a gesture or a
// navigation has resolved.
func Settled(p Position, baseOffsetPercent float64) RenderDescriptor {
	return Resolve(p, 0, ResolveParams{BaseOffsetPercent: baseOffsetPercent})
}

func reveal(progress float64) (scale, opacity float64) {
	return sideScale + progress*(1-sideScale), sideOpacity + progress*(1-sideOpacity)
}

// Breakpoint selects a base offset for viewports at least MinWidth wide.
type Breakpoint struct {
	MinWidth          float64
	BaseOffsetPercent float64
}

// DefaultBreakpoints mirrors the stock stylesheet: 70% from 992 units up,
// 80% below.
func DefaultBreakpoints() []Breakpoint {
	return []Breakpoint{
		{MinWidth: 992, BaseOffsetPercent: 70},
		{MinWidth: 0, BaseOffsetPercent: 80},
	}
}

// BaseOffsetFor picks the base offset of the widest breakpoint that viewport
// satisfies. Order of breakpoints does not matter. Without a match it falls
// back to 80.
func BaseOffsetFor(viewport float64, breakpoints []Breakpoint) float64 {
	best := -1.0
	offset := 80.0
	for _, bp := range breakpoints {
		if viewport >= bp.MinWidth && bp.MinWidth > best {
			best = bp.MinWidth
			offset = bp.BaseOffsetPercent
		}
	}
	return offset
}
