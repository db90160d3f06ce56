// Package stage renders carousel frames to images.
//
// A Stage is a coverflow.Renderer: plug it into an engine and every gesture
// move or settle updates the descriptors it draws from. Frame rasterises the
// current state, Camera writes numbered PNG frames of a session, and
// Supervisor compares them against a baseline.
//
// Basic usage:
//
//	st, err := stage.New(stage.DefaultConfig(), deck.Sample())
//	if err != nil {
//		return err
//	}
//	defer st.Close()
//
//	engine := coverflow.NewEngine(st.Count(), st,
//		coverflow.WithLayout(st.Layout(coverflow.DefaultBreakpoints())),
//		coverflow.WithRefit(st.Refit))
//
//	cam := stage.NewCamera(st, "frames/", nil)
//	cam.Capture("initial")
//	engine.GestureStart(300, coverflow.Mouse)
//	engine.GestureMove(220)
//	cam.Capture("dragging")
//	engine.GestureEnd()
//	engine.RunTimers() // runs a pending refit, if one is due
package stage

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/teranos/coverflow"
	"github.com/teranos/coverflow/deck"
)

// Config defines the frame geometry and palette.
type Config struct {
	Width      int        // Frame width in pixels, also the track width
	Height     int        // Frame height in pixels
	CardWidth  float64    // Card width as a fraction of the frame width
	CardHeight float64    // Card height as a fraction of the frame height
	Padding    int        // Inner card padding in pixels
	Background color.RGBA // Frame background
	Foreground color.RGBA // Quote and name colour
	Muted      color.RGBA // Title, inactive dots and disabled arrows
	Fit        coverflow.FitOptions
}

// DefaultConfig returns a 960x400 frame with the stock quote range.
func DefaultConfig() Config {
	return Config{
		Width:      960,
		Height:     400,
		CardWidth:  0.42,
		CardHeight: 0.78,
		Padding:    20,
		Background: color.RGBA{255, 255, 255, 255},
		Foreground: color.RGBA{33, 37, 41, 255},
		Muted:      color.RGBA{134, 142, 150, 255},
		Fit:        coverflow.QuoteFitOptions(),
	}
}

const (
	nameSize    = 15
	titleSize   = 12
	arrowSize   = 28
	authorBlock = 44
	dotSize     = 8
	dotGap      = 8
)

// Stage keeps the latest render state of every card and rasterises it.
//
// A Stage is not safe for concurrent use; drive it from the same goroutine as
// the engine feeding it.
type Stage struct {
	config Config
	cards  []deck.Card

	descriptors []coverflow.RenderDescriptor
	classes     []coverflow.Position
	quoteSizes  []int

	active      int
	atStart     bool
	atEnd       bool
	transitions bool

	regular *Measurer
	bold    *Measurer
}

// New creates a stage for cards.
func New(config Config, cards []deck.Card) (*Stage, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("stage size %dx%d", config.Width, config.Height)
	}
	regular, err := RegularMeasurer()
	if err != nil {
		return nil, err
	}
	bold, err := BoldMeasurer()
	if err != nil {
		return nil, err
	}

	s := &Stage{
		config:      config,
		cards:       cards,
		descriptors: make([]coverflow.RenderDescriptor, len(cards)),
		classes:     make([]coverflow.Position, len(cards)),
		quoteSizes:  make([]int, len(cards)),
		transitions: true,
		regular:     regular,
		bold:        bold,
	}
	for i := range s.descriptors {
		s.descriptors[i] = coverflow.Settled(coverflow.Hidden, 0)
	}
	return s, nil
}

// Count returns the number of cards.
func (s *Stage) Count() int {
	return len(s.cards)
}

// Layout reports the track width and the base offset for the frame width.
func (s *Stage) Layout(breakpoints []coverflow.Breakpoint) coverflow.Layout {
	return coverflow.Layout{
		TrackWidth:        float64(s.config.Width),
		BaseOffsetPercent: coverflow.BaseOffsetFor(float64(s.config.Width), breakpoints),
	}
}

// Resize changes the frame size. Call engine.Resize with the new Layout
// afterwards so quotes are refitted.
func (s *Stage) Resize(width, height int) {
	s.config.Width = width
	s.config.Height = height
}

// Refit recomputes the quote size of every card for the current card size.
func (s *Stage) Refit() {
	w, h := s.quoteArea()
	for i, c := range s.cards {
		s.quoteSizes[i] = s.regular.FitText(c.Quote, float64(w), float64(h), s.config.Fit)
	}
}

// QuoteSize returns the fitted quote size of card i, 0 before the first Refit.
func (s *Stage) QuoteSize(i int) int {
	return s.quoteSizes[i]
}

// Descriptor returns the last descriptor applied to card i.
func (s *Stage) Descriptor(i int) coverflow.RenderDescriptor {
	return s.descriptors[i]
}

// Classification returns the last classification applied to card i.
func (s *Stage) Classification(i int) coverflow.Position {
	return s.classes[i]
}

// Transitions reports whether the host would animate between frames.
func (s *Stage) Transitions() bool {
	return s.transitions
}

// ApplyRenderDescriptor implements coverflow.Renderer.
func (s *Stage) ApplyRenderDescriptor(card int, d coverflow.RenderDescriptor) {
	if card >= 0 && card < len(s.descriptors) {
		s.descriptors[card] = d
	}
}

// ApplyClassification implements coverflow.Renderer.
func (s *Stage) ApplyClassification(card int, p coverflow.Position) {
	if card >= 0 && card < len(s.classes) {
		s.classes[card] = p
	}
}

// UpdateControls implements coverflow.ControlsUpdater.
func (s *Stage) UpdateControls(active int, atStart, atEnd bool) {
	s.active, s.atStart, s.atEnd = active, atStart, atEnd
}

// SetTransitions implements coverflow.TransitionSetter. Frames are stills, the
// flag is only kept for inspection.
func (s *Stage) SetTransitions(enabled bool) {
	s.transitions = enabled
}

// Close releases font faces.
func (s *Stage) Close() error {
	if err := s.regular.Close(); err != nil {
		return err
	}
	return s.bold.Close()
}

func (s *Stage) cardSize() (int, int) {
	return int(float64(s.config.Width) * s.config.CardWidth), int(float64(s.config.Height) * s.config.CardHeight)
}

func (s *Stage) quoteArea() (int, int) {
	w, h := s.cardSize()
	return max(w-2*s.config.Padding, 1), max(h-2*s.config.Padding-authorBlock, 1)
}

// Frame rasterises the current state: hidden cards first, then the side
// cards, the active card on top, and the controls underneath.
func (s *Stage) Frame() *image.RGBA {
	frame := image.NewRGBA(image.Rect(0, 0, s.config.Width, s.config.Height))
	draw.Draw(frame, frame.Bounds(), image.NewUniform(s.config.Background), image.Point{}, draw.Src)

	for _, layer := range []coverflow.Position{coverflow.Hidden, coverflow.Prev, coverflow.Next, coverflow.Active} {
		for i := range s.cards {
			if s.classes[i] == layer {
				s.drawCard(frame, i)
			}
		}
	}
	s.drawControls(frame)
	return frame
}

func (s *Stage) drawCard(frame *image.RGBA, i int) {
	d := s.descriptors[i]
	if d.Opacity <= 0 || d.Scale <= 0 {
		return
	}
	cw, ch := s.cardSize()
	card := s.renderCard(i, cw, ch)

	// the translation is a percentage of the card's own width, applied after scaling
	cx := float64(s.config.Width)/2 + d.Scale*d.TranslatePercent/100*float64(cw)
	cy := float64(s.config.Height-authorBlock/2) / 2
	w, h := float64(cw)*d.Scale, float64(ch)*d.Scale
	dst := image.Rect(
		int(math.Round(cx-w/2)), int(math.Round(cy-h/2)),
		int(math.Round(cx+w/2)), int(math.Round(cy+h/2)),
	)

	alpha := uint8(math.Round(math.Min(d.Opacity, 1) * 255))
	xdraw.ApproxBiLinear.Scale(frame, dst, card, card.Bounds(), xdraw.Over, &xdraw.Options{
		SrcMask: image.NewUniform(color.Alpha{A: alpha}),
	})
}

func (s *Stage) renderCard(i, w, h int) *image.RGBA {
	c := s.cards[i]
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c.BackgroundColor()), image.Point{}, draw.Src)
	border := image.NewUniform(s.config.Muted)
	for _, r := range []image.Rectangle{
		image.Rect(0, 0, w, 1), image.Rect(0, h-1, w, h),
		image.Rect(0, 0, 1, h), image.Rect(w-1, 0, w, h),
	} {
		draw.Draw(img, r, border, image.Point{}, draw.Src)
	}

	pad := s.config.Padding
	qw, _ := s.quoteArea()
	size := s.quoteSizes[i]
	if size <= 0 {
		size = max(s.config.Fit.Min, 1)
	}
	if face, err := s.regular.Face(size); err == nil {
		lineHeight := face.Metrics().Height.Ceil()
		y := pad + face.Metrics().Ascent.Ceil()
		for _, line := range Wrap(face, c.Quote, float64(qw)) {
			drawString(img, face, s.config.Foreground, pad, y, line)
			y += lineHeight
		}
	}

	badge := authorBlock - 8
	top := h - pad - badge
	draw.Draw(img, image.Rect(pad, top, pad+badge, top+badge), image.NewUniform(s.config.Muted), image.Point{}, draw.Src)
	if face, err := s.bold.Face(nameSize); err == nil {
		drawString(img, face, s.config.Background, pad+6, top+badge/2+nameSize/3, c.Initials())
		drawString(img, face, s.config.Foreground, pad+badge+10, top+nameSize, c.Name)
	}
	if face, err := s.regular.Face(titleSize); err == nil {
		drawString(img, face, s.config.Muted, pad+badge+10, top+nameSize+titleSize+6, c.Title)
	}
	return img
}

func (s *Stage) drawControls(frame *image.RGBA) {
	n := len(s.cards)
	if n == 0 {
		return
	}
	total := n*dotSize + (n-1)*dotGap
	x := (s.config.Width - total) / 2
	y := s.config.Height - dotSize - 6
	for i := 0; i < n; i++ {
		c := s.config.Muted
		if i == s.active {
			c = s.config.Foreground
		}
		draw.Draw(frame, image.Rect(x, y, x+dotSize, y+dotSize), image.NewUniform(c), image.Point{}, draw.Src)
		x += dotSize + dotGap
	}

	face, err := s.regular.Face(arrowSize)
	if err != nil {
		return
	}
	arrow := func(enabled bool) color.RGBA {
		if enabled {
			return s.config.Foreground
		}
		return s.config.Muted
	}
	mid := s.config.Height/2 + arrowSize/3
	drawString(frame, face, arrow(!s.atStart), 8, mid, "‹")
	drawString(frame, face, arrow(!s.atEnd), s.config.Width-8-arrowSize/2, mid, "›")
}

func drawString(dst draw.Image, face font.Face, c color.Color, x, y int, text string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
