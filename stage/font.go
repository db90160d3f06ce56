package stage

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/teranos/coverflow"
)

// Measurer lays out wrapped text in one typeface at any pixel size.
//
// Faces are created on demand and cached per size; Close releases them.
type Measurer struct {
	font  *opentype.Font
	faces map[int]font.Face
}

// NewMeasurer parses a TrueType or OpenType font.
func NewMeasurer(data []byte) (*Measurer, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Measurer{font: f, faces: make(map[int]font.Face)}, nil
}

// RegularMeasurer uses Go Regular.
func RegularMeasurer() (*Measurer, error) {
	return NewMeasurer(goregular.TTF)
}

// BoldMeasurer uses Go Bold.
func BoldMeasurer() (*Measurer, error) {
	return NewMeasurer(gobold.TTF)
}

// Face returns the face for size pixels at 72 DPI.
func (m *Measurer) Face(size int) (font.Face, error) {
	if face, ok := m.faces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(m.font, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("face at %dpx: %w", size, err)
	}
	m.faces[size] = face
	return face, nil
}

// Wrap breaks text into lines no wider than width. A word wider than width
// gets a line of its own and overflows it.
func Wrap(face font.Face, text string, width float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		candidate := line + " " + w
		if float64(font.MeasureString(face, candidate).Ceil()) <= width {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = w
	}
	return append(lines, line)
}

// Measure returns a coverflow.MeasureFunc for text wrapped at wrapWidth. The
// size reported is the widest line by the line count times the line height.
// Sizes the font cannot produce measure as infinitely large.
func (m *Measurer) Measure(text string, wrapWidth float64) coverflow.MeasureFunc {
	return func(size int) (float64, float64) {
		if size <= 0 {
			return 0, 0
		}
		face, err := m.Face(size)
		if err != nil {
			return math.Inf(1), math.Inf(1)
		}
		lines := Wrap(face, text, wrapWidth)
		widest := 0
		for _, l := range lines {
			widest = max(widest, font.MeasureString(face, l).Ceil())
		}
		return float64(widest), float64(len(lines) * face.Metrics().Height.Ceil())
	}
}

// FitText returns the largest size in opts at which text, wrapped to width,
// fits in width x height. The result is never below 1.
func (m *Measurer) FitText(text string, width, height float64, opts coverflow.FitOptions) int {
	return max(coverflow.Fit(width, height, m.Measure(text, width), opts), 1)
}

// Close releases every cached face.
func (m *Measurer) Close() error {
	var firstErr error
	for size, face := range m.faces {
		if err := face.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(m.faces, size)
	}
	return firstErr
}
