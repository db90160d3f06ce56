package stage

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"

	"github.com/teranos/coverflow/internal/logging"
)

// ErrRegression is returned when a frame differs from its baseline by more
// than the tolerance.
var ErrRegression = errors.New("visual regression")

// Supervisor checks captured frames against baseline frames of the same name.
type Supervisor struct {
	baselineDir string
	currentDir  string
	tolerance   float64 // fraction of pixels allowed to differ
	log         logr.Logger
}

// NewSupervisor creates a supervisor. tolerance is the fraction of differing
// pixels accepted, 0.05 being five percent.
func NewSupervisor(baselineDir, currentDir string, tolerance float64) *Supervisor {
	return &Supervisor{
		baselineDir: baselineDir,
		currentDir:  currentDir,
		tolerance:   tolerance,
		log:         logr.Discard(),
	}
}

// WithLogger sets the logger.
func (s *Supervisor) WithLogger(log logr.Logger) *Supervisor {
	s.log = log
	return s
}

// Validate compares currentDir/name with baselineDir/name. On a regression it
// writes a highlighted diff next to the current frame and returns an error
// wrapping ErrRegression.
func (s *Supervisor) Validate(name string) error {
	baseline, err := readPNG(filepath.Join(s.baselineDir, name))
	if err != nil {
		return fmt.Errorf("load baseline: %w", err)
	}
	current, err := readPNG(filepath.Join(s.currentDir, name))
	if err != nil {
		return fmt.Errorf("load frame: %w", err)
	}

	diff := Difference(baseline, current)
	s.log.V(logging.Debug).Info("frame compared", "name", name, "difference", diff)
	if diff <= s.tolerance {
		return nil
	}

	if baseline.Bounds() == current.Bounds() {
		ext := filepath.Ext(name)
		diffPath := filepath.Join(s.currentDir, name[:len(name)-len(ext)]+"_diff.png")
		if err := writePNG(diffPath, DiffImage(baseline, current)); err != nil {
			s.log.Error(err, "diff image not written", "path", diffPath)
		}
	}
	return fmt.Errorf("%w: %s differs by %.2f%% (tolerance %.2f%%)",
		ErrRegression, name, diff*100, s.tolerance*100)
}

// SetBaseline copies a captured frame into the baseline directory as name.
func (s *Supervisor) SetBaseline(name, framePath string) error {
	if err := os.MkdirAll(s.baselineDir, 0o755); err != nil {
		return fmt.Errorf("create baseline directory: %w", err)
	}
	data, err := os.ReadFile(framePath)
	if err != nil {
		return fmt.Errorf("read frame: %w", err)
	}
	return os.WriteFile(filepath.Join(s.baselineDir, name), data, 0o644)
}

// Difference returns the fraction of pixels that differ between a and b.
// Images of different bounds are entirely different.
func Difference(a, b image.Image) float64 {
	bounds := a.Bounds()
	if bounds != b.Bounds() {
		return 1
	}
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return 0
	}

	different := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if !samePixel(a.At(x, y), b.At(x, y)) {
				different++
			}
		}
	}
	return float64(different) / float64(total)
}

// DiffImage marks differing pixels red and dims the rest of a.
func DiffImage(a, b image.Image) *image.RGBA {
	bounds := a.Bounds()
	diff := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if !samePixel(a.At(x, y), b.At(x, y)) {
				diff.Set(x, y, color.RGBA{255, 0, 0, 255})
				continue
			}
			r, g, bl, _ := a.At(x, y).RGBA()
			diff.Set(x, y, color.RGBA{uint8(r >> 9), uint8(g >> 9), uint8(bl >> 9), 255})
		}
	}
	return diff
}

func samePixel(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}
