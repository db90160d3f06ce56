package stage

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"

	"github.com/teranos/coverflow/internal/logging"
	"github.com/teranos/coverflow/trip"
)

// Framer produces the current frame.
type Framer interface {
	Frame() *image.RGBA
}

// Camera writes numbered PNG frames of a Framer into a directory.
//
// Failed captures are recorded as trips and returned; the camera keeps its
// frame counter so a later capture does not overwrite an earlier frame.
type Camera struct {
	framer Framer
	dir    string
	count  int
	frames []string
	trips  *trip.Handler
	log    logr.Logger
}

// NewCamera creates a camera writing into dir. trips may be nil.
func NewCamera(f Framer, dir string, trips *trip.Handler) *Camera {
	return &Camera{
		framer: f,
		dir:    dir,
		trips:  trips,
		log:    logr.Discard(),
	}
}

// WithLogger sets the logger.
func (c *Camera) WithLogger(log logr.Logger) *Camera {
	c.log = log
	return c
}

// Capture writes the current frame as frame_NNN_label.png and returns its path.
func (c *Camera) Capture(label string) (string, error) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		c.trips.Record(trip.NewFall(trip.KindCapture, "cannot create frame directory", trip.Context{
			"dir":   c.dir,
			"error": err.Error(),
		}))
		return "", fmt.Errorf("create frame directory: %w", err)
	}

	path := filepath.Join(c.dir, fmt.Sprintf("frame_%03d_%s.png", c.count, cleanLabel(label)))
	if err := writePNG(path, c.framer.Frame()); err != nil {
		t := trip.NewTrip(trip.KindCapture, "frame not written", trip.Context{
			"path":  path,
			"label": label,
			"error": err.Error(),
		})
		c.trips.Record(t)
		return "", fmt.Errorf("capture %q: %w", label, err)
	}

	c.count++
	c.frames = append(c.frames, path)
	c.log.V(logging.Debug).Info("frame captured", "path", path)
	return path, nil
}

// Frames returns the paths written so far, in order.
func (c *Camera) Frames() []string {
	return c.frames
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

// cleanLabel keeps labels usable as file name parts.
func cleanLabel(label string) string {
	label = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, label)
	if label == "" {
		return "frame"
	}
	return label
}
