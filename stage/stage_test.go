package stage

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/coverflow"
	"github.com/teranos/coverflow/deck"
	"github.com/teranos/coverflow/trip"
)

func newTestStage(t *testing.T, cards []deck.Card) *Stage {
	t.Helper()
	st, err := New(DefaultConfig(), cards)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func newTestEngine(st *Stage) *coverflow.Engine {
	return coverflow.NewEngine(st.Count(), st,
		coverflow.WithLayout(st.Layout(coverflow.DefaultBreakpoints())),
		coverflow.WithRefit(st.Refit))
}

func TestNew_RejectsEmptyFrame(t *testing.T) {
	config := DefaultConfig()
	config.Width = 0

	_, err := New(config, deck.Sample())
	assert.Error(t, err)
}

func TestStage_Layout(t *testing.T) {
	st := newTestStage(t, deck.Sample())

	l := st.Layout(coverflow.DefaultBreakpoints())
	assert.Equal(t, 960.0, l.TrackWidth)
	assert.Equal(t, 70.0, l.BaseOffsetPercent)

	st.Resize(640, 400)
	assert.Equal(t, 80.0, st.Layout(coverflow.DefaultBreakpoints()).BaseOffsetPercent)
}

func TestStage_EngineSettlesCards(t *testing.T) {
	st := newTestStage(t, deck.Sample())
	e := newTestEngine(st)
	defer e.Close()

	assert.Equal(t, coverflow.Active, st.Classification(0))
	assert.Equal(t, coverflow.Next, st.Classification(1))
	assert.Equal(t, coverflow.Hidden, st.Classification(2))
	assert.Equal(t, coverflow.Settled(coverflow.Next, 70), st.Descriptor(1))
	assert.True(t, st.atStart)
	assert.False(t, st.atEnd)

	e.GestureStart(400, coverflow.Mouse)
	assert.False(t, st.Transitions())
	e.GestureMove(300)
	assert.Less(t, st.Descriptor(0).Scale, 1.0)

	e.GestureEnd()
	assert.True(t, st.Transitions())
	assert.Equal(t, coverflow.Active, st.Classification(1))
	assert.Equal(t, 1, st.active)
}

func TestStage_RefitQuotes(t *testing.T) {
	st := newTestStage(t, deck.Sample())
	for i := 0; i < st.Count(); i++ {
		assert.Equal(t, 0, st.QuoteSize(i), "nothing fitted before the engine runs")
	}

	e := newTestEngine(st)
	defer e.Close()

	for i := 0; i < st.Count(); i++ {
		assert.GreaterOrEqual(t, st.QuoteSize(i), 12)
		assert.LessOrEqual(t, st.QuoteSize(i), 24)
	}
}

func TestStage_LongQuotesShrink(t *testing.T) {
	cards := []deck.Card{
		{Quote: "Hi.", Name: "Short"},
		{Quote: strings.Repeat("A much longer testimonial that keeps going. ", 14), Name: "Long"},
	}
	st := newTestStage(t, cards)
	st.Refit()

	assert.Equal(t, 24, st.QuoteSize(0))
	assert.Less(t, st.QuoteSize(1), 24)
	assert.GreaterOrEqual(t, st.QuoteSize(1), 1)
}

func TestStage_FrameChangesWithActiveCard(t *testing.T) {
	st := newTestStage(t, deck.Sample())
	e := newTestEngine(st)
	defer e.Close()

	before := st.Frame()
	assert.Equal(t, image.Rect(0, 0, 960, 400), before.Bounds())
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, before.RGBAAt(0, 0))

	e.Next()
	after := st.Frame()
	assert.Greater(t, Difference(before, after), 0.0)

	e.Prev()
	assert.Equal(t, 0.0, Difference(before, st.Frame()), "frames are deterministic")
}

func TestStage_IgnoresUnknownCards(t *testing.T) {
	st := newTestStage(t, deck.Sample())
	assert.NotPanics(t, func() {
		st.ApplyRenderDescriptor(-1, coverflow.RenderDescriptor{})
		st.ApplyClassification(99, coverflow.Active)
	})
}

func TestStage_EmptyDeck(t *testing.T) {
	st := newTestStage(t, nil)
	e := newTestEngine(st)
	defer e.Close()

	frame := st.Frame()
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, frame.RGBAAt(480, 200))
}

func TestMeasurer_Wrap(t *testing.T) {
	m, err := RegularMeasurer()
	require.NoError(t, err)
	defer m.Close()

	face, err := m.Face(16)
	require.NoError(t, err)

	assert.Nil(t, Wrap(face, "   ", 100))
	assert.Equal(t, []string{"one two three"}, Wrap(face, "one two three", 1000))

	lines := Wrap(face, "one two three four five six", 60)
	assert.Greater(t, len(lines), 1)
	assert.Equal(t, "one two three four five six", strings.Join(lines, " "))

	assert.Equal(t, []string{"unbreakable"}, Wrap(face, "unbreakable", 1), "long words overflow")
}

func TestMeasurer_MeasureGrowsWithSize(t *testing.T) {
	m, err := RegularMeasurer()
	require.NoError(t, err)
	defer m.Close()

	measure := m.Measure("The quick brown fox jumps over the lazy dog", 1000)
	w12, h12 := measure(12)
	w24, h24 := measure(24)
	assert.Greater(t, w24, w12)
	assert.Greater(t, h24, h12)

	w, h := measure(0)
	assert.Equal(t, 0.0, w)
	assert.Equal(t, 0.0, h)
}

func TestMeasurer_FitText(t *testing.T) {
	m, err := BoldMeasurer()
	require.NoError(t, err)
	defer m.Close()

	opts := coverflow.QuoteFitOptions()
	assert.Equal(t, 24, m.FitText("Fits easily", 2000, 2000, opts))
	assert.Equal(t, 11, m.FitText("Nothing fits here", 5, 5, opts))
	assert.Equal(t, 1, m.FitText("Nothing fits here", 1, 1, coverflow.FitOptions{Min: 1, Max: 4}))
}

func TestCamera_NumberedFrames(t *testing.T) {
	st := newTestStage(t, deck.Sample())
	e := newTestEngine(st)
	defer e.Close()

	dir := filepath.Join(t.TempDir(), "frames")
	cam := NewCamera(st, dir, nil)

	first, err := cam.Capture("initial")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "frame_000_initial.png"), first)

	e.Next()
	second, err := cam.Capture("after next")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "frame_001_after_next.png"), second)

	assert.Equal(t, []string{first, second}, cam.Frames())
	for _, p := range cam.Frames() {
		img, err := readPNG(p)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 960, 400), img.Bounds())
	}
}

func TestCamera_RecordsFailures(t *testing.T) {
	st := newTestStage(t, deck.Sample())
	blocked := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("not a directory"), 0o644))

	trips := trip.NewHandler("camera", nil)
	cam := NewCamera(st, filepath.Join(blocked, "frames"), trips)

	_, err := cam.Capture("initial")
	assert.Error(t, err)
	assert.Empty(t, cam.Frames())
	assert.Equal(t, 1, trips.Count(trip.KindCapture))
	assert.False(t, trips.ShouldContinue())
}

func TestCleanLabel(t *testing.T) {
	assert.Equal(t, "drag_left", cleanLabel("drag left"))
	assert.Equal(t, "a_b_c", cleanLabel("a/b.c"))
	assert.Equal(t, "frame", cleanLabel(""))
}

func TestSupervisor_Validate(t *testing.T) {
	st := newTestStage(t, deck.Sample())
	e := newTestEngine(st)
	defer e.Close()

	root := t.TempDir()
	current := filepath.Join(root, "current")
	baseline := filepath.Join(root, "baseline")

	cam := NewCamera(st, current, nil)
	path, err := cam.Capture("initial")
	require.NoError(t, err)
	name := filepath.Base(path)

	sup := NewSupervisor(baseline, current, 0.0)
	require.NoError(t, sup.SetBaseline(name, path))
	assert.NoError(t, sup.Validate(name))

	// overwrite the current frame with a different state
	e.GoTo(3)
	require.NoError(t, writePNG(path, st.Frame()))

	err = sup.Validate(name)
	assert.ErrorIs(t, err, ErrRegression)
	assert.FileExists(t, filepath.Join(current, "frame_000_initial_diff.png"))

	lenient := NewSupervisor(baseline, current, 1.0)
	assert.NoError(t, lenient.Validate(name))
}

func TestSupervisor_MissingBaseline(t *testing.T) {
	sup := NewSupervisor(t.TempDir(), t.TempDir(), 0.05)
	assert.Error(t, sup.Validate("missing.png"))
}

func TestDifference(t *testing.T) {
	a := image.NewRGBA(image.Rect(0, 0, 2, 2))
	b := image.NewRGBA(image.Rect(0, 0, 2, 2))
	assert.Equal(t, 0.0, Difference(a, b))

	b.Set(1, 1, color.RGBA{255, 0, 0, 255})
	assert.Equal(t, 0.25, Difference(a, b))

	diff := DiffImage(a, b)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, diff.RGBAAt(1, 1))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, diff.RGBAAt(0, 0))

	assert.Equal(t, 1.0, Difference(a, image.NewRGBA(image.Rect(0, 0, 3, 2))))
}
