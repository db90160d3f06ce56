// Package tui hosts a coverflow engine in a terminal.
//
// Mouse drags and horizontal wheel events become gestures, arrow keys and the
// controls row navigate, and cards are drawn with lipgloss borders scaled and
// shifted by the engine's render descriptors.
package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-logr/logr"

	"github.com/teranos/coverflow"
	"github.com/teranos/coverflow/deck"
	"github.com/teranos/coverflow/internal/logging"
)

const (
	colorText   lipgloss.Color = "#cdd6f4"
	colorSide   lipgloss.Color = "#9399b2"
	colorFaint  lipgloss.Color = "#585b70"
	colorAccent lipgloss.Color = "#f5c2e7"
)

const (
	// cardChrome is the rows a card spends on its border, the gap above the
	// author and the name and title lines
	cardChrome  = 5
	minCardRows = cardChrome + 1
	// footerRows hold the controls and the key help
	footerRows = 2
	// wheelCells is how far one wheel notch moves, in columns
	wheelCells = 4

	activeOpacity = 0.95
	sideOpacity   = 0.5
)

// Options configures the terminal host.
type Options struct {
	// CellWidth converts columns into gesture units, roughly pixels per column
	CellWidth    float64
	MinCardWidth int
	MaxCardWidth int
	Breakpoints  []coverflow.Breakpoint
	Logger       logr.Logger
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		CellWidth:    8,
		MinCardWidth: 16,
		MaxCardWidth: 48,
		Breakpoints:  coverflow.DefaultBreakpoints(),
		Logger:       logr.Discard(),
	}
}

// Model is the bubbletea model driving one carousel.
type Model struct {
	opts   Options
	cards  []deck.Card
	engine *coverflow.Engine
	view   *termRenderer
	sched  *loopScheduler
	keys   KeyMap
	help   help.Model
	styles []lipgloss.Style
	log    logr.Logger

	width, height         int
	cardWidth, cardHeight int
	pressX, pressY        int
	quitting              bool
}

var _ tea.Model = (*Model)(nil)

// New creates a model for cards. engineOpts are applied before the options
// the terminal needs for itself.
func New(cards []deck.Card, opts Options, engineOpts ...coverflow.Option) *Model {
	if opts.CellWidth <= 0 {
		opts.CellWidth = DefaultOptions().CellWidth
	}
	opts.MinCardWidth = max(opts.MinCardWidth, minCardRows)
	opts.MaxCardWidth = max(opts.MaxCardWidth, opts.MinCardWidth)

	m := &Model{
		opts:   opts,
		cards:  cards,
		view:   newTermRenderer(len(cards)),
		sched:  &loopScheduler{},
		keys:   DefaultKeyMap(),
		help:   help.New(),
		log:    opts.Logger,
		width:  80,
		height: 24,
		styles: []lipgloss.Style{
			stylePlain:  lipgloss.NewStyle(),
			styleFaint:  lipgloss.NewStyle().Foreground(colorFaint),
			styleSide:   lipgloss.NewStyle().Foreground(colorSide),
			styleActive: lipgloss.NewStyle().Foreground(colorText),
			styleAccent: lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		},
	}
	if m.log.GetSink() == nil {
		m.log = logr.Discard()
	}

	engineOpts = append(engineOpts,
		coverflow.WithLogger(m.log),
		coverflow.WithScheduler(m.sched),
		coverflow.WithLayout(m.layout()),
		coverflow.WithRefit(m.refit),
	)
	m.engine = coverflow.NewEngine(len(cards), m.view, engineOpts...)
	return m
}

// Engine returns the engine behind the model.
func (m *Model) Engine() *coverflow.Engine {
	return m.engine
}

// CardSize returns the card size in cells chosen by the last refit.
func (m *Model) CardSize() (width, height int) {
	return m.cardWidth, m.cardHeight
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.log.V(logging.Debug).Info("window resized", "width", msg.Width, "height", msg.Height)
		m.engine.Resize(m.layout())

	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case timerMsg:
		msg.timer.fire()
	}
	return m, tea.Batch(cmd, m.sched.drain())
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.engine.Close()
		return tea.Quit
	case key.Matches(msg, m.keys.Prev):
		m.engine.KeyNavigate(coverflow.Left)
	case key.Matches(msg, m.keys.Next):
		m.engine.KeyNavigate(coverflow.Right)
	case key.Matches(msg, m.keys.First):
		m.engine.GoTo(0)
	case key.Matches(msg, m.keys.Last):
		m.engine.GoTo(m.engine.Count() - 1)
	case key.Matches(msg, m.keys.Jump):
		m.engine.GoTo(int(msg.Runes[0] - '1'))
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	step := wheelCells * m.opts.CellWidth
	switch {
	case msg.Button == tea.MouseButtonWheelLeft:
		m.engine.Wheel(-step, 0)
	case msg.Button == tea.MouseButtonWheelRight:
		m.engine.Wheel(step, 0)
	case msg.Button == tea.MouseButtonWheelUp, msg.Button == tea.MouseButtonWheelDown:
		// vertical scrolling never moves the carousel

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.pressX, m.pressY = msg.X, msg.Y
		m.engine.GestureStart(m.units(msg.X), coverflow.Mouse)

	case msg.Action == tea.MouseActionMotion:
		if m.view.captured {
			m.engine.GestureMove(m.units(msg.X))
		}

	case msg.Action == tea.MouseActionRelease:
		if !m.view.captured {
			return
		}
		d := m.engine.GestureEnd()
		if d == coverflow.Cancel && msg.X == m.pressX && msg.Y == m.pressY {
			m.click(msg.X, msg.Y)
		}
	}
}

// click handles a press and release without movement on the controls row.
func (m *Model) click(x, y int) {
	if y != m.stageRows() {
		return
	}
	prev, dots, next := controlZones(m.width, len(m.cards))
	switch {
	case x == prev:
		m.engine.Prev()
	case x == next:
		m.engine.Next()
	default:
		for i, dx := range dots {
			if x == dx {
				m.engine.GoTo(i)
				return
			}
		}
	}
}

func (m *Model) units(x int) float64 {
	return float64(x) * m.opts.CellWidth
}

func (m *Model) layout() coverflow.Layout {
	track := m.units(m.width)
	return coverflow.Layout{
		TrackWidth:        track,
		BaseOffsetPercent: coverflow.BaseOffsetFor(track, m.opts.Breakpoints),
	}
}

func (m *Model) stageRows() int {
	return max(m.height-footerRows, 0)
}

// refit picks the widest card whose settled neighbours still fit the
// terminal, then the card height that shows the longest quote.
func (m *Model) refit() {
	side := coverflow.Settled(coverflow.Next, m.layout().BaseOffsetPercent)
	// terminal width needed per card column for the card and both neighbours
	spread := 2 * side.Scale * (side.TranslatePercent/100 + 0.5)
	measure := func(size int) (float64, float64) {
		return float64(size) * spread, minCardRows
	}

	fitted := coverflow.Fit(float64(m.width), float64(m.stageRows()), measure, coverflow.FitOptions{
		Min:  m.opts.MinCardWidth,
		Max:  m.opts.MaxCardWidth,
		Step: 1,
	})
	m.cardWidth = max(fitted, m.opts.MinCardWidth)

	lines := 1
	for _, c := range m.cards {
		lines = max(lines, len(wrap(c.Quote, m.cardWidth-4)))
	}
	m.cardHeight = max(min(lines+cardChrome, m.stageRows()), minCardRows)
	m.log.V(logging.Debug).Info("cards refitted", "width", m.cardWidth, "height", m.cardHeight)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	stage := newCanvas(m.width, m.stageRows(), m.styles)
	for _, layer := range []coverflow.Position{coverflow.Prev, coverflow.Next, coverflow.Active} {
		for i, c := range m.view.cards {
			if c.position == layer {
				m.drawCard(stage, i)
			}
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		stage.String(),
		m.controls(),
		m.help.ShortHelpView(m.keys.ShortHelp()),
	)
}

func (m *Model) drawCard(cv *canvas, i int) {
	d := m.view.cards[i].descriptor
	if d.Opacity <= 0 || d.Scale <= 0 {
		return
	}

	w := max(int(math.Round(float64(m.cardWidth)*d.Scale)), 4)
	h := max(int(math.Round(float64(m.cardHeight)*d.Scale)), 3)
	cx := float64(m.width)/2 + d.Scale*d.TranslatePercent/100*float64(m.cardWidth)
	x := int(math.Round(cx - float64(w)/2))
	y := (cv.height - h) / 2

	text, border, muted := styleFaint, styleFaint, styleFaint
	switch {
	case d.Opacity >= activeOpacity:
		text, border, muted = styleActive, styleAccent, styleSide
	case d.Opacity >= sideOpacity:
		text, border, muted = styleSide, styleSide, styleFaint
	}
	cv.box(x, y, w, h, lipgloss.RoundedBorder(), border, text)

	inner := w - 4
	if inner <= 0 || h < cardChrome {
		return
	}
	c := m.cards[i]
	lines := wrap(c.Quote, inner)
	if rows := h - cardChrome; len(lines) > rows {
		lines = lines[:rows]
		if rows > 0 {
			lines[rows-1] = ellipsis(lines[rows-1], inner)
		}
	}
	for row, line := range lines {
		cv.text(x+2, y+1+row, line, text)
	}
	cv.text(x+2, y+h-3, truncate(c.Name, inner), text)
	cv.text(x+2, y+h-2, truncate(c.Title, inner), muted)
}

// controlZones returns the columns of the prev arrow, each dot and the next
// arrow, centred in width.
func controlZones(width, n int) (prev int, dots []int, next int) {
	total := 2*n + 5
	prev = (width - total) / 2
	for i := 0; i < n; i++ {
		dots = append(dots, prev+3+2*i)
	}
	next = prev + 2*n + 4
	return prev, dots, next
}

func (m *Model) controls() string {
	row := newCanvas(m.width, 1, m.styles)
	if len(m.cards) == 0 {
		return row.String()
	}

	arrow := func(disabled bool) int {
		if disabled {
			return styleFaint
		}
		return styleActive
	}
	prev, dots, next := controlZones(m.width, len(m.cards))
	row.set(prev, 0, '‹', arrow(m.view.atStart))
	for i, x := range dots {
		if i == m.view.active {
			row.set(x, 0, '●', styleAccent)
		} else {
			row.set(x, 0, '○', styleFaint)
		}
	}
	row.set(next, 0, '›', arrow(m.view.atEnd))
	return row.String()
}

// wrap breaks text into lines of at most width cells.
func wrap(text string, width int) []string {
	if width <= 0 || strings.TrimSpace(text) == "" {
		return nil
	}
	lines := strings.Split(lipgloss.NewStyle().Width(width).Render(text), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return lines
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return ellipsis(s, width)
}

func ellipsis(s string, width int) string {
	r := []rune(s)
	if width <= 0 {
		return ""
	}
	if len(r) >= width {
		r = r[:width-1]
	}
	return string(r) + "…"
}
