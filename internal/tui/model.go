// Package tui is the interactive terminal timeline: a Bubble Tea program
// that feeds mouse and keyboard input to the gesture controller and draws
// the tick axis, weekend shading and moment cards of one timeline.
package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"

	"github.com/runnerr0/momentline/internal/canvas"
	"github.com/runnerr0/momentline/internal/gesture"
	"github.com/runnerr0/momentline/internal/layout"
	"github.com/runnerr0/momentline/internal/logging"
	"github.com/runnerr0/momentline/internal/storage"
	"github.com/runnerr0/momentline/internal/ticks"
)

// Screen rows: one title line, then tick labels, the axis line and the
// weekend band row, then cards, then the footer.
const (
	titleRows   = 1
	axisRows    = 3
	footerRows  = 1
	cardTop     = titleRows + axisRows
	wheelPixels = 40.0
)

// Options configure a viewer.
type Options struct {
	Store     storage.Store
	Canvas    *canvas.State
	Location  *time.Location
	CellWidth float64 // pixels per terminal column
	Now       func() time.Time
}

type frameMsg time.Time

// cardDrag tracks a card being dragged. preview is a scratch engine that
// shows where neighbours would be pushed; nothing is persisted until drop.
type cardDrag struct {
	id      string
	fromY   float64
	row     int
	y       float64
	preview *layout.Engine
}

// cardBox is where a card lands on screen, in terminal cells.
type cardBox struct {
	moment layout.Moment
	row    int
	col    int
	width  int
	height int
}

// Model is the Bubble Tea model of the timeline viewer.
type Model struct {
	store    storage.Store
	canvas   *canvas.State
	gestures *gesture.Controller
	engine   *layout.Engine
	axis     *ticks.Generator
	now      func() time.Time

	cellWidth  float64
	cols, rows int
	scrollY    float64

	loadedTimeline       string
	loadedFrom, loadedTo time.Time

	drag      *cardDrag
	ticking   bool
	lastFrame time.Time
	notice    string
	ready     bool
}

// New builds a viewer around an existing canvas.
func New(opts Options) *Model {
	m := &Model{
		store:     opts.Store,
		canvas:    opts.Canvas,
		now:       opts.Now,
		cellWidth: opts.CellWidth,
		axis:      ticks.NewGenerator(opts.Location),
	}
	if m.cellWidth <= 0 {
		m.cellWidth = 8
	}
	if m.now == nil {
		m.now = time.Now
	}
	var persister layout.Persister
	if opts.Store != nil {
		persister = storage.LayoutPersister{Store: opts.Store}
	}
	m.engine = layout.NewEngine(layout.WithPersister(persister))
	m.gestures = gesture.NewController(opts.Canvas, gesture.OnVerticalScroll(m.scroll))
	return m
}

// rowPixels is the height of a terminal row in canvas pixels.
func (m *Model) rowPixels() float64 { return 2 * m.cellWidth }

func (m *Model) scroll(dy float64) { m.scrollY += dy }

func (m *Model) Init() tea.Cmd {
	logging.Debugf("tui: viewer started on timeline %q", m.canvas.TimelineID())
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
		m.canvas.SetViewportWidth(float64(m.cols) * m.cellWidth)
		m.ready = true
	case tea.KeyMsg:
		if m.updateKey(msg) {
			return m, tea.Quit
		}
	case tea.MouseMsg:
		m.updateMouse(msg)
	case frameMsg:
		return m, m.frame(time.Time(msg))
	}

	m.reload()
	return m, m.scheduleFrame()
}

// updateKey handles a key press and reports whether the viewer should quit.
func (m *Model) updateKey(msg tea.KeyMsg) bool {
	m.notice = ""
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	case "+", "=":
		m.gestures.StepZoom(-1)
	case "-", "_":
		m.gestures.StepZoom(1)
	case "s":
		m.gestures.Snap()
	case "left", "h":
		m.canvas.PanPixels(m.panStep())
	case "right", "l":
		m.canvas.PanPixels(-m.panStep())
	case "up", "k":
		m.scroll(-m.rowPixels())
	case "down", "j":
		m.scroll(m.rowPixels())
	case "t":
		m.canvas.JumpTo(m.now())
	}
	return false
}

func (m *Model) panStep() float64 {
	return float64(m.cols) / 4 * m.cellWidth
}

func (m *Model) point(x, y int) gesture.Point {
	return gesture.Point{X: (float64(x) + 0.5) * m.cellWidth, Y: float64(y) * m.rowPixels()}
}

func (m *Model) updateMouse(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.gestures.Wheel(gesture.WheelEvent{DeltaY: -wheelPixels, Zoom: msg.Ctrl})
		return
	case tea.MouseButtonWheelDown:
		m.gestures.Wheel(gesture.WheelEvent{DeltaY: wheelPixels, Zoom: msg.Ctrl})
		return
	case tea.MouseButtonWheelLeft:
		m.gestures.Wheel(gesture.WheelEvent{DeltaX: -wheelPixels})
		return
	case tea.MouseButtonWheelRight:
		m.gestures.Wheel(gesture.WheelEvent{DeltaX: wheelPixels})
		return
	}

	ev := gesture.PointerEvent{Kind: gesture.Mouse, Points: []gesture.Point{m.point(msg.X, msg.Y)}}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if box, ok := m.cardAt(msg.X, msg.Y); ok {
			m.loadNeighbours(box.moment)
			m.drag = &cardDrag{id: box.moment.ID, fromY: box.moment.Y, row: msg.Y, y: box.moment.Y}
			return
		}
		m.gestures.PointerDown(ev)
	case tea.MouseActionMotion:
		if m.drag != nil {
			m.dragTo(m.drag.fromY + float64(msg.Y-m.drag.row)*m.rowPixels())
			return
		}
		if m.gestures.State() != gesture.Idle {
			m.gestures.PointerMove(ev)
		}
	case tea.MouseActionRelease:
		if m.drag != nil {
			m.dropCard()
			return
		}
		m.gestures.PointerUp(ev)
	}
}

// loadNeighbours adds every stored card that mo can push and that the
// engine does not hold yet. Cards already loaded keep their in-memory y.
func (m *Model) loadNeighbours(mo layout.Moment) {
	if m.store == nil {
		return
	}
	near, err := m.store.ListMoments(context.Background(), storage.MomentQuery{
		TimelineID: mo.TimelineID,
		Since:      mo.Timestamp.Add(-layout.OverlapWindow),
		Until:      mo.Timestamp.Add(layout.OverlapWindow),
		Limit:      math.MaxInt32,
	})
	if err != nil {
		logging.Errorf("tui: load neighbours of %s: %v", mo.ID, err)
		return
	}
	for _, n := range near {
		if _, ok := m.engine.Moment(n.ID); !ok {
			m.engine.Upsert(n.Layout())
		}
	}
}

// dragTo recomputes the pushes for the dragged card at y against the
// positions from before the drag.
func (m *Model) dragTo(y float64) {
	d := m.drag
	if y == d.y {
		return
	}
	d.y = y
	if y == d.fromY {
		d.preview = nil
		return
	}
	if d.preview == nil {
		d.preview = layout.NewEngine()
	}
	d.preview.Load(m.engine.Moments())
	if _, err := d.preview.MoveTo(context.Background(), d.id, y); err != nil {
		logging.Debugf("tui: preview move %s: %v", d.id, err)
	}
}

func (m *Model) dropCard() {
	d := m.drag
	m.drag = nil
	if d.y == d.fromY {
		return
	}
	placements, err := m.engine.MoveTo(context.Background(), d.id, d.y)
	if err != nil {
		logging.Errorf("tui: move %s: %v", d.id, err)
		m.notice = err.Error()
		return
	}
	m.notice = fmt.Sprintf("moved %s", d.id)
	if n := len(placements) - 1; n > 0 {
		m.notice += fmt.Sprintf(", pushed %d", n)
	}
	if pairs := m.engine.Overlaps(); len(pairs) > 0 {
		logging.Warnf("tui: %d card pairs still overlap after moving %s", len(pairs), d.id)
		m.notice += fmt.Sprintf(" (%d overlaps remain)", len(pairs))
	}
}

func (m *Model) scheduleFrame() tea.Cmd {
	if !m.gestures.Settling() || m.ticking {
		return nil
	}
	m.ticking = true
	m.lastFrame = time.Time{}
	return nextFrame()
}

func nextFrame() tea.Cmd {
	return tea.Tick(gesture.FrameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// frame advances the settle animation by the wall time since the last frame.
func (m *Model) frame(t time.Time) tea.Cmd {
	if !m.ticking {
		return nil
	}
	dt := gesture.FrameInterval
	if !m.lastFrame.IsZero() {
		dt = t.Sub(m.lastFrame)
	}
	m.lastFrame = t
	if m.gestures.Tick(dt) {
		return nextFrame()
	}
	m.ticking = false
	m.reload()
	return nil
}

// reload fetches the timeline's moments once the view leaves the loaded
// range. The loaded range pads the visible window on each side by one
// window or OverlapWindow, whichever is longer.
func (m *Model) reload() {
	if !m.ready || m.store == nil || m.drag != nil {
		return
	}
	start, end := m.canvas.View().Window()
	tl := m.canvas.TimelineID()
	// Any visible card may push neighbours up to OverlapWindow away, so
	// those must be loaded too.
	if tl == m.loadedTimeline &&
		!start.Add(-layout.OverlapWindow).Before(m.loadedFrom) &&
		!end.Add(layout.OverlapWindow).After(m.loadedTo) {
		return
	}

	pad := max(end.Sub(start), layout.OverlapWindow)
	from, to := start.Add(-pad), end.Add(pad)
	moments, err := m.store.ListMoments(context.Background(), storage.MomentQuery{
		TimelineID: tl,
		Since:      from,
		Until:      to,
		Limit:      math.MaxInt32,
	})
	if err != nil {
		logging.Errorf("tui: load moments: %v", err)
		m.notice = "load failed: " + err.Error()
		return
	}
	m.engine.Load(storage.LayoutMoments(moments))
	m.loadedTimeline, m.loadedFrom, m.loadedTo = tl, from, to
	logging.Debugf("tui: loaded %d moments for %s", len(moments), tl)
}

// cards places every loaded moment in screen cells. During a drag the
// preview layout is drawn instead.
func (m *Model) cards() []cardBox {
	view := m.canvas.View()
	src := m.engine
	if m.drag != nil && m.drag.preview != nil {
		src = m.drag.preview
	}
	var out []cardBox
	for _, mo := range src.Moments() {
		size, err := src.SizeOf(mo.ID)
		if err != nil {
			continue
		}
		col := int(math.Floor(view.TimeToX(mo.Timestamp) / m.cellWidth))
		width := int(size.Width / m.cellWidth)
		if mo.EndTime != nil {
			if end := int(math.Floor(view.TimeToX(*mo.EndTime) / m.cellWidth)); end-col > width {
				width = end - col
			}
		}
		if width < 3 {
			width = 3
		}
		height := int(math.Ceil(size.Height / m.rowPixels()))
		if height < 1 {
			height = 1
		}
		out = append(out, cardBox{
			moment: mo,
			row:    cardTop + int(math.Floor((mo.Y-m.scrollY)/m.rowPixels())),
			col:    col,
			width:  width,
			height: height,
		})
	}
	return out
}

// cardAt returns the topmost card covering screen cell (x, y).
func (m *Model) cardAt(x, y int) (cardBox, bool) {
	if y < cardTop {
		return cardBox{}, false
	}
	boxes := m.cards()
	for i := len(boxes) - 1; i >= 0; i-- {
		b := boxes[i]
		if y >= b.row && y < b.row+b.height && x >= b.col && x < b.col+b.width {
			return b, true
		}
	}
	return cardBox{}, false
}

func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}
	g := m.renderBody()
	lines := make([]string, 0, m.rows)
	lines = append(lines, headerStyle.Render(truncate.StringWithTail(m.title(), uint(m.cols), "…")))
	for r := range g.rows {
		lines = append(lines, g.render(r))
	}
	lines = append(lines, m.footer())
	return strings.Join(lines, "\n")
}

func (m *Model) title() string {
	view := m.canvas.View()
	axis := m.axis.Generate(view)
	when := axis.DateLabel
	if when == "" {
		when = view.Center.In(m.axis.Location()).Format("Jan 2006")
	}
	state := m.gestures.State().String()
	if m.gestures.Settling() {
		state += ", settling"
	}
	return fmt.Sprintf("momentline · %s · %s · %s · %s", m.canvas.TimelineID(), axis.Unit, when, state)
}

func (m *Model) footer() string {
	if m.notice != "" {
		return noticeStyle.Render(truncate.StringWithTail(m.notice, uint(m.cols), "…"))
	}
	help := "(q)uit  drag:pan/move card  wheel:pan  ctrl+wheel:zoom  (+/-)zoom  (s)nap  (←/→)pan  (↑/↓)scroll  (t)oday"
	return footerStyle.Render(truncate.StringWithTail(help, uint(m.cols), "…"))
}

// renderBody draws everything between the title and the footer.
func (m *Model) renderBody() *grid {
	bodyRows := m.rows - titleRows - footerRows
	if bodyRows < axisRows {
		bodyRows = axisRows
	}
	g := newGrid(m.cols, bodyRows)
	view := m.canvas.View()
	axis := m.axis.Generate(view)

	const labelRow, lineRow, bandRow = 0, 1, 2
	g.fill(lineRow, 0, m.cols, "─", kindAxis)

	for _, b := range axis.Bands {
		from := int(math.Floor(view.TimeToX(b.Start) / m.cellWidth))
		to := int(math.Floor(view.TimeToX(b.End) / m.cellWidth))
		g.fill(bandRow, from, to, "░", kindWeekend)
	}

	for _, t := range axis.Ticks {
		col := int(math.Floor(t.X / m.cellWidth))
		kind := kindAxis
		if t.Priority >= ticks.PriorityMonth {
			kind = kindMajor
		}
		g.put(labelRow, col, t.Label, kind)
		g.put(lineRow, col, "┼", kind)
	}

	if now := view.TimeToX(m.now()); now >= 0 && now < view.Width {
		g.put(lineRow, int(now/m.cellWidth), "◆", kindNow)
	}

	for _, b := range m.cards() {
		m.drawCard(g, b)
	}

	for _, b := range axis.Bands {
		from := int(math.Floor(view.TimeToX(b.Start) / m.cellWidth))
		to := int(math.Floor(view.TimeToX(b.End) / m.cellWidth))
		for r := axisRows; r < bodyRows; r++ {
			g.shade(r, from, to, kindWeekend)
		}
	}
	return g
}

func (m *Model) drawCard(g *grid, b cardBox) {
	kind, noteKind := kindCard, kindNote
	if m.drag != nil && m.drag.id == b.moment.ID {
		kind, noteKind = kindDrag, kindDrag
	}

	row := b.row - titleRows
	if row < axisRows {
		return
	}
	g.fill(row, b.col, b.col+b.width, " ", kind)
	title := truncate.StringWithTail(b.moment.Title, uint(b.width-2), "…")
	g.put(row, b.col, "● "+title, kind)

	var notes []string
	if note := strings.TrimSpace(b.moment.Note); note != "" {
		notes = strings.Split(note, "\n")
	}
	for i := 1; i < b.height; i++ {
		g.fill(row+i, b.col, b.col+b.width, " ", noteKind)
		if i-1 < len(notes) {
			line := truncate.StringWithTail(strings.TrimSpace(notes[i-1]), uint(b.width-2), "…")
			g.put(row+i, b.col+2, line, noteKind)
		}
	}
}

// Close stops any running animation.
func (m *Model) Close() {
	m.gestures.Close()
}

// Save stores the canvas view so the next session opens where this one
// ended.
func (m *Model) Save(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	snap := m.canvas.Snapshot()
	return m.store.SaveCanvas(ctx, storage.CanvasSnapshot{
		TimelineID: snap.TimelineID,
		Center:     snap.Center,
		MsPerPixel: snap.MsPerPixel,
	})
}

// Run starts the viewer and blocks until it quits, then saves the view.
func Run(ctx context.Context, opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	m.Close()

	if serr := m.Save(ctx); serr != nil {
		logging.Errorf("tui: save canvas: %v", serr)
		if err == nil {
			err = fmt.Errorf("save canvas: %w", serr)
		}
	}
	return err
}
