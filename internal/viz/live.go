package viz

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/motion/internal/scheduler"
)

const (
	canvasWidth     = 40
	canvasHeight    = 12
	historyCapacity = 240
)

var modelIDs atomic.Int64

// TickMsg drives one UI frame of the live model that scheduled it.
type TickMsg struct {
	id   int64
	Time time.Time
}

// Model is the live preview. It is the host frame source for the animation:
// each tick pumps source once, then samples the player.
type Model struct {
	id       int64
	name     string
	kind     string
	columns  []string
	player   Player
	source   *scheduler.ManualSource
	interval time.Duration

	frame   Frame
	history [][]float64
	speeds  []float64
	trail   [][]float64
	frames  int
	ticks   int

	canvas   *Canvas
	camera   *Camera
	theme    Theme
	showHelp bool
	err      error
}

// NewModel builds a live preview for player, which must draw its frames from
// source. columns names the value components.
func NewModel(name, kind string, columns []string, source *scheduler.ManualSource, player Player) Model {
	return Model{
		id:       modelIDs.Add(1),
		name:     name,
		kind:     kind,
		columns:  columns,
		player:   player,
		source:   source,
		interval: time.Second / 60,
		frame:    player.Frame(),
		history:  make([][]float64, len(columns)),
		canvas:   NewCanvas(canvasWidth, canvasHeight),
		camera:   NewCamera(),
		theme:    Themes[0],
	}
}

// WithInterval sets the UI frame period.
func (m Model) WithInterval(d time.Duration) Model {
	if d > 0 {
		m.interval = d
	}
	return m
}

func (m Model) WithTheme(t Theme) Model {
	m.theme = t
	return m
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	id := m.id
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg{id: id, Time: t} })
}

// Update handles input and advances the animation on ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.player.Stop()
			return m, tea.Quit
		case "r":
			m.replay()
		case "s":
			m.player.Stop()
		case "t":
			m.theme = m.theme.next()
		case "?":
			m.showHelp = !m.showHelp
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		}
	case TickMsg:
		if msg.id != m.id {
			return m, nil
		}
		m.step()
		return m, m.tick()
	}
	return m, nil
}

// step pumps one host frame and records the resulting sample.
func (m *Model) step() {
	m.ticks += m.source.Pump()
	m.frames++
	m.observe(m.player.Frame())
}

func (m *Model) observe(f Frame) {
	m.frame = f
	for i := range m.history {
		if i < len(f.Values) {
			m.history[i] = appendCapped(m.history[i], f.Values[i])
		}
	}
	m.speeds = appendCapped(m.speeds, f.Speed())
	m.trail = append(m.trail, f.Values)
	if len(m.trail) > historyCapacity {
		m.trail = m.trail[1:]
	}
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

func (m *Model) replay() {
	m.err = m.player.Replay()
	for i := range m.history {
		m.history[i] = m.history[i][:0]
	}
	m.speeds = m.speeds[:0]
	m.trail = m.trail[:0]
	m.frames, m.ticks = 0, 0
	m.frame = m.player.Frame()
}

// Stop halts the animation. The picker calls it when leaving the view.
func (m Model) Stop() { m.player.Stop() }

func (m Model) View() string {
	p := paletteFor(m.theme)

	var s strings.Builder
	s.WriteString(p.header.Render(strings.ToUpper(m.name)+"  "+m.kind) + "\n")
	s.WriteString(p.phase(m.frame.Phase))
	if m.frame.Loops > 0 {
		s.WriteString(p.muted.Render(fmt.Sprintf("  loop %d", m.frame.Loops)))
	}
	s.WriteString("\n\n")

	for i, name := range m.columns {
		v, target := 0.0, 0.0
		if i < len(m.frame.Values) {
			v = m.frame.Values[i]
		}
		if i < len(m.frame.Target) {
			target = m.frame.Target[i]
		}
		s.WriteString(p.label.Render(name) + p.value.Render(fmt.Sprintf("%9.3f", v)) +
			p.muted.Render(fmt.Sprintf("  → %.3f", target)) + "\n")
	}
	s.WriteString(p.label.Render("progress") + ProgressBar(clamp01(m.frame.Progress), 20, m.theme) +
		p.value.Render(fmt.Sprintf(" %3.0f%%", m.frame.Progress*100)) + "\n")
	s.WriteString(p.label.Render("speed") + p.value.Render(Sparkline(m.speeds, 30)) + "\n")
	s.WriteString(p.label.Render("ticks") + p.value.Render(fmt.Sprintf("%d/%d frames", m.ticks, m.frames)) + "\n")
	if m.err != nil {
		s.WriteString("\n" + p.err.Render(m.err.Error()) + "\n")
	}
	s.WriteString("\n" + Separator(40, m.theme) + "\n")
	s.WriteString(p.muted.Render("R:Replay S:Stop T:Theme ?:Help Q:Quit"))
	stats := s.String()

	view := lipgloss.JoinHorizontal(lipgloss.Top, p.panel.Render(m.preview()), "  ", stats)
	if chart := m.chart(); chart != "" {
		view += "\n" + p.graph.Render(chart)
	}
	if m.showHelp {
		return helpText + "\n\n" + view
	}
	return view
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  R        - Replay from the start    ║
║  S        - Stop where it is         ║
║  T        - Cycle themes             ║
║  X/Y      - Rotate 3D view           ║
║  +/-      - Zoom 3D view             ║
║  Esc      - Back to presets          ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// preview draws the current value: a swatch for colors, a path for vectors
// and a track for everything else.
func (m Model) preview() string {
	if m.frame.Hex != "" {
		return Swatch(m.frame.Hex, canvasWidth/2, canvasHeight/2) + "\n" + m.frame.Hex
	}

	m.canvas.Clear()
	switch dims := len(m.frame.Values); {
	case dims >= 3 && m.kind == "vec":
		path := make([]Vec3, 0, len(m.trail))
		for _, v := range m.trail {
			if len(v) >= 3 {
				path = append(path, Vec3{X: v[0], Y: v[1], Z: v[2]})
			}
		}
		DrawPath3D(m.canvas, m.camera, path)
	case dims >= 2:
		m.drawPlane()
	case dims == 1:
		m.drawTrack()
	}
	return m.canvas.String()
}

// drawPlane plots the trail of the first two components with the target
// marked.
func (m Model) drawPlane() {
	trail := make([][2]float64, 0, len(m.trail))
	for _, v := range m.trail {
		if len(v) >= 2 {
			trail = append(trail, [2]float64{v[0], v[1]})
		}
	}
	points := trail
	if len(m.frame.Target) >= 2 {
		points = append(points, [2]float64{m.frame.Target[0], m.frame.Target[1]})
	}
	vp := Fit(points, 0.1)

	if len(m.frame.Target) >= 2 {
		tx, ty := vp.Map(m.canvas, m.frame.Target[0], m.frame.Target[1])
		m.canvas.Cross(tx, ty)
	}
	for i := 1; i < len(trail); i++ {
		x0, y0 := vp.Map(m.canvas, trail[i-1][0], trail[i-1][1])
		x1, y1 := vp.Map(m.canvas, trail[i][0], trail[i][1])
		m.canvas.DrawLine(x0, y0, x1, y1)
	}
}

// drawTrack shows a scalar as a dot on a horizontal rail.
func (m Model) drawTrack() {
	points := make([][2]float64, 0, len(m.trail)+1)
	for _, v := range m.trail {
		if len(v) > 0 {
			points = append(points, [2]float64{v[0], 0})
		}
	}
	if len(m.frame.Target) > 0 {
		points = append(points, [2]float64{m.frame.Target[0], 0})
	}
	vp := Fit(points, 0.1)

	w, h := m.canvas.Dots()
	m.canvas.DrawLine(0, h/2, w-1, h/2)
	if len(m.frame.Target) > 0 {
		tx, _ := vp.Map(m.canvas, m.frame.Target[0], 0)
		m.canvas.DrawLine(tx, h/2-4, tx, h/2+4)
	}
	if len(m.frame.Values) > 0 {
		x, _ := vp.Map(m.canvas, m.frame.Values[0], 0)
		for dx := -1; dx <= 1; dx++ {
			m.canvas.DrawLine(x+dx, h/2-2, x+dx, h/2+2)
		}
	}
}

func (m Model) chart() string {
	series := make([][]float64, 0, len(m.history))
	for _, h := range m.history {
		if len(h) > 1 {
			series = append(series, h)
		}
	}
	if len(series) == 0 {
		return ""
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Caption(strings.Join(m.columns, ", ")),
	)
}

func clamp01(v float64) float64 {
	return max(0, min(v, 1))
}
