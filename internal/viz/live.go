package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/impact/internal/collision"
)

const (
	width           = 80
	height          = 16
	historyCapacity = 600
	// Sub-pixel geometry: the baseline sits in the lower third, one
	// meter maps to two braille sub-pixels.
	baselineY      = height*4 - 14
	originX        = 10
	pixelsPerMeter = 2.0
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	mergedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model is the live view. It owns a simulation and feeds it wall-clock
// deltas each tick, clamped to zero while paused.
type Model struct {
	sim      *collision.Simulation
	scenario string
	fps      int

	canvas       *Canvas
	running      bool
	t            float64
	lastTick     time.Time
	momentumHist []float64
	energyHist   []float64
	err          error
}

func NewModel(s *collision.Simulation, scenario string, fps int) Model {
	if fps <= 0 {
		fps = 60
	}
	return Model{
		sim:          s,
		scenario:     scenario,
		fps:          fps,
		canvas:       NewCanvas(width, height),
		running:      true,
		lastTick:     time.Now(),
		momentumHist: make([]float64, 0, historyCapacity),
		energyHist:   make([]float64, 0, historyCapacity),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
			if m.running {
				m.lastTick = time.Now()
			}
		case "r":
			m.sim.Reset()
			m.t = 0
			m.momentumHist = m.momentumHist[:0]
			m.energyHist = m.energyHist[:0]
			m.lastTick = time.Now()
		}
	case TickMsg:
		dt := 0.0
		if m.running {
			dt = time.Since(m.lastTick).Seconds()
		}
		m.lastTick = time.Now()

		if err := m.sim.Update(dt); err != nil {
			m.err = err
			return m, tea.Quit
		}
		m.t += dt

		m.momentumHist = appendCapped(m.momentumHist, m.sim.Momentum())
		m.energyHist = appendCapped(m.energyHist, m.sim.KineticEnergy())

		return m, m.tick()
	}
	return m, nil
}

// Err reports the error that terminated the view, if any.
func (m Model) Err() error {
	return m.err
}

func appendCapped(hist []float64, v float64) []float64 {
	hist = append(hist, v)
	if len(hist) > historyCapacity {
		hist = hist[1:]
	}
	return hist
}

func (m Model) draw() {
	m.canvas.Clear()
	m.canvas.DrawLine(0, baselineY+6, width*2-1, baselineY+6)

	for _, p := range m.sim.Particles() {
		x := originX + int(p.Position*pixelsPerMeter)
		// Radius grows with mass, like the reference renderer's
		// 10+mass circles but at braille scale.
		r := 2 + int(math.Sqrt(p.Mass))
		m.canvas.DrawDisc(x, baselineY, r)
	}
}

func (m Model) View() string {
	m.draw()

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.scenario)) + "\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	if m.sim.Collided() {
		status += "  " + mergedStyle.Render("MERGED")
	}
	s.WriteString(status + "\n")

	s.WriteString(canvasStyle.Render(m.canvas.String()) + "\n")

	if len(m.momentumHist) > 1 {
		chart := asciigraph.Plot(m.momentumHist, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Momentum"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if len(m.energyHist) > 1 {
		chart := asciigraph.Plot(m.energyHist, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString("\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Momentum") + valueStyle.Render(fmt.Sprintf("%.3f kg·m/s", m.sim.Momentum())) + "\n")
	s.WriteString(labelStyle.Render("Kinetic") + valueStyle.Render(fmt.Sprintf("%.3f J", m.sim.KineticEnergy())) + "\n")
	if m.sim.Collided() {
		s.WriteString(labelStyle.Render("Dissipated") + valueStyle.Render(fmt.Sprintf("%.3f J", m.sim.EnergyLost())) + "\n")
	}

	for i, p := range m.sim.Particles() {
		line := fmt.Sprintf("m=%.1f kg  v=%.2f m/s  x=%.2f m", p.Mass, p.Velocity, p.Position)
		s.WriteString(labelStyle.Render(fmt.Sprintf("Particle %d", i)) + valueStyle.Render(line) + "\n")
	}

	s.WriteString(helpStyle.Render("space pause · r reset · q quit"))
	return s.String()
}
