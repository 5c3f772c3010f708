// Package viz renders a live terminal view of a relaxing spin lattice with a
// magnetization history chart and interactive temperature control.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/spinlab/internal/ising"
	"github.com/san-kum/spinlab/internal/lattice"
	"github.com/san-kum/spinlab/internal/mc"
)

const historyCapacity = 600

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(40)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	upStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	downStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model holds the lattice, the sampler driving it, and UI state.
type Model struct {
	state        *lattice.Grid[bool]
	ising        *ising.Model
	sampler      mc.Sampler
	samplerName  string
	seed         int64
	initialT     float64
	running      bool
	showHelp     bool
	steps        int
	stepsPerTick int
	magHistory   []float64
}

// NewModel builds a live view around a freshly randomized lattice.
func NewModel(state *lattice.Grid[bool], model *ising.Model, sampler mc.Sampler, samplerName string, seed int64) Model {
	state.InitRand(lattice.UniformBool())
	return Model{
		state:        state,
		ising:        model,
		sampler:      sampler,
		samplerName:  samplerName,
		seed:         seed,
		initialT:     model.Params.T,
		running:      true,
		stepsPerTick: state.Rows() * state.Cols(),
		magHistory:   make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and advances the sampler.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "u":
			m.state.Init(true)
		case "d":
			m.state.Init(false)
		case "up", "k":
			m.ising.Params.T *= 1.05
		case "down", "j":
			m.ising.Params.T *= 0.95
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) step() {
	m.sampler.Optimize(m.state, m.stepsPerTick)
	m.steps += m.stepsPerTick

	m.magHistory = append(m.magHistory, ising.AverageSpin(m.state))
	if len(m.magHistory) > historyCapacity {
		m.magHistory = m.magHistory[1:]
	}
}

// reset re-randomizes the lattice and restores the starting temperature.
func (m *Model) reset() {
	m.ising.Params.T = m.initialT
	m.state.SetSeed(m.seed)
	m.sampler.SetSeed(m.seed + 2)
	m.state.InitRand(lattice.UniformBool())
	m.steps = 0
	m.magHistory = m.magHistory[:0]
}

func (m Model) renderLattice() string {
	var sb strings.Builder
	for r := 0; r < m.state.Rows(); r++ {
		for c := 0; c < m.state.Cols(); c++ {
			if m.state.At(r, c) {
				sb.WriteString(upStyle.Render("██"))
			} else {
				sb.WriteString(downStyle.Render("░░"))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// View renders the lattice next to a stats panel.
func (m Model) View() string {
	canvasView := canvasStyle.Render(m.renderLattice())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.samplerName)+" SAMPLER") + "\n")
	if m.running {
		s.WriteString("RUNNING\n\n")
	} else {
		s.WriteString("PAUSED\n\n")
	}

	if len(m.magHistory) > 1 {
		chart := asciigraph.Plot(m.magHistory, asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("Magnetization"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	tc := m.ising.Tc()
	s.WriteString(labelStyle.Render("Steps") + valueStyle.Render(fmt.Sprintf("%d", m.steps)) + "\n")
	s.WriteString(labelStyle.Render("T") + valueStyle.Render(fmt.Sprintf("%.4f", m.ising.Params.T)) + "\n")
	s.WriteString(labelStyle.Render("T/Tc") + valueStyle.Render(fmt.Sprintf("%.4f", m.ising.Params.T/tc)) + "\n")
	s.WriteString(labelStyle.Render("<s>") + valueStyle.Render(fmt.Sprintf("%+.4f", ising.AverageSpin(m.state))) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.1f", m.ising.Energy(m.state))) + "\n")

	if hb, ok := m.sampler.(*mc.HeatBath); ok {
		s.WriteString(labelStyle.Render("Topology") + valueStyle.Render(hb.Topology().String()) + "\n")
	}

	s.WriteString(helpStyle.Render("\n────────────────────\nSP:Pause R:Reset Q:Quit\nU/D:All-up/down ↑↓:Temp ?:Help"))

	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume sampling    ║
║  R        - Reset to random lattice  ║
║  U        - Start from all spins up  ║
║  D        - Start from all spins down║
║  Up/K     - Raise temperature (+5%)  ║
║  Down/J   - Lower temperature (-5%)  ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Run starts the interactive viewer and blocks until it exits.
func Run(m Model) error {
	p := tea.NewProgram(m)
	_, err := p.Run()
	return err
}
