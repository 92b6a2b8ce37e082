package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/heatslab/internal/metrics"
	"github.com/san-kum/heatslab/internal/scheme"
)

const (
	plotWidth       = 60
	plotHeight      = 14
	historyCapacity = 2000
	maxSpeed        = 64
)

// Snapshot is one recorded time level for replay.
type Snapshot struct {
	Level   int
	Profile []float64
}

type TickMsg time.Time

// Model marches a scheme in time and shows the evolving profile.
type Model struct {
	stepper  scheme.Stepper
	monitors []metrics.Monitor
	title    string
	steps    int
	running  bool
	done     bool
	speed    int
	err      error
	interval time.Duration

	meanHistory []float64
	history     []Snapshot
	playHead    int
}

// NewModel wraps a stepper. Monitors observe every level, including t = 0.
func NewModel(st scheme.Stepper, monitors ...metrics.Monitor) Model {
	m := Model{
		stepper:  st,
		monitors: monitors,
		title:    scheme.Title(st.Name()),
		steps:    st.Params().Steps(),
		running:  true,
		speed:    1,
		interval: time.Second / 30,
		playHead: -1,
	}
	m.reset()
	return m
}

// WithInterval sets the redraw period.
func (m Model) WithInterval(d time.Duration) Model {
	if d > 0 {
		m.interval = d
	}
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and advances the scheme.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
			m.running = true
		case "+", "=":
			m.speed = min(m.speed*2, maxSpeed)
		case "-", "_":
			m.speed = max(m.speed/2, 1)
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		}
	case TickMsg:
		if m.running && m.playHead == -1 {
			for i := 0; i < m.speed && !m.done; i++ {
				m.step()
			}
		}
		return m, m.tick()
	}
	return m, nil
}

// step advances one level; the model stops at the final level.
func (m *Model) step() {
	if m.done {
		return
	}
	if err := m.stepper.Step(); err != nil {
		m.err = err
		m.done = true
		m.running = false
		return
	}
	m.record()
	if m.stepper.Level() >= m.steps {
		m.done = true
		m.running = false
	}
}

func (m *Model) record() {
	u := m.stepper.Solution()
	level := m.stepper.Level()
	for _, mon := range m.monitors {
		mon.Observe(level, u)
	}

	m.meanHistory = append(m.meanHistory, meanOf(u))
	if len(m.meanHistory) > historyCapacity {
		m.meanHistory = m.meanHistory[1:]
	}
	m.history = append(m.history, Snapshot{Level: level, Profile: u})
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

// scrub moves the playback position through recorded levels.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// reset restores t = 0.
func (m *Model) reset() {
	m.stepper.Reset()
	for _, mon := range m.monitors {
		mon.Reset()
	}
	m.meanHistory = m.meanHistory[:0]
	m.history = m.history[:0]
	m.playHead = -1
	m.done = m.steps == 0
	m.err = nil
	m.record()
}

// Level is the level on screen, which differs from the scheme's during replay.
func (m Model) Level() int {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead].Level
	}
	return m.stepper.Level()
}

func (m Model) Done() bool { return m.done }

func (m Model) Err() error { return m.err }

func (m Model) current() []float64 {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead].Profile
	}
	if n := len(m.history); n > 0 {
		return m.history[n-1].Profile
	}
	return m.stepper.Solution()
}

// View renders the profile next to a stats panel.
func (m Model) View() string {
	p := m.stepper.Params()
	u := m.current()
	level := m.Level()

	caption := fmt.Sprintf("%s  t = %.3f h", m.title, float64(level)*p.Dt)
	graph := PlotProfile(u, caption, plotWidth, plotHeight)
	if graph == "" {
		graph = statusDiverge.Render("profile is no longer finite")
	}
	graphView := graphStyle.Render(graph)

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n\n")
	s.WriteString(m.status() + "\n\n")

	progress := 1.0
	if m.steps > 0 {
		progress = float64(level) / float64(m.steps)
	}
	s.WriteString(ProgressBar(progress, 24) + "\n\n")

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Level", fmt.Sprintf("%d / %d", level, m.steps))
	row("Time", fmt.Sprintf("%.3f h", float64(level)*p.Dt))
	row("r", fmt.Sprintf("%.4f", p.R()))
	row("Speed", fmt.Sprintf("%dx", m.speed))
	lo, hi := bounds(u)
	row("Min", fmt.Sprintf("%.2f", lo))
	row("Max", fmt.Sprintf("%.2f", hi))
	for _, mon := range m.monitors {
		row(shortName(mon.Name()), fmt.Sprintf("%.2f", mon.Value()))
	}
	if m.err != nil {
		row("Error", m.err.Error())
	}

	s.WriteString("\n" + SparklineChart(m.meanHistory, 30) + "\n")
	s.WriteString(keyHint.Render("mean temperature") + "\n")
	s.WriteString(keyHint.Render("\nSP:Pause R:Restart Q:Quit\n+/-:Speed [ ]:Replay"))

	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, graphView, statsView)
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return statusDiverge.Render("FAILED")
	case m.playHead != -1:
		return statusPaused.Render(fmt.Sprintf("REPLAY (level %d)", m.Level()))
	case m.done:
		return statusRunning.Render("DONE")
	case !m.running:
		return statusPaused.Render("PAUSED")
	}
	for _, mon := range m.monitors {
		if d, ok := mon.(*metrics.Divergence); ok && d.Diverged() {
			return statusDiverge.Render("DIVERGING")
		}
	}
	return statusRunning.Render("RUNNING")
}

func meanOf(u []float64) float64 {
	mt := metrics.NewMeanTemperature()
	mt.Observe(0, u)
	return mt.Value()
}

func bounds(u []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range u {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func shortName(name string) string {
	if len(name) > 11 {
		return name[:11]
	}
	return name
}

// Run starts the program on the alternate screen and blocks until it exits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
