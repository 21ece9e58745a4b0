package viz

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fission/internal/config"
	"github.com/san-kum/fission/internal/control"
	"github.com/san-kum/fission/internal/economy"
	"github.com/san-kum/fission/internal/entity"
	"github.com/san-kum/fission/internal/event"
	"github.com/san-kum/fission/internal/round"
	"github.com/san-kum/fission/internal/sim"
)

const (
	canvasCols      = 80
	canvasRows      = 24
	historyCapacity = 600
	logCapacity     = 6

	// Terminal offset of the first canvas cell, from canvasStyle padding.
	originX = 2
	originY = 1
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model drives a Simulation from real time and renders it.
type Model struct {
	sim    *sim.Simulation
	ledger *economy.Ledger
	cfg    *config.Config
	name   string
	now    func() time.Time

	width, height float64
	canvas        *Canvas
	theme         Theme
	frame         sim.Frame

	running  bool
	paused   time.Duration
	pausedAt time.Time

	chainHistory []float64
	banked       []float64
	log          []string

	recorder *Recorder
	showHelp bool
}

// NewModel builds a viewer for cfg. The ledger starts from the configured
// upgrades and rank and persists across rounds.
func NewModel(cfg *config.Config, name string, logger *slog.Logger) (Model, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ledger := cfg.Ledger()
	s, err := sim.New(cfg.SimConfig(), ledger, sim.WithLogger(logger))
	if err != nil {
		return Model{}, err
	}

	sc := s.Config()
	return Model{
		sim:          s,
		ledger:       ledger,
		cfg:          cfg,
		name:         name,
		now:          time.Now,
		width:        sc.Spawn.Width,
		height:       sc.Spawn.Height,
		canvas:       NewCanvas(canvasCols, canvasRows),
		theme:        ThemeReactor,
		running:      true,
		chainHistory: make([]float64, 0, historyCapacity),
		log:          make([]string, 0, logCapacity),
	}, nil
}

func (m Model) Init() tea.Cmd { return tick() }

// Simulation exposes the driven simulation.
func (m Model) Simulation() *sim.Simulation { return m.sim }

// clock maps wall time to simulation time, excluding paused spans.
func (m *Model) clock(t time.Time) time.Time { return t.Add(-m.paused) }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "s":
			m.start()
		case " ":
			m.togglePause()
		case "r":
			m.reset()
		case "c":
			m.assist()
		case "t":
			m.theme = NextTheme(m.theme.Name)
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if p, ok := m.toPlayfield(msg.X, msg.Y); ok {
				m.click(p)
			}
		}
	case TickMsg:
		if m.running {
			m.step(m.clock(time.Time(msg)))
		}
		m.draw()
		if m.recorder != nil && m.running {
			m.recorder.Capture(m.canvas)
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) start() {
	if !m.running {
		m.togglePause()
	}
	if m.sim.StartRound(m.clock(m.now())) {
		m.chainHistory = m.chainHistory[:0]
	}
}

func (m *Model) togglePause() {
	if m.running {
		m.pausedAt = m.now()
	} else {
		m.paused += m.now().Sub(m.pausedAt)
	}
	m.running = !m.running
}

func (m *Model) reset() {
	m.sim.Reset()
	m.chainHistory = m.chainHistory[:0]
	m.log = m.log[:0]
	m.sim.FrameInto(&m.frame)
}

// assist clicks the densest cluster of fissile atoms.
func (m *Model) assist() {
	m.sim.FrameInto(&m.frame)
	p, ok := control.DensestPoint(m.frame.Atoms, m.cfg.StrategyParams.ClusterRadius)
	if !ok {
		p = entity.Vec2{X: m.width / 2, Y: m.height / 2}
	}
	m.click(p)
}

func (m *Model) click(p entity.Vec2) {
	if !m.running {
		return
	}
	m.sim.Click(p.X, p.Y, m.clock(m.now()))
}

// toPlayfield maps a terminal cell to the playfield point under its centre.
func (m *Model) toPlayfield(x, y int) (entity.Vec2, bool) {
	cx, cy := x-originX, y-originY
	if cx < 0 || cy < 0 || cx >= m.canvas.Width || cy >= m.canvas.Height {
		return entity.Vec2{}, false
	}
	return entity.Vec2{
		X: (float64(cx) + 0.5) / float64(m.canvas.Width) * m.width,
		Y: (float64(cy) + 0.5) / float64(m.canvas.Height) * m.height,
	}, true
}

func (m *Model) step(now time.Time) {
	evs := m.sim.Tick(now)
	m.sim.FrameInto(&m.frame)

	if m.sim.Live() {
		m.chainHistory = append(m.chainHistory, float64(m.frame.Progress.Chain))
		if len(m.chainHistory) > historyCapacity {
			m.chainHistory = m.chainHistory[1:]
		}
	}
	for _, ev := range evs {
		m.record(ev)
	}
}

// record keeps a short log of the events worth showing.
func (m *Model) record(ev event.Event) {
	var line string
	switch v := ev.(type) {
	case event.RoundStarted:
		line = "round started"
	case event.RoundEnded:
		line = fmt.Sprintf("round over (%s): %d x%d = %d", v.Reason, v.Pending, v.MaxChain, v.Payout)
		m.banked = append(m.banked, float64(v.Payout))
	case event.TimeExtended:
		line = fmt.Sprintf("time +%.1fs", v.Seconds)
	case event.SupernovaBurst:
		line = fmt.Sprintf("supernova: %d neutrons", v.Neutrons)
	case event.BlackHoleCollapsed:
		line = fmt.Sprintf("black hole: %d respawns", v.Respawns)
	case event.RankUp:
		line = fmt.Sprintf("rank up: %d", v.Rank)
	case event.GraceStarted:
		line = "out of clicks"
	case event.ActionRejected:
		line = "click rejected"
	default:
		return
	}
	m.note(line)
}

func (m *Model) note(line string) {
	if len(m.log) == logCapacity {
		m.log = m.log[1:]
	}
	m.log = append(m.log, line)
}

func (m *Model) toggleRecording() {
	if m.recorder == nil {
		m.recorder = NewRecorder(m.theme)
		return
	}
	if err := m.recorder.Save("fission.gif"); err != nil {
		m.note("gif: " + err.Error())
	}
	m.recorder = nil
}

func (m *Model) draw() {
	m.canvas.Clear()
	sc := newScale(m.canvas, m.width, m.height)

	for i := range m.frame.Atoms {
		a := &m.frame.Atoms[i]
		x, y := sc.point(a.Pos.X, a.Pos.Y)
		r := sc.radius(a.Radius)
		col := m.theme.AtomColor(a)
		if a.Well() {
			m.canvas.FillCircle(x, y, max(r/3, 1), col)
		}
		m.canvas.DrawCircle(x, y, r, col)
		if a.MaxHealth > 1 {
			// Inner rings show remaining health.
			for h := 1; h < a.Health && h*2 < r; h++ {
				m.canvas.DrawCircle(x, y, r-h*2, col)
			}
		}
	}
	for _, n := range m.frame.Neutrons {
		x, y := sc.point(n.Pos.X, n.Pos.Y)
		m.canvas.Set(x, y, m.theme.Neutron)
	}

	cw, ch := m.canvas.DotsX(), m.canvas.DotsY()
	m.canvas.DrawLine(0, 0, 0, ch-1, m.theme.Muted)
	m.canvas.DrawLine(cw-1, 0, cw-1, ch-1, m.theme.Muted)
}

func (m Model) status() string {
	switch {
	case !m.running:
		return StatusPaused.Render("PAUSED")
	case m.recorder != nil:
		return StatusRec.Render("● REC")
	case m.frame.Progress.Phase == round.PhaseEnding:
		return StatusPaused.Render("ENDING")
	case m.frame.Progress.Active:
		return StatusRunning.Render("LIVE")
	}
	return StatusIdle.Render("IDLE  (s to start)")
}

func (m Model) View() string {
	p := m.frame.Progress

	var s strings.Builder
	s.WriteString(headerStyle.Render("FISSION · "+strings.ToUpper(m.name)) + "\n")
	s.WriteString(m.status() + "\n\n")

	roundSeconds := m.cfg.Upgrades.RoundSeconds
	if roundSeconds <= 0 {
		roundSeconds = 1
	}
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%5.1fs ", max(p.RemainingTime, 0))+ProgressBar(p.RemainingTime/roundSeconds, 14))
	row("Clicks", fmt.Sprintf("%d", p.RemainingActions))
	row("Chain", fmt.Sprintf("%d (max %d)", p.Chain, p.MaxChain))
	row("Pending", fmt.Sprintf("%d", p.Pending))
	row("Banked", fmt.Sprintf("%d", p.Banked))
	row("Coins", fmt.Sprintf("%d", p.Coins))
	row("Rank", fmt.Sprintf("%d", p.Rank))
	row("Atoms", fmt.Sprintf("%d", len(m.frame.Atoms)))
	row("Neutrons", fmt.Sprintf("%d", len(m.frame.Neutrons)))

	if len(m.chainHistory) > 1 {
		chart := asciigraph.Plot(m.chainHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Chain"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if len(m.banked) > 1 {
		chart := asciigraph.Plot(m.banked, asciigraph.Height(3), asciigraph.Width(30), asciigraph.Caption("Payout per round"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString("\n" + Separator(34) + "\n")
	for _, line := range m.log {
		s.WriteString(logStyle.Render(line) + "\n")
	}
	s.WriteString(helpStyle.Render("S:Start SP:Pause R:Reset C:Assist\nT:Theme G:Record ?:Help Q:Quit\nclick the field to fire"))

	canvasView := canvasStyle.Render(m.canvas.Render())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  S        - Start a round            ║
║  Space    - Pause/Resume             ║
║  R        - Reset the field          ║
║  C        - Click densest cluster    ║
║  Mouse    - Click to fire neutrons   ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// Run opens the viewer on cfg and blocks until it quits.
func Run(cfg *config.Config, name string, logger *slog.Logger) error {
	m, err := NewModel(cfg, name, logger)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
