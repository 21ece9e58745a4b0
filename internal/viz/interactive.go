package viz

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fission/internal/config"
)

var (
	menuTitle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuActive  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuDesc    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuItem    = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuItemDim = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	menuKey     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

const (
	stateMenu = iota
	stateSim
)

// picker lists the presets and hands over to a live Model once one is chosen.
type picker struct {
	state, cursor int
	presets       []string
	seed          int64
	logger        *slog.Logger
	live          Model
	err           error
}

func newPicker(seed int64, logger *slog.Logger) picker {
	return picker{presets: config.ListPresets(), seed: seed, logger: logger}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		return m.start()
	}
	return m, nil
}

func (m picker) start() (tea.Model, tea.Cmd) {
	name := m.presets[m.cursor]
	cfg, err := config.GetPreset(name)
	if err != nil {
		m.err = err
		return m, nil
	}
	cfg.Seed = m.seed

	live, err := NewModel(cfg, name, m.logger)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.live, m.state = live, stateSim
	return m, live.Init()
}

func (m picker) View() string {
	if m.state == stateSim {
		return m.live.View()
	}

	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("FISSION") + "\n    " + menuSub.Render("chain reaction sandbox") + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := config.Presets[name].Description
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-10s", name)), menuDesc.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", menuItem.Render(fmt.Sprintf("  %-10s", name)), menuItemDim.Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + StatusRec.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + menuKey.Render("j/k") + menuItem.Render(" navigate  ") + menuKey.Render("enter") + menuItem.Render(" select  ") + menuKey.Render("q") + menuItem.Render(" quit") + "\n")
	return b.String()
}

// RunInteractive opens the preset picker.
func RunInteractive(seed int64, logger *slog.Logger) error {
	_, err := tea.NewProgram(newPicker(seed, logger), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
