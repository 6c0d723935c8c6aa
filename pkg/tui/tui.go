// Package tui provides a terminal user interface for marblereplay
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/james-see/marblereplay/pkg/loader"
	"github.com/james-see/marblereplay/pkg/machine"
	"github.com/james-see/marblereplay/pkg/render"
)

// Brass-and-marble color scheme
var (
	brassGold  = lipgloss.Color("#D4A017")
	marbleGray = lipgloss.Color("#C0C0C0")
	steelBlue  = lipgloss.Color("#4682B4")
	darkGray   = lipgloss.Color("#333333")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(brassGold).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(marbleGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(brassGold).
			Bold(true).
			PaddingLeft(2)

	labelStyle = lipgloss.NewStyle().
			Foreground(steelBlue)

	valueStyle = lipgloss.NewStyle().
			Foreground(marbleGray)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6666"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(brassGold).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(brassGold).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateFilePicker
	StateLoading
	StateInspect
	StateResult
)

// MenuItem represents a menu option
type MenuItem struct {
	Title       string
	Description string
	Action      string
}

var menuItems = []MenuItem{
	{Title: "Inspect performance", Description: "Scrub through a performance tick by tick", Action: "inspect"},
	{Title: "Render to MIDI", Description: "Replay a performance and write a .mid file", Action: "render"},
	{Title: "Exit", Description: "Exit the application", Action: ""},
}

// Model represents the TUI model
type Model struct {
	state        State
	menuIndex    int
	action       string
	filePicker   filepicker.Model
	spinner      spinner.Model
	selectedFile string
	outputFile   string

	replayer *machine.Replayer
	perfName string
	cursor   int64
	at       machine.State
	deltas   []machine.Delta

	err    error
	width  int
	height int
}

// loadDoneMsg signals that a performance finished loading
type loadDoneMsg struct {
	replayer *machine.Replayer
	name     string
	err      error
}

// renderDoneMsg signals render completion
type renderDoneMsg struct {
	outputFile string
	err        error
}

// tickViewMsg carries the reconstructed view at the cursor
type tickViewMsg struct {
	state  machine.State
	deltas []machine.Delta
	err    error
}

// New creates a new TUI model
func New() Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".json"}
	fp.CurrentDirectory, _ = os.Getwd()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(brassGold)

	return Model{
		state:      StateMenu,
		menuIndex:  0,
		filePicker: fp,
		spinner:    s,
	}
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle file picker state first - it needs to receive all messages
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateMenu
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = StateLoading
			return m, tea.Batch(m.spinner.Tick, m.performLoad())
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateInspect:
			return m.updateInspect(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadDoneMsg:
		if msg.err != nil {
			m.state = StateResult
			m.err = msg.err
			return m, nil
		}
		m.replayer = msg.replayer
		m.perfName = msg.name
		m.cursor = 0
		if m.action == "render" {
			return m, tea.Batch(m.spinner.Tick, m.performRender())
		}
		m.state = StateInspect
		return m, m.queryCursor()

	case renderDoneMsg:
		m.state = StateResult
		m.outputFile = msg.outputFile
		m.err = msg.err
		return m, nil

	case tickViewMsg:
		if msg.err != nil {
			m.state = StateResult
			m.err = msg.err
			return m, nil
		}
		m.at = msg.state
		m.deltas = msg.deltas
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "enter":
		if m.menuIndex == len(menuItems)-1 {
			return m, tea.Quit
		}
		m.action = menuItems[m.menuIndex].Action
		m.state = StateFilePicker
		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateInspect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	step := int64(machine.TicksPerQuarter)
	switch msg.String() {
	case "left", "h":
		m.cursor -= step
	case "right", "l":
		m.cursor += step
	case "shift+left", "H":
		m.cursor -= step * 4
	case "shift+right", "L":
		m.cursor += step * 4
	case "g", "home":
		m.cursor = 0
	case "esc":
		m.state = StateMenu
		m.replayer = nil
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	default:
		return m, nil
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m, m.queryCursor()
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateMenu
		m.err = nil
		m.selectedFile = ""
		m.outputFile = ""
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) performLoad() tea.Cmd {
	path := m.selectedFile
	return func() tea.Msg {
		perf, err := loader.LoadPerformance(path)
		if err != nil {
			return loadDoneMsg{err: err}
		}
		rep, err := machine.NewReplayer(perf)
		if err != nil {
			return loadDoneMsg{err: err}
		}
		rep.EnableCheckpoints()
		return loadDoneMsg{replayer: rep, name: perf.Meta.Name}
	}
}

func (m Model) performRender() tea.Cmd {
	path := m.selectedFile
	return func() tea.Msg {
		perf, err := loader.LoadPerformance(path)
		if err != nil {
			return renderDoneMsg{err: err}
		}

		base := strings.TrimSuffix(path, filepath.Ext(path))
		outputFile := base + ".mid"

		if err := render.New().RenderFile(perf, 0, machine.WheelTicks-1, outputFile); err != nil {
			return renderDoneMsg{err: err}
		}
		return renderDoneMsg{outputFile: outputFile}
	}
}

func (m Model) queryCursor() tea.Cmd {
	rep := m.replayer
	cursor := m.cursor
	return func() tea.Msg {
		state, err := rep.StateAt(cursor)
		if err != nil {
			return tickViewMsg{err: err}
		}
		deltas, err := rep.DeltasBetween(cursor, cursor)
		if err != nil {
			return tickViewMsg{err: err}
		}
		return tickViewMsg{state: state, deltas: deltas}
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateLoading:
		s.WriteString(m.viewLoading())
	case StateInspect:
		s.WriteString(m.viewInspect())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT ACTION "))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(steelBlue).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT PERFORMANCE FILE "))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewLoading() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" LOADING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Replaying %s...\n", m.spinner.View(), filepath.Base(m.selectedFile)))

	return boxStyle.Render(s.String())
}

func (m Model) viewInspect() string {
	var s strings.Builder

	rotation, local := machine.ToLocal(m.cursor)
	s.WriteString(titleStyle.Render(fmt.Sprintf(" %s ", strings.ToUpper(m.perfName))))
	s.WriteString("\n\n")
	s.WriteString(labelStyle.Render("Tick: "))
	s.WriteString(valueStyle.Render(fmt.Sprintf("%d (rotation %d, wheel %d)", m.cursor, rotation, local)))
	s.WriteString("\n\n")

	st := m.at
	s.WriteString(labelStyle.Render("Tempo:    "))
	s.WriteString(valueStyle.Render(fmt.Sprintf("%.1f bpm", st.Machine.BPM)))
	s.WriteString("\n")
	s.WriteString(labelStyle.Render("Flywheel: "))
	s.WriteString(valueStyle.Render(onOff(st.Machine.FlywheelConnected, "connected", "disconnected")))
	s.WriteString("\n")
	s.WriteString(labelStyle.Render("Mutes:    "))
	s.WriteString(m.viewMutes(st))
	s.WriteString("\n")
	s.WriteString(labelStyle.Render("Vibrato:  "))
	s.WriteString(valueStyle.Render(fmt.Sprintf("%s, speed %.2f", onOff(st.Vibraphone.VibratoEnabled, "on", "off"), st.Vibraphone.VibratoSpeed)))
	s.WriteString("\n")
	s.WriteString(labelStyle.Render("Capos:    "))
	s.WriteString(m.viewCapos(st))
	s.WriteString("\n")
	s.WriteString(labelStyle.Render("Hihat:    "))
	s.WriteString(valueStyle.Render(fmt.Sprintf("%s, machine %q", onOff(st.Hihat.Closed, "closed", "open"), st.HihatMachine.Setting)))
	s.WriteString("\n\n")

	s.WriteString(labelStyle.Render("At this tick:"))
	s.WriteString("\n")
	if len(m.deltas) == 0 {
		s.WriteString(menuStyle.Render("(no events)"))
		s.WriteString("\n")
	}
	for _, d := range m.deltas {
		line := string(d.Event.Kind())
		if d.Fired != nil {
			line = fmt.Sprintf("drop %s (%s)", d.Fired.Drop.Channel(), d.Fired.Origin)
		}
		s.WriteString(menuStyle.Render("• " + line))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("←/→: quarter note • shift: bar • g: start • esc: menu"))

	return boxStyle.Render(s.String())
}

func (m Model) viewMutes(st machine.State) string {
	var muted []string
	for _, ch := range machine.Channels {
		if st.Machine.Muted(ch) {
			muted = append(muted, string(ch))
		}
	}
	if len(muted) == 0 {
		return valueStyle.Render("none")
	}
	return mutedStyle.Render(strings.Join(muted, ", "))
}

func (m Model) viewCapos(st machine.State) string {
	var parts []string
	for s := machine.BassString(1); s <= machine.NumBassStrings; s++ {
		if fret := st.Bass.Capo(s); fret > 0 {
			parts = append(parts, fmt.Sprintf("string %d fret %d", s, fret))
		}
	}
	if len(parts) == 0 {
		return valueStyle.Render("none")
	}
	return valueStyle.Render(strings.Join(parts, ", "))
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s", m.err.Error())))
	} else {
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render("✓ Render complete!"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Input:  %s\n", filepath.Base(m.selectedFile)))
		s.WriteString(fmt.Sprintf("Output: %s", filepath.Base(m.outputFile)))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func onOff(v bool, yes, no string) string {
	if v {
		return yes
	}
	return no
}

func asciiLogo() string {
	logo := `
   __  __    _    ____  ____  _     _____ ____  _____ ____  _        _ __   __
  |  \/  |  / \  |  _ \| __ )| |   | ____|  _ \| ____|  _ \| |      / \\ \ / /
  | |\/| | / _ \ | |_) |  _ \| |   |  _| | |_) |  _| | |_) | |     / _ \\ V /
  | |  | |/ ___ \|  _ <| |_) | |___| |___|  _ <| |___|  __/| |___ / ___ \| |
  |_|  |_/_/   \_\_| \_\____/|_____|_____|_| \_\_____|_|   |_____/_/   \_\_|
`
	return lipgloss.NewStyle().Foreground(brassGold).Render(logo)
}

// Run starts the TUI application
func Run() error {
	p := tea.NewProgram(New(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
