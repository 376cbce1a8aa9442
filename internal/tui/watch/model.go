// Package watch implements the dagstat live view: a TUI that re-parses and
// re-renders a status file every time the workflow engine rewrites it.
package watch

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattjoyce/dagstat/internal/render"
	"github.com/mattjoyce/dagstat/internal/statusfile"
)

// Model is the main BubbleTea model for the watch TUI.
type Model struct {
	path     string
	debounce time.Duration

	width  int
	height int

	// State
	result      *statusfile.Result
	parseErr    error
	lastLoad    time.Time
	reloadDue   bool
	summaryOnly bool

	// UI state
	theme   render.Theme
	spinner spinner.Model

	// Communication
	changes chan struct{}
}

// New creates a new watch model for one status file.
func New(path string, summaryOnly bool, theme render.Theme, debounce time.Duration) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	return &Model{
		path:        path,
		debounce:    debounce,
		summaryOnly: summaryOnly,
		theme:       theme,
		spinner:     sp,
		changes:     make(chan struct{}, 1),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		subscribeToFile(m.path, m.changes),
		receiveNextChange(m.changes),
		loadFile(m.path),
		m.spinner.Tick,
		tea.EnterAltScreen,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "s":
			m.summaryOnly = !m.summaryOnly
		case "r":
			return m, loadFile(m.path)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case fileChangedMsg:
		// Coalesce the burst of events an in-place rewrite produces into
		// one reload after the debounce window.
		cmds := []tea.Cmd{receiveNextChange(m.changes)}
		if !m.reloadDue {
			m.reloadDue = true
			cmds = append(cmds, tea.Tick(m.debounce, func(time.Time) tea.Msg { return reloadMsg{} }))
		}
		return m, tea.Batch(cmds...)

	case reloadMsg:
		m.reloadDue = false
		return m, loadFile(m.path)

	case loadedMsg:
		m.result = msg.result
		m.parseErr = msg.err
		m.lastLoad = time.Now()

	case watchErrMsg:
		m.parseErr = msg.err

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing watch..."
	}

	header := m.theme.Filename.Render(m.path + " :")

	var body string
	switch {
	case m.parseErr != nil:
		body = m.theme.StatusError.Render(fmt.Sprintf("parse failed: %v", m.parseErr))
	case m.result == nil:
		body = m.spinner.View() + " waiting for first snapshot..."
	default:
		r := render.New(m.theme, render.FixedWidth(m.width))
		body = r.Render(m.result, m.summaryOnly)
	}

	status := fmt.Sprintf("%s last read %s", m.spinner.View(), m.lastLoad.Format("15:04:05"))
	if m.lastLoad.IsZero() {
		status = m.spinner.View() + " reading..."
	}

	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render(" [q] Quit • [s] Toggle summary • [r] Reload")

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status, help)
}

// Run starts the watch TUI and blocks until the user quits.
func Run(path string, summaryOnly bool, theme render.Theme, debounce time.Duration) error {
	p := tea.NewProgram(New(path, summaryOnly, theme, debounce))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("watch TUI failed: %w", err)
	}
	return nil
}
