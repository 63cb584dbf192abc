package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	coorddto "focusgarden/internal/modules/coordinator/dto"
	sessiondto "focusgarden/internal/modules/session/dto"
	apperrors "focusgarden/internal/platform/errors"
	"focusgarden/internal/ui/components"
	"focusgarden/internal/ui/theme"
	gardenview "focusgarden/internal/ui/views/garden"
	goalsview "focusgarden/internal/ui/views/goals"
	timerview "focusgarden/internal/ui/views/timer"
)

const (
	pollInterval   = time.Second
	refreshTimeout = 30 * time.Second
	refreshRetry   = 5 * time.Second
)

// ─── ports ───────────────────────────────────────────────────────────────────

type coordinatorPort interface {
	Session(ctx context.Context) (sessiondto.SessionOutput, error)
	StartFocus(ctx context.Context, minutes int, goalRef, mode string, force bool) (sessiondto.SessionOutput, error)
	StopFocus(ctx context.Context) (sessiondto.SessionOutput, error)
	NextFocus(ctx context.Context, input coorddto.NextFocusInput) (sessiondto.SessionOutput, error)
	StartBreak(ctx context.Context, long bool, mode string, force bool) (sessiondto.SessionOutput, error)
	AwaitRefresh(ctx context.Context, since uint64, timeout time.Duration) (uint64, error)
}

// sessionPort reads the stored record directly when the coordinator is
// not running.
type sessionPort interface {
	Current(ctx context.Context) (sessiondto.SessionOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabTimer tabID = iota
	tabGarden
	tabGoals
	tabCount
)

var tabLabels = [tabCount]string{
	"Timer", "Garden", "Goals",
}

var modes = []string{"pomodoro", "deepFocus", "custom"}

// ─── async messages ───────────────────────────────────────────────────────────

type pollMsg time.Time

type sessionLoadedMsg struct {
	session sessiondto.SessionOutput
	at      time.Time
	offline bool
	err     error
}

type actionDoneMsg struct {
	label   string
	session sessiondto.SessionOutput
	err     error
}

type refreshMsg struct {
	revision uint64
	err      error
}

type retryRefreshMsg struct{}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Focus   key.Binding
	Break   key.Binding
	Next    key.Binding
	Stop    key.Binding
	Mode    key.Binding
	Select  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Focus:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "start focus")),
		Break:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "start break")),
		Next:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next focus")),
		Stop:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
		Mode:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "cycle mode")),
		Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select goal")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Focus, k.Break, k.Next, k.Stop},
		{k.Mode, k.Select, k.Tab},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. The coordinator owns the clock; this
// model only polls the record and renders it.
type Model struct {
	coordinator coordinatorPort
	session     sessionPort

	timerView  timerview.Model
	gardenView gardenview.Model
	goalsView  goalsview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int

	mode         string
	goalRef      string
	force        bool
	startedFocus bool
	wasActive    bool
	revision     uint64
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(
	coordinator coordinatorPort,
	session sessionPort,
	garden gardenview.GardenPort,
	goals goalsview.GoalPort,
) Model {
	return Model{
		coordinator: coordinator,
		session:     session,
		timerView:   timerview.New(),
		gardenView:  gardenview.New(garden),
		goalsView:   goalsview.New(goals),
		activeTab:   tabTimer,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		status:      "ready",
		mode:        modes[0],
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.gardenView.Init(),
		m.goalsView.Init(),
		m.loadSessionCmd(),
		m.awaitRefreshCmd(0),
		pollCmd(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case pollMsg:
		return m, tea.Batch(m.loadSessionCmd(), pollCmd())

	case sessionLoadedMsg:
		if msg.err != nil {
			m.status = "session: " + msg.err.Error()
			return m, nil
		}
		m.timerView.SetSession(msg.session, msg.at, msg.offline)
		if m.wasActive && !msg.session.IsActive {
			m.status = "session complete"
			cmds = append(cmds, m.goalsView.Reload())
		}
		m.wasActive = msg.session.IsActive
		return m, tea.Batch(cmds...)

	case actionDoneMsg:
		if msg.err != nil {
			m.status = msg.label + " failed: " + msg.err.Error()
			return m, nil
		}
		m.force = false
		m.wasActive = msg.session.IsActive
		m.timerView.SetSession(msg.session, time.Now(), false)
		m.status = msg.label
		return m, nil

	case refreshMsg:
		if msg.err != nil {
			return m, tea.Tick(refreshRetry, func(time.Time) tea.Msg { return retryRefreshMsg{} })
		}
		if msg.revision != m.revision {
			m.revision = msg.revision
			cmds = append(cmds, m.gardenView.Reload())
		}
		cmds = append(cmds, m.awaitRefreshCmd(m.revision))
		return m, tea.Batch(cmds...)

	case retryRefreshMsg:
		return m, m.awaitRefreshCmd(m.revision)

	case gardenview.StateLoadedMsg:
		var cmd tea.Cmd
		m.gardenView, cmd = m.gardenView.Update(msg)
		return m, cmd

	case goalsview.GoalsLoadedMsg:
		var cmd tea.Cmd
		m.goalsView, cmd = m.goalsView.Update(msg)
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.subViewFiltering() {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.activeTab = (m.activeTab + 1) % tabCount
		case msg.String() == "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
		case key.Matches(msg, m.keys.Palette):
			cmd := m.palette.Open()
			return m, cmd
		case key.Matches(msg, m.keys.Focus):
			cmd := m.nextFocusCmd(0)
			return m, cmd
		case key.Matches(msg, m.keys.Next):
			cmd := m.nextFocusCmd(0)
			return m, cmd
		case key.Matches(msg, m.keys.Break):
			return m, m.startBreakCmd(m.timerView.Session().IsLongBreak)
		case key.Matches(msg, m.keys.Stop):
			return m, m.stopCmd()
		case key.Matches(msg, m.keys.Mode):
			m.mode = nextMode(m.mode)
			m.status = "mode: " + m.mode
		case key.Matches(msg, m.keys.Select):
			if m.activeTab == tabGoals {
				if ref, ok := m.goalsView.SelectedRef(); ok {
					m.goalRef = ref
					m.status = "goal: " + ref
				}
			}
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabGarden:
		m.gardenView, tabCmd = m.gardenView.Update(msg)
	case tabGoals:
		m.goalsView, tabCmd = m.goalsView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(1, m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar))

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabTimer:
		return m.timerView.View()
	case tabGarden:
		return m.gardenView.View()
	case tabGoals:
		return m.goalsView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "focusgarden  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := theme.Muted.Render(m.mode) + "  " + m.status
	if m.goalRef != "" {
		left = theme.Hot.Render("● "+m.goalRef) + "  " + left
	}
	if m.force {
		left = theme.Hot.Render("force") + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	switch parts[0] {
	case "focus":
		if len(parts) < 2 {
			m.status = "usage: focus <minutes> [goal-ref]"
			return m, nil
		}
		minutes, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid minutes"
			return m, nil
		}
		if len(parts) >= 3 {
			m.goalRef = parts[2]
		}
		cmd := m.startFocusCmd(minutes)
		return m, cmd

	case "next":
		custom := 0
		if len(parts) >= 2 {
			v, err := strconv.Atoi(parts[1])
			if err != nil {
				m.status = "invalid minutes"
				return m, nil
			}
			custom = v
		}
		cmd := m.nextFocusCmd(custom)
		return m, cmd

	case "break":
		return m, m.startBreakCmd(len(parts) >= 2 && parts[1] == "long")

	case "stop":
		return m, m.stopCmd()

	case "mode":
		if len(parts) < 2 || !validMode(parts[1]) {
			m.status = "usage: mode <" + strings.Join(modes, "|") + ">"
			return m, nil
		}
		m.mode = parts[1]
		m.status = "mode: " + m.mode

	case "goal":
		if len(parts) < 2 {
			m.status = "usage: goal <goal-ref|none>"
			return m, nil
		}
		m.goalRef = parts[1]
		if m.goalRef == "none" {
			m.goalRef = ""
		}
		m.status = "goal: " + parts[1]

	case "force":
		m.force = !m.force
		m.status = fmt.Sprintf("force next start: %t", m.force)

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) subViewFiltering() bool {
	switch m.activeTab {
	case tabGarden:
		return m.gardenView.Filtering()
	case tabGoals:
		return m.goalsView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	h := m.height - 3
	m.timerView.SetSize(m.width, h)
	sz := tea.WindowSizeMsg{Width: m.width, Height: h}
	m.gardenView, _ = m.gardenView.Update(sz)
	m.goalsView, _ = m.goalsView.Update(sz)
}

func nextMode(current string) string {
	for i, mode := range modes {
		if mode == current {
			return modes[(i+1)%len(modes)]
		}
	}
	return modes[0]
}

func validMode(mode string) bool {
	for _, m := range modes {
		if m == mode {
			return true
		}
	}
	return false
}

// ─── async commands ───────────────────────────────────────────────────────────

func pollCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return pollMsg(t) })
}

func (m Model) loadSessionCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		s, err := m.coordinator.Session(ctx)
		if errors.Is(err, apperrors.ErrDaemonUnavailable) && m.session != nil {
			s, err = m.session.Current(ctx)
			return sessionLoadedMsg{session: s, at: time.Now(), offline: true, err: err}
		}
		return sessionLoadedMsg{session: s, at: time.Now(), err: err}
	}
}

func (m Model) awaitRefreshCmd(since uint64) tea.Cmd {
	return func() tea.Msg {
		rev, err := m.coordinator.AwaitRefresh(context.Background(), since, refreshTimeout)
		return refreshMsg{revision: rev, err: err}
	}
}

func (m *Model) startFocusCmd(minutes int) tea.Cmd {
	m.startedFocus = true
	goalRef, mode, force := m.goalRef, m.mode, m.force
	return func() tea.Msg {
		s, err := m.coordinator.StartFocus(context.Background(), minutes, goalRef, mode, force)
		return actionDoneMsg{label: "focus started", session: s, err: err}
	}
}

func (m *Model) nextFocusCmd(custom int) tea.Cmd {
	input := coorddto.NextFocusInput{
		PomodoroMode:   m.mode,
		IsFirstSession: !m.startedFocus,
		CustomDuration: custom,
		SelectedGoal:   m.goalRef,
		Force:          m.force,
	}
	m.startedFocus = true
	return func() tea.Msg {
		s, err := m.coordinator.NextFocus(context.Background(), input)
		return actionDoneMsg{label: "focus started", session: s, err: err}
	}
}

func (m Model) startBreakCmd(long bool) tea.Cmd {
	mode, force := m.mode, m.force
	return func() tea.Msg {
		s, err := m.coordinator.StartBreak(context.Background(), long, mode, force)
		return actionDoneMsg{label: "break started", session: s, err: err}
	}
}

func (m Model) stopCmd() tea.Cmd {
	return func() tea.Msg {
		s, err := m.coordinator.StopFocus(context.Background())
		return actionDoneMsg{label: "stopped", session: s, err: err}
	}
}
