package garden

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	gardendto "focusgarden/internal/modules/garden/dto"
	"focusgarden/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type GardenPort interface {
	State(ctx context.Context) (gardendto.StateOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type StateLoadedMsg struct {
	State gardendto.StateOutput
	Err   error
}

// ─── list item ───────────────────────────────────────────────────────────────

type plantItem struct {
	plant gardendto.PlantOutput
}

func (i plantItem) Title() string { return i.plant.Icon + "  " + i.plant.Variant }
func (i plantItem) Description() string {
	desc := fmt.Sprintf("%s  %s", i.plant.Type, i.plant.CreatedAt.Local().Format("Jan 2 15:04"))
	switch {
	case i.plant.IsStreakReward:
		desc += fmt.Sprintf("  %d-day streak", i.plant.StreakDays)
	case i.plant.IsProgressReward:
		desc += "  progress reward"
	case len(i.plant.EvolvedFrom) > 0:
		desc += fmt.Sprintf("  from %d %ss", len(i.plant.EvolvedFrom), i.plant.EvolvedFrom[0])
	}
	return desc
}
func (i plantItem) FilterValue() string { return i.plant.Type + " " + i.plant.Variant }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    GardenPort
	list    list.Model
	detail  viewport.Model
	spinner spinner.Model
	state   gardendto.StateOutput
	loading bool
	width   int
	height  int
}

func New(port GardenPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Green).BorderForeground(theme.Green)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Green)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Garden"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Green)

	return Model{
		port:    port,
		list:    l,
		detail:  vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload fetches garden state again, e.g. after a refresh notification.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return StateLoadedMsg{}
		}
		state, err := m.port.State(context.Background())
		return StateLoadedMsg{State: state, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case StateLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Garden: " + msg.Err.Error()
			return m, nil
		}
		m.state = msg.State
		// newest first
		items := make([]list.Item, 0, len(msg.State.Plants))
		for i := len(msg.State.Plants) - 1; i >= 0; i-- {
			items = append(items, plantItem{plant: msg.State.Plants[i]})
		}
		m.list.Title = fmt.Sprintf("Garden (%d)", len(items))
		cmds = append(cmds, m.list.SetItems(items))
		m.detail.SetContent(m.renderSummary())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)

		var vCmd tea.Cmd
		m.detail, vCmd = m.detail.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading garden…")
	}

	listW := m.width / 2
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width / 2
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.detail.Width = detailW - 4
	m.detail.Height = m.height - 4
}

func (m Model) renderSummary() string {
	s := m.state
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Streak") + "\n\n")
	sb.WriteString(theme.Muted.Render("current: ") + fmt.Sprintf("%d days\n", s.Streaks.Current))
	sb.WriteString(theme.Muted.Render("longest: ") + fmt.Sprintf("%d days\n", s.Streaks.LongestStreak))
	if s.Streaks.LastSessionDate != nil {
		sb.WriteString(theme.Muted.Render("last:    ") + s.Streaks.LastSessionDate.Local().Format("Mon Jan 2") + "\n")
	}

	counts := map[string]int{}
	for _, p := range s.Plants {
		counts[p.Type]++
	}
	if len(counts) > 0 {
		types := make([]string, 0, len(counts))
		for t := range counts {
			types = append(types, t)
		}
		sort.Strings(types)
		sb.WriteString("\n" + theme.Title.Render("Plants") + "\n\n")
		for _, t := range types {
			sb.WriteString(fmt.Sprintf("%s%d\n", theme.PlantStyle(t).Render(fmt.Sprintf("%-8s ", t)), counts[t]))
		}
	}

	if s.Summary != nil {
		sb.WriteString("\n" + theme.Title.Render("This week") + "\n\n")
		sb.WriteString(s.Summary.Message + "\n")
	}
	if len(s.Plants) == 0 {
		sb.WriteString("\n" + theme.Muted.Render("Complete a focus session to plant your first sprout."))
	}
	return sb.String()
}
