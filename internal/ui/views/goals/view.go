package goals

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	goaldto "focusgarden/internal/modules/goal/dto"
	"focusgarden/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type GoalPort interface {
	List(ctx context.Context) ([]goaldto.GoalOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type GoalsLoadedMsg struct {
	Goals []goaldto.GoalOutput
	Err   error
}

// ─── list item ───────────────────────────────────────────────────────────────

type goalItem struct {
	goal goaldto.GoalOutput
}

func (i goalItem) Title() string       { return i.goal.Title }
func (i goalItem) Description() string { return fmt.Sprintf("%s  %d%%", i.goal.Ref, i.goal.Progress) }
func (i goalItem) FilterValue() string { return i.goal.Title }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    GoalPort
	list    list.Model
	preview viewport.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port GoalPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Goals"
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
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		list:    l,
		preview: vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return GoalsLoadedMsg{}
		}
		goals, err := m.port.List(context.Background())
		return GoalsLoadedMsg{Goals: goals, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case GoalsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Goals: " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.Goals))
		for i, g := range msg.Goals {
			items[i] = goalItem{goal: g}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.preview.SetContent(m.renderDetail())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			m.preview.SetContent(m.renderDetail())
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading goals…")
	}

	listW := m.width * 4 / 10
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
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// SelectedRef returns the reference of the highlighted goal, if any.
func (m Model) SelectedRef() (string, bool) {
	if item, ok := m.list.SelectedItem().(goalItem); ok {
		return item.goal.Ref, true
	}
	return "", false
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = detailW - 4
	m.preview.Height = m.height - 4
}

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(goalItem)
	if !ok {
		return theme.Muted.Render("No goals yet. Add one with `focusgarden goal add`.")
	}
	g := item.goal
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(g.Title) + "\n\n")
	sb.WriteString(theme.Muted.Render("ref:      ") + g.Ref + "\n")
	sb.WriteString(theme.Muted.Render("tier:     ") + g.Tier + "\n")
	if g.Deadline != "" {
		sb.WriteString(theme.Muted.Render("deadline: ") + g.Deadline + "\n")
	}
	sb.WriteString(fmt.Sprintf("%s%d%%\n", theme.Muted.Render("progress: "), g.Progress))
	sb.WriteString(theme.Muted.Render("focused:  ") + fmt.Sprintf("%dh %dm\n", g.TimeSpent/3600, (g.TimeSpent%3600)/60))
	sb.WriteString("\n" + theme.Muted.Render("enter: focus on this goal"))
	return sb.String()
}
