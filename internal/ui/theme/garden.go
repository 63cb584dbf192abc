package theme

import "github.com/charmbracelet/lipgloss"

// Colours follow the Catppuccin Mocha palette.
var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Peach    = lipgloss.Color("#fab387")
	Yellow   = lipgloss.Color("#f9e2af")

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Green).
		Background(Mantle).
		Foreground(Text).
		Padding(1, 4)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Gold  = lipgloss.NewStyle().Foreground(Yellow).Bold(true)
)

// PlantStyle colours a plant label by its type.
func PlantStyle(plantType string) lipgloss.Style {
	switch plantType {
	case "golden":
		return Gold
	case "tree", "bush":
		return lipgloss.NewStyle().Foreground(Green)
	case "flower":
		return lipgloss.NewStyle().Foreground(Lavender)
	default:
		return Muted
	}
}
