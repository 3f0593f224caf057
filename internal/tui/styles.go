package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle     lipgloss.Style
	taglineStyle   lipgloss.Style
	sectionStyle   lipgloss.Style
	headingStyle   lipgloss.Style
	statValueStyle lipgloss.Style
	statLabelStyle lipgloss.Style
	tileStyle      lipgloss.Style
	tileTitleStyle lipgloss.Style
	mutedStyle     lipgloss.Style
	statusBarStyle lipgloss.Style
	statusKeyStyle lipgloss.Style
	revealDimStyle lipgloss.Style
)

// rebuildStyles derives all lipgloss styles from the active palette.
// Called whenever a skin is applied.
func rebuildStyles() {
	titleStyle = lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true)

	taglineStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)

	sectionStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 2)

	headingStyle = lipgloss.NewStyle().
		Foreground(ColorAccentAlt).
		Bold(true)

	statValueStyle = lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true)

	statLabelStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	tileStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1)

	tileTitleStyle = lipgloss.NewStyle().
		Foreground(ColorText).
		Bold(true)

	mutedStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	statusBarStyle = lipgloss.NewStyle().
		Background(ColorSurface).
		Foreground(ColorText)

	statusKeyStyle = lipgloss.NewStyle().
		Background(ColorSurface).
		Foreground(ColorAccentAlt).
		Bold(true)

	revealDimStyle = lipgloss.NewStyle().
		Foreground(ColorBorder)
}

// renderBranding renders "Marquee" with an accent gradient, one rune at
// a time.
func renderBranding() string {
	colors := []string{
		"#60A5FA",
		"#559EF8",
		"#4A97F7",
		"#3F90F6",
		"#3489F6",
		"#2982F5",
		"#1E7BF5",
	}
	chars := []string{"M", "a", "r", "q", "u", "e", "e"}

	var result string
	for i, ch := range chars {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(colors[i])).Bold(true)
		result += style.Render(ch)
	}
	return result
}
