package tui

import (
	"fmt"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/marqueelabs/marquee/internal/model"
)

// UsageChart renders per-feature usage totals as a bar chart. Like the
// other below-the-fold sections it stays a placeholder until it scrolls
// into view.
type UsageChart struct {
	totals   []model.UsageCount
	revealed bool
}

func (c *UsageChart) ID() string { return "usage" }

// Reveal switches the chart on. One-way.
func (c *UsageChart) Reveal() { c.revealed = true }

// SetTotals replaces the chart data with a live snapshot.
func (c *UsageChart) SetTotals(totals []model.UsageCount) {
	c.totals = append(c.totals[:0], totals...)
}

func (c *UsageChart) View(width int) string {
	heading := headingStyle.Render("What people are using")

	if !c.revealed {
		placeholder := revealDimStyle.Render("· · ·")
		return lipgloss.JoinVertical(lipgloss.Left, heading, placeholder, "", "", "", "", "", "")
	}
	if len(c.totals) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, heading,
			mutedStyle.Render("No usage recorded yet"), "", "", "", "", "", "")
	}

	chartWidth := width - 24
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 6

	barStyle := lipgloss.NewStyle().Foreground(ColorAccent).Background(ColorAccent)
	bc := barchart.New(chartWidth, chartHeight,
		barchart.WithBarGap(2),
		barchart.WithBarWidth(3),
	)
	for _, u := range c.totals {
		bc.Push(barchart.BarData{
			Label: shortFeature(u.Feature),
			Values: []barchart.BarValue{
				{Name: u.Feature, Value: float64(u.Count), Style: barStyle},
			},
		})
	}
	bc.Draw()

	legendLines := make([]string, 0, len(c.totals))
	for _, u := range c.totals {
		legendLines = append(legendLines,
			fmt.Sprintf("%s %s",
				statValueStyle.Render(fmt.Sprintf("%5d", u.Count)),
				mutedStyle.Render(u.Feature)))
	}
	legend := lipgloss.JoinVertical(lipgloss.Left, legendLines...)

	body := lipgloss.JoinHorizontal(lipgloss.Top, bc.View(), "  ", legend)
	return lipgloss.JoinVertical(lipgloss.Left, heading, body)
}

// shortFeature abbreviates a feature name to fit under a bar.
func shortFeature(name string) string {
	switch name {
	case "voice-to-text":
		return "v2t"
	case "text-to-voice":
		return "t2v"
	case "pdf-chat":
		return "pdf"
	}
	if len(name) > 3 {
		return name[:3]
	}
	return name
}
