package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/marqueelabs/marquee/internal/anim"
	"github.com/marqueelabs/marquee/internal/model"
)

// Section is one block of the landing page column.
type Section interface {
	ID() string
	View(width int) string
}

// HeroSection is the masthead: branding, tagline, and a call to action.
type HeroSection struct {
	Tagline string
	Action  string
}

func (s *HeroSection) ID() string { return "hero" }

func (s *HeroSection) View(width int) string {
	lines := []string{
		"",
		renderBranding(),
		taglineStyle.Render(s.Tagline),
		"",
		mutedStyle.Render(s.Action),
		"",
	}
	block := strings.Join(lines, "\n")
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(block)
}

// statItem is one animated headline number.
type statItem struct {
	name    string
	label   string // original markup text, kept verbatim for fallback
	caption string

	target  float64
	suffix  string
	static  bool // label did not parse; show it untouched
	counter *anim.Counter
	display int
	done    bool
}

// StatsStrip is the row of counters that animate up once scrolled into
// view. Until Start is called it renders zeros (or the static label).
type StatsStrip struct {
	items    []*statItem
	duration time.Duration
	started  bool
}

// NewStatsStrip builds the strip from page markup. Labels that do not
// parse as numbers are shown as-is and never animated.
func NewStatsStrip(stats []model.Stat, duration time.Duration) *StatsStrip {
	strip := &StatsStrip{duration: duration}
	for _, st := range stats {
		item := &statItem{name: st.Name, label: st.Label, caption: st.Name}
		target, suffix, ok := anim.ParseStatLabel(st.Label)
		if !ok {
			item.static = true
		} else {
			item.target = target
			item.suffix = suffix
		}
		strip.items = append(strip.items, item)
	}
	return strip
}

func (s *StatsStrip) ID() string { return "stats" }

// SetStats swaps in live values for the static markup, keeping the
// animation targets fresh. Once counters are running the targets are
// locked; replacing them mid-flight would break monotonicity.
func (s *StatsStrip) SetStats(stats []model.Stat) {
	if s.started {
		return
	}
	byName := make(map[string]model.Stat, len(stats))
	for _, st := range stats {
		byName[st.Name] = st
	}
	for _, item := range s.items {
		st, ok := byName[item.name]
		if !ok {
			continue
		}
		if target, suffix, parsed := anim.ParseStatLabel(st.Label); parsed {
			item.target = target
			item.suffix = suffix
			item.label = st.Label
			item.static = false
		}
	}
}

// Start arms one counter per animatable stat. Idempotent: the strip
// animates at most once, no matter how often the section re-enters the
// viewport.
func (s *StatsStrip) Start() {
	if s.started {
		return
	}
	s.started = true
	for _, item := range s.items {
		if item.static {
			item.done = true
			continue
		}
		item.counter = anim.NewCounter(item.target, s.duration)
	}
}

// Advance moves every running counter one frame. It reports whether any
// counter still needs frames.
func (s *StatsStrip) Advance() bool {
	if !s.started {
		return false
	}
	running := false
	for _, item := range s.items {
		if item.done || item.counter == nil {
			continue
		}
		value, done := item.counter.Tick()
		item.display = value
		item.done = done
		if !done {
			running = true
		}
	}
	return running
}

// Started reports whether the counters were armed.
func (s *StatsStrip) Started() bool { return s.started }

// Running reports whether any counter still needs frames.
func (s *StatsStrip) Running() bool {
	if !s.started {
		return false
	}
	for _, item := range s.items {
		if !item.done {
			return true
		}
	}
	return false
}

func (s *StatsStrip) View(width int) string {
	cells := make([]string, 0, len(s.items))
	cellWidth := width/len(s.items) - 2
	if cellWidth < 8 {
		cellWidth = 8
	}
	for _, item := range s.items {
		var value string
		switch {
		case item.static:
			value = item.label
		case !s.started:
			value = "0" + item.suffix
		default:
			value = fmt.Sprintf("%d%s", item.display, item.suffix)
		}
		cell := lipgloss.JoinVertical(lipgloss.Center,
			statValueStyle.Render(value),
			statLabelStyle.Render(item.caption),
		)
		cells = append(cells, lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Center).Render(cell))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	return sectionStyle.Width(width - 2).Render(row)
}

// Feature is one tile in the feature grid, mirroring a demo app page.
type Feature struct {
	Name  string
	Title string
	Desc  string
}

// FeatureGrid lists the product's features. It renders dimmed until it
// scrolls into view.
type FeatureGrid struct {
	Features []Feature
	revealed bool
}

func (s *FeatureGrid) ID() string { return "features" }

// Reveal switches the grid to its full-color rendering. One-way.
func (s *FeatureGrid) Reveal() { s.revealed = true }

func (s *FeatureGrid) View(width int) string {
	titleRender := tileTitleStyle.Render
	descRender := mutedStyle.Render
	if !s.revealed {
		titleRender = revealDimStyle.Render
		descRender = revealDimStyle.Render
	}

	tileWidth := width/len(s.Features) - 4
	if tileWidth < 12 {
		tileWidth = 12
	}
	tiles := make([]string, 0, len(s.Features))
	for _, f := range s.Features {
		body := lipgloss.JoinVertical(lipgloss.Left,
			titleRender(f.Title),
			descRender(f.Desc),
		)
		tiles = append(tiles, tileStyle.Width(tileWidth).Render(body))
	}

	grid := lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
	heading := headingStyle.Render("Everything in one place")
	return lipgloss.JoinVertical(lipgloss.Left, heading, grid)
}

// FooterSection closes the page.
type FooterSection struct {
	Text string
}

func (s *FooterSection) ID() string { return "footer" }

func (s *FooterSection) View(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render("\n" + mutedStyle.Render(s.Text) + "\n")
}
