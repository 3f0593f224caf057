package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marqueelabs/marquee/internal/anim"
	"github.com/marqueelabs/marquee/internal/model"
)

// frameMsg drives the counter animation at its native frame rate.
type frameMsg time.Time

// statsLoadedMsg carries a live snapshot from the stats service.
type statsLoadedMsg struct {
	snapshot model.Snapshot
	err      error
}

const sectionGap = 1 // blank lines between sections

// fallbackStats mirrors the page's static markup: what the landing page
// shows when no stats service is reachable.
func fallbackStats() []model.Stat {
	return []model.Stat{
		{Name: "users", Label: "1,500+"},
		{Name: "interactions", Label: "12,000+"},
		{Name: "retention", Label: "98%"},
	}
}

func defaultFeatures() []Feature {
	return []Feature{
		{Name: "voice-to-text", Title: "Voice to Text", Desc: "Dictate notes and get clean transcripts."},
		{Name: "text-to-voice", Title: "Text to Voice", Desc: "Turn any document into natural speech."},
		{Name: "pdf-chat", Title: "PDF Chat", Desc: "Ask questions, get answers from your files."},
	}
}

// Landing is the scrollable landing page. Sections below the fold stay
// inert until scrolled into view: the stats strip counts up from zero
// exactly once, and the feature grid and usage chart reveal themselves.
type Landing struct {
	keys  KeyMap
	stats model.StatQuerier // nil when running without a service

	geometry *Geometry
	watcher  *anim.Watcher

	hero   *HeroSection
	strip  *StatsStrip
	grid   *FeatureGrid
	chart  *UsageChart
	footer *FooterSection

	sections []Section

	width  int
	height int
	offset int
	lines  []string // rendered page, one entry per terminal row

	animating     bool
	fetchInFlight bool
	live          bool

	updateInterval time.Duration
}

// NewLanding builds the landing page. stats may be nil; the page then
// renders its static fallback numbers and never fetches.
func NewLanding(stats model.StatQuerier, statDuration, updateInterval time.Duration) *Landing {
	if statDuration <= 0 {
		statDuration = model.DefaultStatDuration
	}
	if updateInterval <= 0 {
		updateInterval = model.DefaultUpdateInterval
	}

	l := &Landing{
		keys:           DefaultKeyMap(),
		stats:          stats,
		geometry:       NewGeometry(),
		hero:           &HeroSection{Tagline: "Your AI workspace for voice, text, and documents", Action: "Press l for recent logins. Scroll to explore."},
		strip:          NewStatsStrip(fallbackStats(), statDuration),
		grid:           &FeatureGrid{Features: defaultFeatures()},
		chart:          &UsageChart{},
		footer:         &FooterSection{Text: "Marquee · crafted in the terminal"},
		updateInterval: updateInterval,
	}
	l.sections = []Section{l.hero, l.strip, l.grid, l.chart, l.footer}
	l.watcher = anim.NewWatcher(l.geometry)

	l.watcher.Observe(l.strip, 0.3, func(any) { l.strip.Start() })
	l.watcher.Observe(l.grid, 0.3, func(any) { l.grid.Reveal() })
	l.watcher.Observe(l.chart, 0.3, func(any) { l.chart.Reveal() })

	return l
}

func (l *Landing) ID() string { return "landing" }

func (l *Landing) Init() tea.Cmd {
	return l.fetchStatsCmd()
}

func (l *Landing) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		l.width = msg.Width
		l.height = msg.Height
		l.reflow()
		return l.frameCmdIfAnimating(), nil

	case tea.KeyMsg:
		return l.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			switch msg.Button {
			case tea.MouseButtonWheelUp:
				l.scrollBy(-3)
			case tea.MouseButtonWheelDown:
				l.scrollBy(3)
			}
		}
		return l.frameCmdIfAnimating(), nil

	case frameMsg:
		if !l.animating {
			return nil, nil
		}
		still := l.strip.Advance()
		if !still {
			l.animating = false
			return nil, nil
		}
		return frameCmd(), nil

	case statsLoadedMsg:
		l.fetchInFlight = false
		if msg.err != nil {
			l.live = false
			return nil, nil
		}
		l.live = true
		l.strip.SetStats(msg.snapshot.Stats)
		l.chart.SetTotals(msg.snapshot.UsageTotals)
		l.reflow()
		return l.frameCmdIfAnimating(), nil
	}

	return nil, nil
}

func (l *Landing) handleKey(msg tea.KeyMsg) (tea.Cmd, *PageNav) {
	switch {
	case key.Matches(msg, l.keys.Quit), key.Matches(msg, l.keys.ForceQuit):
		return tea.Quit, nil
	case key.Matches(msg, l.keys.Up):
		l.scrollBy(-1)
	case key.Matches(msg, l.keys.Down):
		l.scrollBy(1)
	case key.Matches(msg, l.keys.PageUp):
		l.scrollBy(-l.viewHeight())
	case key.Matches(msg, l.keys.PageDown):
		l.scrollBy(l.viewHeight())
	case key.Matches(msg, l.keys.Home):
		l.scrollTo(0)
	case key.Matches(msg, l.keys.End):
		l.scrollTo(len(l.lines))
	case key.Matches(msg, l.keys.Logins):
		return nil, &PageNav{PageID: "logins"}
	case key.Matches(msg, l.keys.Refresh):
		return l.fetchStatsCmd(), nil
	}
	return l.frameCmdIfAnimating(), nil
}

// frameCmdIfAnimating starts the 16ms frame loop when a scroll (or the
// initial layout) just armed the stats counters. The loop runs once per
// animation; Advance returning false ends it.
func (l *Landing) frameCmdIfAnimating() tea.Cmd {
	if l.animating || !l.strip.Running() {
		return nil
	}
	l.animating = true
	return frameCmd()
}

func frameCmd() tea.Cmd {
	return tea.Tick(anim.TickInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (l *Landing) fetchStatsCmd() tea.Cmd {
	if l.stats == nil || l.fetchInFlight {
		return nil
	}
	l.fetchInFlight = true
	stats := l.stats
	return func() tea.Msg {
		snap, err := stats.StatsSnapshot()
		return statsLoadedMsg{snapshot: snap, err: err}
	}
}

func (l *Landing) viewHeight() int {
	h := l.height - 1 // status bar
	if h < 1 {
		h = 1
	}
	return h
}

func (l *Landing) scrollBy(delta int) {
	l.scrollTo(l.offset + delta)
}

func (l *Landing) scrollTo(offset int) {
	maxOffset := len(l.lines) - l.viewHeight()
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	l.offset = offset
	l.geometry.Scroll(l.offset, l.viewHeight())
}

// reflow re-renders every section at the current width, records each
// section's line bounds, and re-reports visibility. Any render change
// (new stats, counter frames) shifts line math, so reflow runs on every
// View as well; it is cheap at landing-page scale.
func (l *Landing) reflow() {
	if l.width <= 0 {
		return
	}
	var page []string
	top := 0
	for i, s := range l.sections {
		block := s.View(l.width)
		blockLines := strings.Split(block, "\n")
		l.geometry.SetBounds(s, top, len(blockLines))
		page = append(page, blockLines...)
		top += len(blockLines)
		if i < len(l.sections)-1 {
			for g := 0; g < sectionGap; g++ {
				page = append(page, "")
			}
			top += sectionGap
		}
	}
	l.lines = page
	l.scrollTo(l.offset)
}

func (l *Landing) View(width, height int) string {
	if width > 0 {
		l.width = width
	}
	if height > 0 {
		l.height = height
	}
	l.reflow()

	viewH := l.viewHeight()
	var b strings.Builder
	for i := 0; i < viewH; i++ {
		idx := l.offset + i
		if idx < len(l.lines) {
			b.WriteString(l.lines[idx])
		}
		b.WriteString("\n")
	}
	b.WriteString(l.statusBar())
	return b.String()
}

func (l *Landing) statusBar() string {
	mode := "offline"
	if l.live {
		mode = "live"
	}
	left := " " + renderBranding() + statusBarStyle.Render("  "+mode)
	help := statusBarStyle.Render("  ") +
		statusKeyStyle.Render("l") + statusBarStyle.Render(" logins  ") +
		statusKeyStyle.Render("r") + statusBarStyle.Render(" refresh  ") +
		statusKeyStyle.Render("↑↓") + statusBarStyle.Render(" scroll  ") +
		statusKeyStyle.Render("q") + statusBarStyle.Render(" quit")

	bar := left + help
	pad := l.width - lipgloss.Width(bar)
	if pad > 0 {
		bar += statusBarStyle.Render(strings.Repeat(" ", pad))
	}
	return bar
}
