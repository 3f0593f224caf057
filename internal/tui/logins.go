package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marqueelabs/marquee/internal/model"
)

const maxRecentLogins = 50

// loginsTickMsg triggers a periodic refresh of the logins list.
type loginsTickMsg time.Time

// loginsLoadedMsg carries a fetched logins page.
type loginsLoadedMsg struct {
	records []model.LoginRecord
	err     error
}

// LoginsPage shows the most recent logins reported by the stats
// service, refreshed on an interval while the page is open.
type LoginsPage struct {
	keys  KeyMap
	stats model.StatQuerier

	records []model.LoginRecord
	lastErr error
	loaded  bool

	cursor         int
	width          int
	height         int
	ticking        bool
	updateInterval time.Duration
}

// NewLoginsPage builds the page. stats may be nil; the page then shows
// a hint that no service is connected.
func NewLoginsPage(stats model.StatQuerier, updateInterval time.Duration) *LoginsPage {
	if updateInterval <= 0 {
		updateInterval = model.DefaultUpdateInterval
	}
	return &LoginsPage{
		keys:           DefaultKeyMap(),
		stats:          stats,
		updateInterval: updateInterval,
	}
}

func (p *LoginsPage) ID() string { return "logins" }

// Init runs on every entry to the page; the refresh loop is started
// once and survives navigation away and back.
func (p *LoginsPage) Init() tea.Cmd {
	if p.stats == nil {
		return nil
	}
	if p.ticking {
		return p.fetchCmd()
	}
	p.ticking = true
	return tea.Batch(p.fetchCmd(), p.tickCmd())
}

func (p *LoginsPage) tickCmd() tea.Cmd {
	return tea.Tick(p.updateInterval, func(t time.Time) tea.Msg {
		return loginsTickMsg(t)
	})
}

func (p *LoginsPage) fetchCmd() tea.Cmd {
	stats := p.stats
	return func() tea.Msg {
		records, err := stats.RecentLogins(maxRecentLogins)
		return loginsLoadedMsg{records: records, err: err}
	}
}

func (p *LoginsPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Quit), key.Matches(msg, p.keys.ForceQuit):
			return tea.Quit, nil
		case key.Matches(msg, p.keys.Escape):
			return nil, &PageNav{PageID: "landing"}
		case key.Matches(msg, p.keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
		case key.Matches(msg, p.keys.Down):
			if p.cursor < len(p.records)-1 {
				p.cursor++
			}
		case key.Matches(msg, p.keys.Refresh):
			if p.stats != nil {
				return p.fetchCmd(), nil
			}
		}

	case loginsTickMsg:
		if p.stats == nil {
			return nil, nil
		}
		return tea.Batch(p.fetchCmd(), p.tickCmd()), nil

	case loginsLoadedMsg:
		p.loaded = true
		p.lastErr = msg.err
		if msg.err == nil {
			p.records = msg.records
			if p.cursor >= len(p.records) {
				p.cursor = len(p.records) - 1
			}
			if p.cursor < 0 {
				p.cursor = 0
			}
		}
	}
	return nil, nil
}

func (p *LoginsPage) View(width, height int) string {
	if width > 0 {
		p.width = width
	}
	if height > 0 {
		p.height = height
	}

	var b strings.Builder
	b.WriteString(headingStyle.Render("Recent logins"))
	b.WriteString("\n\n")

	switch {
	case p.stats == nil:
		b.WriteString(mutedStyle.Render("No stats service connected."))
	case p.lastErr != nil:
		b.WriteString(mutedStyle.Render(fmt.Sprintf("Query failed: %v", p.lastErr)))
	case !p.loaded:
		b.WriteString(mutedStyle.Render("Loading…"))
	case len(p.records) == 0:
		b.WriteString(mutedStyle.Render("No logins recorded yet."))
	default:
		b.WriteString(p.renderTable())
	}

	body := b.String()
	bodyHeight := lipgloss.Height(body)
	for i := bodyHeight; i < p.height-1; i++ {
		body += "\n"
	}
	return body + p.statusBar()
}

func (p *LoginsPage) renderTable() string {
	emailWidth := 32
	header := fmt.Sprintf("  %-*s %-22s %s", emailWidth, "EMAIL", "LAST LOGIN", "LOGINS")
	rows := []string{statLabelStyle.Render(header)}

	visible := p.visibleWindow()
	for i, r := range p.records {
		if i < visible.start || i >= visible.end {
			continue
		}
		marker := "  "
		style := mutedStyle
		if i == p.cursor {
			marker = "> "
			style = tileTitleStyle
		}
		line := fmt.Sprintf("%s%-*s %-22s %6d",
			marker, emailWidth, truncate(r.Email, emailWidth),
			r.LastLoginTime.Local().Format("2006-01-02 15:04:05"),
			r.LoginCount)
		rows = append(rows, style.Render(line))
	}
	return strings.Join(rows, "\n")
}

// visibleWindow keeps the cursor on screen when the list outgrows the
// terminal.
func (p *LoginsPage) visibleWindow() struct{ start, end int } {
	capacity := p.height - 5 // heading, blank, table header, status bar
	if capacity < 1 {
		capacity = 1
	}
	start := 0
	if p.cursor >= capacity {
		start = p.cursor - capacity + 1
	}
	end := start + capacity
	if end > len(p.records) {
		end = len(p.records)
	}
	return struct{ start, end int }{start, end}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}

func (p *LoginsPage) statusBar() string {
	bar := " " + renderBranding() +
		statusBarStyle.Render("  ") +
		statusKeyStyle.Render("esc") + statusBarStyle.Render(" back  ") +
		statusKeyStyle.Render("↑↓") + statusBarStyle.Render(" select  ") +
		statusKeyStyle.Render("r") + statusBarStyle.Render(" refresh  ") +
		statusKeyStyle.Render("q") + statusBarStyle.Render(" quit")
	pad := p.width - lipgloss.Width(bar)
	if pad > 0 {
		bar += statusBarStyle.Render(strings.Repeat(" ", pad))
	}
	return bar
}
