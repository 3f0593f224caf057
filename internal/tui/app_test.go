package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type stubPage struct {
	id    string
	inits int
	sizes []tea.WindowSizeMsg
	nav   *PageNav // returned once on the next non-size message
}

func (p *stubPage) ID() string    { return p.id }
func (p *stubPage) Init() tea.Cmd { p.inits++; return nil }

func (p *stubPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		p.sizes = append(p.sizes, size)
		return nil, nil
	}
	nav := p.nav
	p.nav = nil
	return nil, nav
}

func (p *stubPage) View(width, height int) string { return p.id }

func TestAppStartsOnFirstPage(t *testing.T) {
	t.Parallel()

	landing := &stubPage{id: "landing"}
	logins := &stubPage{id: "logins"}
	app := NewApp(landing, logins)

	app.Init()
	if landing.inits != 1 {
		t.Fatalf("landing inits = %d, want 1", landing.inits)
	}
	if logins.inits != 0 {
		t.Fatalf("logins inits = %d, want 0", logins.inits)
	}
	if got := app.View(); got != "landing" {
		t.Fatalf("View() = %q, want landing", got)
	}
}

func TestAppSwitchesPageOnNav(t *testing.T) {
	t.Parallel()

	landing := &stubPage{id: "landing", nav: &PageNav{PageID: "logins"}}
	logins := &stubPage{id: "logins"}
	app := NewApp(landing, logins)

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	if got := app.View(); got != "logins" {
		t.Fatalf("View() after nav = %q, want logins", got)
	}
	if logins.inits != 1 {
		t.Fatalf("logins inits = %d, want 1 after switch", logins.inits)
	}
}

func TestAppEmptyNavTargetReturnsHome(t *testing.T) {
	t.Parallel()

	landing := &stubPage{id: "landing", nav: &PageNav{PageID: "logins"}}
	logins := &stubPage{id: "logins", nav: &PageNav{}}
	app := NewApp(landing, logins)

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	app.Update(tea.KeyMsg{Type: tea.KeyEscape})
	if got := app.View(); got != "landing" {
		t.Fatalf("View() after empty nav = %q, want landing", got)
	}
	if landing.inits != 1 {
		t.Fatalf("landing inits = %d, want 1 on re-entry", landing.inits)
	}
}

func TestAppIgnoresUnknownNavTarget(t *testing.T) {
	t.Parallel()

	landing := &stubPage{id: "landing", nav: &PageNav{PageID: "settings"}}
	app := NewApp(landing)

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	if got := app.View(); got != "landing" {
		t.Fatalf("View() after unknown nav = %q, want landing", got)
	}
}

func TestAppBroadcastsResize(t *testing.T) {
	t.Parallel()

	landing := &stubPage{id: "landing"}
	logins := &stubPage{id: "logins"}
	app := NewApp(landing, logins)

	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if len(landing.sizes) != 1 || len(logins.sizes) != 1 {
		t.Fatalf("resize deliveries = %d/%d, want 1/1", len(landing.sizes), len(logins.sizes))
	}
	if logins.sizes[0].Width != 120 {
		t.Fatalf("hidden page width = %d, want 120", logins.sizes[0].Width)
	}
}
