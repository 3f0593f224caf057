package tui

import tea "github.com/charmbracelet/bubbletea"

// App hosts the landing and logins screens and routes messages to
// whichever one is active. Pages request switches through PageNav.
type App struct {
	pages  map[string]Page
	active Page
	home   string

	width  int
	height int
}

// NewApp wires the given pages into one program. The first page is the
// home screen shown at startup; a PageNav with an empty target returns
// there.
func NewApp(pages ...Page) *App {
	byID := make(map[string]Page, len(pages))
	for _, p := range pages {
		byID[p.ID()] = p
	}
	a := &App{pages: byID}
	if len(pages) > 0 {
		a.home = pages[0].ID()
		a.active = pages[0]
	}
	return a
}

func (a *App) Init() tea.Cmd {
	if a.active == nil {
		return nil
	}
	return a.active.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.active == nil {
		return a, nil
	}

	// Resizes go to every page so a later switch does not render
	// against stale dimensions. Commands from hidden pages are dropped.
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		a.width, a.height = size.Width, size.Height
		for _, p := range a.pages {
			if p != a.active {
				p.Update(msg)
			}
		}
	}

	cmd, nav := a.active.Update(msg)
	if nav == nil {
		return a, cmd
	}

	target := nav.PageID
	if target == "" {
		target = a.home
	}
	next, ok := a.pages[target]
	if !ok {
		return a, cmd
	}
	a.active = next
	return a, tea.Batch(cmd, next.Init())
}

func (a *App) View() string {
	if a.active == nil {
		return ""
	}
	return a.active.View(a.width, a.height)
}
