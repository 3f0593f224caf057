package tui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/marqueelabs/marquee/internal/anim"
	"github.com/marqueelabs/marquee/internal/model"
)

func TestStatsStripViewKeepsSuffixes(t *testing.T) {
	t.Parallel()

	strip := NewStatsStrip([]model.Stat{
		{Name: "users", Label: "1,500+"},
		{Name: "retention", Label: "98%"},
	}, 10*anim.TickInterval)

	// Before the strip is armed the counters sit at zero, suffix intact.
	view := strip.View(60)
	for _, want := range []string{"0+", "0%"} {
		if !strings.Contains(view, want) {
			t.Fatalf("idle view missing %q:\n%s", want, view)
		}
	}

	strip.Start()
	if !strip.Advance() {
		t.Fatal("strip finished on the first frame")
	}

	// Mid-animation frames render the partial value with its suffix.
	view = strip.View(60)
	users, retention := strip.items[0], strip.items[1]
	if users.display <= 0 || users.display >= 1500 {
		t.Fatalf("users mid-frame display = %d, want between 0 and 1500", users.display)
	}
	if !strings.Contains(view, fmt.Sprintf("%d+", users.display)) {
		t.Fatalf("mid-frame view missing %d+:\n%s", users.display, view)
	}
	if !strings.Contains(view, fmt.Sprintf("%d%%", retention.display)) {
		t.Fatalf("mid-frame view missing %d%%:\n%s", retention.display, view)
	}
	if strings.Contains(view, "1500+") {
		t.Fatalf("mid-frame view already shows the final value:\n%s", view)
	}

	for i := 0; strip.Advance(); i++ {
		if i > 1000 {
			t.Fatal("strip never finished")
		}
	}

	// The terminal frame lands on the exact targets, suffixes preserved.
	view = strip.View(60)
	for _, want := range []string{"1500+", "98%"} {
		if !strings.Contains(view, want) {
			t.Fatalf("final view missing %q:\n%s", want, view)
		}
	}
}
