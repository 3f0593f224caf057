package tui

import "github.com/marqueelabs/marquee/internal/anim"

// sectionBounds places one section in the page's line coordinates.
type sectionBounds struct {
	top   int
	lines int
}

// Geometry implements anim.IntersectionSource for the landing page's
// scroll viewport. The page owns all line math: sections register here,
// the page updates bounds on reflow, and every scroll pushes fresh
// visible fractions to subscribers in layout order (which is viewport
// entry order when scrolling down a column of sections).
type Geometry struct {
	bounds    map[any]sectionBounds
	reporters map[any]func(fraction float64)
	order     []any

	offset int // first visible page line
	height int // viewport height in lines
}

var _ anim.IntersectionSource = (*Geometry)(nil)

// NewGeometry creates an empty geometry.
func NewGeometry() *Geometry {
	return &Geometry{
		bounds:    make(map[any]sectionBounds),
		reporters: make(map[any]func(float64)),
	}
}

// Watch implements anim.IntersectionSource. The current fraction is
// reported immediately so targets already on screen fire without
// waiting for a scroll.
func (g *Geometry) Watch(target any, report func(fraction float64)) (cancel func()) {
	g.reporters[target] = report
	g.order = append(g.order, target)
	if b, ok := g.bounds[target]; ok && g.height > 0 {
		report(visibleFraction(b, g.offset, g.height))
	}
	return func() {
		delete(g.reporters, target)
	}
}

// SetBounds positions a section. Bounds changes do not report on their
// own; the page calls Scroll (or Reflow) afterwards.
func (g *Geometry) SetBounds(target any, top, lines int) {
	g.bounds[target] = sectionBounds{top: top, lines: lines}
}

// Scroll moves the viewport and reports each subscribed target's
// visible fraction in layout order.
func (g *Geometry) Scroll(offset, height int) {
	g.offset = offset
	g.height = height

	// Iterate a copy: reports may cancel subscriptions mid-loop.
	targets := make([]any, len(g.order))
	copy(targets, g.order)
	for _, target := range targets {
		report, ok := g.reporters[target]
		if !ok {
			continue
		}
		b, ok := g.bounds[target]
		if !ok {
			continue
		}
		report(visibleFraction(b, offset, height))
	}
}

// visibleFraction returns how much of a section overlaps the viewport
// window [offset, offset+height).
func visibleFraction(b sectionBounds, offset, height int) float64 {
	if b.lines <= 0 || height <= 0 {
		return 0
	}
	top := max(b.top, offset)
	bottom := min(b.top+b.lines, offset+height)
	if bottom <= top {
		return 0
	}
	return float64(bottom-top) / float64(b.lines)
}
