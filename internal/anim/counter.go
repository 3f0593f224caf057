package anim

import (
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
)

// TickInterval is one animation step, approximating a 60Hz display frame.
const TickInterval = 16 * time.Millisecond

// State tracks a counter's lifecycle. Done is terminal: a finished
// counter never re-enters Running.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateDone
)

// Counter advances a displayed value toward a target in fixed ticks.
// It is a pure state machine: callers own the timer that drives Tick.
type Counter struct {
	target    float64
	current   float64
	increment float64
	state     State
}

// NewCounter creates a counter that reaches target after roughly
// duration has elapsed at one Tick per TickInterval. Negative targets
// are clamped to zero.
func NewCounter(target float64, duration time.Duration) *Counter {
	if target < 0 {
		target = 0
	}
	ticks := float64(duration / TickInterval)
	if ticks < 1 {
		ticks = 1
	}
	return &Counter{
		target:    target,
		increment: target / ticks,
	}
}

// Tick advances the counter by one step and returns the value to
// display. Intermediate values are rounded up to the next integer and
// never decrease. The first tick that meets or passes the target
// returns the exact integer target with done=true, regardless of
// floating-point drift on the way there; later ticks keep returning
// the terminal value.
func (c *Counter) Tick() (value int, done bool) {
	if c.state == StateDone {
		return int(math.Ceil(c.target)), true
	}
	c.state = StateRunning
	c.current += c.increment
	if c.current >= c.target {
		c.current = c.target
		c.state = StateDone
		return int(math.Ceil(c.target)), true
	}
	return int(math.Ceil(c.current)), false
}

// Value returns the current display value without advancing.
func (c *Counter) Value() int {
	if c.state == StateDone {
		return int(math.Ceil(c.target))
	}
	return int(math.Ceil(c.current))
}

// State returns the counter's lifecycle state.
func (c *Counter) State() State { return c.state }

// ParseStatLabel splits a stat label like "1500+", "98%" or "342" into
// its numeric target and display suffix. Thousands separators are
// tolerated. ok is false for text that carries no leading number; the
// caller is expected to fall back to showing the label as-is.
func ParseStatLabel(label string) (target float64, suffix string, ok bool) {
	s := strings.TrimSpace(label)
	switch {
	case strings.HasSuffix(s, "+"):
		suffix = "+"
	case strings.HasSuffix(s, "%"):
		suffix = "%"
	}
	s = strings.TrimSuffix(s, suffix)
	s = strings.ReplaceAll(s, ",", "")
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || n < 0 {
		return 0, "", false
	}
	return n, suffix, true
}

// Animator runs counters to completion on their own tickers.
type Animator struct {
	clock Clock
}

// NewAnimator creates an animator driven by clock. A nil clock means
// the system clock.
func NewAnimator(clock Clock) *Animator {
	if clock == nil {
		clock = SystemClock
	}
	return &Animator{clock: clock}
}

// Animate counts from zero to target over duration, calling render
// once per tick with the value to display. Exactly one terminal call
// receives the integer target, after which the ticker is stopped. The
// returned stop function tears the animation down early, for callers
// whose display target disappears mid-run; render is never invoked
// after stop returns.
func (a *Animator) Animate(target float64, duration time.Duration, render func(value int)) (stop func()) {
	counter := NewCounter(target, duration)
	ticker := a.clock.NewTicker(TickInterval)
	quit := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-ticker.C():
				v, done := counter.Tick()
				render(v)
				if done {
					return
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(quit)
			wg.Wait()
		})
	}
}
