package anim

import "time"

// Ticker is the minimal surface of time.Ticker the animator needs.
// It exists so tests can drive ticks by hand.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock provides time-related operations. Injecting it keeps every
// animation deterministic under test.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// SystemClock is the default Clock implementation backed by the
// standard library.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{time.NewTicker(d)}
}

type systemTicker struct{ t *time.Ticker }

func (s systemTicker) C() <-chan time.Time { return s.t.C }
func (s systemTicker) Stop()               { s.t.Stop() }
