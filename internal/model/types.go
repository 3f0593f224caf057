package model

import "time"

// LoginRecord represents one tracked user across the system.
// It is the canonical type for storage, transport (socket RPC), and display.
type LoginRecord struct {
	Email         string
	LastLoginTime time.Time
	LoginCount    int64
}

// UsageEvent is one recorded interaction: a login or a feature use.
// Events are journaled before being committed to the store.
type UsageEvent struct {
	Kind    string // "login" or "usage"
	Email   string
	Feature string // set when Kind == "usage"
	Time    time.Time
}

// UsageCount represents aggregate uses of a single feature.
type UsageCount struct {
	Feature string
	Count   int64
}

// Stat is one headline number shown on the landing page, e.g. "1500+"
// users or "98%" satisfaction. Suffix is rendered by the display layer,
// never baked into Value.
type Stat struct {
	Name   string
	Label  string
	Value  float64
	Suffix string // "+", "%", or ""
}

// Snapshot bundles everything the landing page asks the service for
// in one round trip.
type Snapshot struct {
	Stats       []Stat
	UsageTotals []UsageCount
	UserCount   int64
	Uptime      time.Duration
}
