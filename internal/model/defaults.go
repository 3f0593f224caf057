package model

import "time"

// Shared defaults used by both the server and TUI binaries.
const (
	DefaultUpdateInterval = 2 * time.Second
	DefaultStatDuration   = 2 * time.Second
	DefaultSkin           = "default"
)

// Features tracked by the usage counters, mirroring the demo application's
// tiles. Unknown feature names are rejected at the API boundary.
var KnownFeatures = []string{"voice-to-text", "text-to-voice", "pdf-chat"}

// KnownFeature reports whether name is one of the tracked features.
func KnownFeature(name string) bool {
	for _, f := range KnownFeatures {
		if f == name {
			return true
		}
	}
	return false
}
