package model

// StatQuerier provides read-only queries on login and usage data.
// Both read surfaces (HTTP API and socket RPC) expose exactly this contract.
type StatQuerier interface {
	UserCount() (int64, error)
	UsageTotals() ([]UsageCount, error)
	RecentLogins(limit int) ([]LoginRecord, error)
	LastLogin(email string) (LoginRecord, error)
	StatsSnapshot() (Snapshot, error)
}

// EventWriter provides the write side: committing interaction events.
type EventWriter interface {
	RecordLogin(email string) error
	IncrementUsage(email, feature string) error
}

// Store is the unified contract the service wires together.
type Store interface {
	StatQuerier
	EventWriter
}
