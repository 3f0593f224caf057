package socketrpc

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// JSON-RPC 2.0 Method Reference
//
// The socket RPC server exposes model.StatQuerier over a Unix domain
// socket. Each method maps 1:1 to the StatQuerier interface.
//
//   Method          Params              Result
//   ─────────────   ─────────────────   ──────────────────
//   UserCount       (none)              int64
//   UsageTotals     (none)              []UsageCount
//   RecentLogins    {Limit: int}        []LoginRecord
//   LastLogin       {Email: string}     LoginRecord
//   StatsSnapshot   (none)              Snapshot
//
// Error codes follow JSON-RPC 2.0:
//   -32700  Parse error (malformed JSON)
//   -32601  Method not found
//   -32602  Invalid params
//   -32603  Internal error (marshal failure)
//   -32000  Application error (query failure)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string { return e.Message }

// DefaultSocketPath returns the default Unix socket path.
// It prefers $XDG_RUNTIME_DIR/marquee/marquee.sock, falling back to
// ~/.local/state/marquee/marquee.sock.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "marquee", "marquee.sock")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/marquee.sock"
	}
	return filepath.Join(home, ".local", "state", "marquee", "marquee.sock")
}
