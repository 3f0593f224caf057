package socketrpc

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/marqueelabs/marquee/internal/model"
)

// stubQuerier returns fixed values for dispatch unit testing.
type stubQuerier struct{}

func (q *stubQuerier) UserCount() (int64, error) { return 1500, nil }
func (q *stubQuerier) UsageTotals() ([]model.UsageCount, error) {
	return []model.UsageCount{{Feature: "pdf-chat", Count: 42}}, nil
}
func (q *stubQuerier) RecentLogins(limit int) ([]model.LoginRecord, error) {
	return []model.LoginRecord{{
		Email:         "a@example.com",
		LastLoginTime: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		LoginCount:    3,
	}}, nil
}
func (q *stubQuerier) LastLogin(email string) (model.LoginRecord, error) {
	return model.LoginRecord{Email: email, LoginCount: 1}, nil
}
func (q *stubQuerier) StatsSnapshot() (model.Snapshot, error) {
	return model.Snapshot{UserCount: 1500}, nil
}

func newTestDispatcher() *Server {
	return &Server{stats: &stubQuerier{}}
}

func TestDispatch_AllMethods(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	tests := []struct {
		method string
		params string
	}{
		{"UserCount", ""},
		{"UsageTotals", ""},
		{"RecentLogins", `{"Limit": 5}`},
		{"LastLogin", `{"Email": "a@example.com"}`},
		{"StatsSnapshot", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			req := Request{JSONRPC: "2.0", ID: 1, Method: tt.method, Params: json.RawMessage(tt.params)}
			resp := srv.dispatch(req)
			if resp.Error != nil {
				t.Fatalf("dispatch(%s) error: %v", tt.method, resp.Error)
			}
			if len(resp.Result) == 0 {
				t.Errorf("dispatch(%s) returned empty result", tt.method)
			}
		})
	}
}

func TestDispatch_MethodNotFound(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	resp := srv.dispatch(Request{JSONRPC: "2.0", ID: 7, Method: "DropTables"})
	if resp.Error == nil || resp.Error.Code != -32601 {
		t.Fatalf("expected -32601 method not found, got %+v", resp.Error)
	}
}

func TestDispatch_InvalidParams(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	resp := srv.dispatch(Request{
		JSONRPC: "2.0",
		ID:      2,
		Method:  "LastLogin",
		Params:  json.RawMessage(`{"Email": 12`),
	})
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Fatalf("expected -32602 invalid params, got %+v", resp.Error)
	}
}

func TestDispatch_ResultShape(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	resp := srv.dispatch(Request{JSONRPC: "2.0", ID: 3, Method: "UserCount"})
	var count int64
	if err := json.Unmarshal(resp.Result, &count); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if count != 1500 {
		t.Errorf("UserCount = %d, want 1500", count)
	}
}
