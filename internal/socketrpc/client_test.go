package socketrpc_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/marqueelabs/marquee/internal/model"
	"github.com/marqueelabs/marquee/internal/socketrpc"
)

// mockQuerier is a minimal StatQuerier for roundtrip testing.
type mockQuerier struct{}

func (m *mockQuerier) UserCount() (int64, error) { return 42, nil }
func (m *mockQuerier) UsageTotals() ([]model.UsageCount, error) {
	return []model.UsageCount{
		{Feature: "voice-to-text", Count: 10},
		{Feature: "pdf-chat", Count: 5},
	}, nil
}
func (m *mockQuerier) RecentLogins(limit int) ([]model.LoginRecord, error) {
	return []model.LoginRecord{{
		Email:         "roundtrip@example.com",
		LastLoginTime: time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC),
		LoginCount:    2,
	}}, nil
}
func (m *mockQuerier) LastLogin(email string) (model.LoginRecord, error) {
	return model.LoginRecord{Email: email, LoginCount: 7}, nil
}
func (m *mockQuerier) StatsSnapshot() (model.Snapshot, error) {
	return model.Snapshot{
		Stats: []model.Stat{
			{Name: "users", Label: "42+", Value: 42, Suffix: "+"},
		},
		UserCount: 42,
		Uptime:    90 * time.Second,
	}, nil
}

func startTestServer(t *testing.T) (*socketrpc.Client, func()) {
	t.Helper()
	sockPath := filepath.Join(t.TempDir(), "test.sock")

	srv := socketrpc.NewServer(sockPath, &mockQuerier{})
	if err := srv.Start(); err != nil {
		t.Fatalf("server start: %v", err)
	}

	client, err := socketrpc.Dial(sockPath)
	if err != nil {
		srv.Stop()
		t.Fatalf("dial: %v", err)
	}

	return client, func() {
		client.Close()
		srv.Stop()
	}
}

func TestClientServerRoundtrip(t *testing.T) {
	client, cleanup := startTestServer(t)
	defer cleanup()

	count, err := client.UserCount()
	if err != nil {
		t.Fatalf("UserCount: %v", err)
	}
	if count != 42 {
		t.Errorf("UserCount = %d, want 42", count)
	}

	totals, err := client.UsageTotals()
	if err != nil {
		t.Fatalf("UsageTotals: %v", err)
	}
	if len(totals) != 2 || totals[0].Feature != "voice-to-text" {
		t.Errorf("UsageTotals = %v", totals)
	}

	logins, err := client.RecentLogins(5)
	if err != nil {
		t.Fatalf("RecentLogins: %v", err)
	}
	if len(logins) != 1 || logins[0].Email != "roundtrip@example.com" {
		t.Errorf("RecentLogins = %v", logins)
	}

	rec, err := client.LastLogin("who@example.com")
	if err != nil {
		t.Fatalf("LastLogin: %v", err)
	}
	if rec.Email != "who@example.com" || rec.LoginCount != 7 {
		t.Errorf("LastLogin = %+v", rec)
	}

	snap, err := client.StatsSnapshot()
	if err != nil {
		t.Fatalf("StatsSnapshot: %v", err)
	}
	if snap.UserCount != 42 || snap.Uptime != 90*time.Second {
		t.Errorf("StatsSnapshot = %+v", snap)
	}
	if len(snap.Stats) != 1 || snap.Stats[0].Suffix != "+" {
		t.Errorf("Stats = %v", snap.Stats)
	}
}

func TestClientSequentialCalls(t *testing.T) {
	client, cleanup := startTestServer(t)
	defer cleanup()

	for i := 0; i < 10; i++ {
		if _, err := client.UserCount(); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
}
