package store

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/marqueelabs/marquee/internal/model"
)

// usageColumns maps feature names to their counter columns. Feature
// names arrive from the network, so column names are never built from
// the input directly.
var usageColumns = map[string]string{
	"voice-to-text": "voice_to_text_usage_count",
	"text-to-voice": "text_to_voice_usage_count",
	"pdf-chat":      "pdf_chat_usage_count",
}

// NormalizeEmail lowercases and trims an address the way the login
// table keys it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail applies the demo's permissive check: non-empty, contains
// "@" and ".".
func ValidEmail(email string) bool {
	e := strings.TrimSpace(email)
	return e != "" && strings.Contains(e, "@") && strings.Contains(e, ".")
}

// RecordLogin inserts or refreshes a user's login row.
func (s *Store) RecordLogin(email string) error {
	return s.recordLoginAt(email, time.Now())
}

// RecordLoginAt is RecordLogin with an explicit event time, used when
// replaying journaled events after a crash.
func (s *Store) RecordLoginAt(email string, at time.Time) error {
	return s.recordLoginAt(email, at)
}

func (s *Store) recordLoginAt(email string, at time.Time) error {
	if !ValidEmail(email) {
		return ErrInvalidEmail
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_logins (email, last_login_time, login_count)
		VALUES (?, ?, 1)
		ON CONFLICT(email) DO UPDATE SET
			last_login_time = excluded.last_login_time,
			login_count     = login_count + 1`,
		NormalizeEmail(email), at)
	if err != nil {
		return fmt.Errorf("store: record login: %w", err)
	}
	return nil
}

// IncrementUsage bumps one feature counter for a user. The user's row
// is created if the login that preceded the usage was never committed.
func (s *Store) IncrementUsage(email, feature string) error {
	if !ValidEmail(email) {
		return ErrInvalidEmail
	}
	column, ok := usageColumns[feature]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFeature, feature)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	query := fmt.Sprintf(`
		INSERT INTO user_logins (email, last_login_time, login_count, %[1]s)
		VALUES (?, ?, 0, 1)
		ON CONFLICT(email) DO UPDATE SET %[1]s = %[1]s + 1`, column)

	if _, err := s.db.ExecContext(ctx, query, NormalizeEmail(email), time.Now()); err != nil {
		return fmt.Errorf("store: increment %s: %w", feature, err)
	}
	return nil
}

// UserCount returns the number of tracked users.
func (s *Store) UserCount() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM user_logins").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("store: user count: %w", err)
	}
	return count, nil
}

// UsageTotals returns aggregate per-feature usage counts, ordered the
// way the features are declared.
func (s *Store) UsageTotals() ([]model.UsageCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	totals := make([]model.UsageCount, 0, len(model.KnownFeatures))
	for _, feature := range model.KnownFeatures {
		column := usageColumns[feature]
		var total sql.NullInt64
		query := fmt.Sprintf("SELECT SUM(%s) FROM user_logins", column)
		if err := s.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
			return nil, fmt.Errorf("store: usage total %s: %w", feature, err)
		}
		totals = append(totals, model.UsageCount{Feature: feature, Count: total.Int64})
	}
	return totals, nil
}

// RecentLogins returns the most recently seen users, newest first.
func (s *Store) RecentLogins(limit int) ([]model.LoginRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT email, last_login_time, login_count
		FROM user_logins
		ORDER BY last_login_time DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: recent logins: %w", err)
	}
	defer rows.Close()

	var records []model.LoginRecord
	for rows.Next() {
		var r model.LoginRecord
		if err := rows.Scan(&r.Email, &r.LastLoginTime, &r.LoginCount); err != nil {
			return nil, fmt.Errorf("store: scan login: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// LastLogin returns one user's login row, or ErrNotFound.
func (s *Store) LastLogin(email string) (model.LoginRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	var r model.LoginRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT email, last_login_time, login_count
		FROM user_logins WHERE email = ?`,
		NormalizeEmail(email)).Scan(&r.Email, &r.LastLoginTime, &r.LoginCount)
	if errors.Is(err, sql.ErrNoRows) {
		return model.LoginRecord{}, ErrNotFound
	}
	if err != nil {
		return model.LoginRecord{}, fmt.Errorf("store: last login: %w", err)
	}
	return r, nil
}

// StatsSnapshot assembles the landing-page headline numbers in one
// call: tracked users, total feature interactions, and the share of
// users who came back at least once.
func (s *Store) StatsSnapshot() (model.Snapshot, error) {
	users, err := s.UserCount()
	if err != nil {
		return model.Snapshot{}, err
	}
	totals, err := s.UsageTotals()
	if err != nil {
		return model.Snapshot{}, err
	}

	var interactions int64
	for _, t := range totals {
		interactions += t.Count
	}

	returning, err := s.returningUsers()
	if err != nil {
		return model.Snapshot{}, err
	}
	retention := 0.0
	if users > 0 {
		retention = math.Round(float64(returning) / float64(users) * 100)
	}

	snap := model.Snapshot{
		Stats: []model.Stat{
			{Name: "users", Label: fmt.Sprintf("%d+", users), Value: float64(users), Suffix: "+"},
			{Name: "interactions", Label: fmt.Sprintf("%d+", interactions), Value: float64(interactions), Suffix: "+"},
			{Name: "retention", Label: fmt.Sprintf("%d%%", int(retention)), Value: retention, Suffix: "%"},
		},
		UsageTotals: totals,
		UserCount:   users,
		Uptime:      time.Since(s.startTime),
	}
	return snap, nil
}

func (s *Store) returningUsers() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	var count int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM user_logins WHERE login_count > 1").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("store: returning users: %w", err)
	}
	return count, nil
}
