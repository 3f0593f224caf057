package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrInMemoryStore indicates the store uses an in-memory database and cannot be snapshotted.
var ErrInMemoryStore = errors.New("store: in-memory database cannot be snapshotted")

// DBPath returns the configured database path. Empty means in-memory.
func (s *Store) DBPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dbPath
}

// SnapshotTo writes a consistent copy of the database to dstPath using
// VACUUM INTO, which produces a compacted standalone file without
// blocking other readers for the duration of the copy.
func (s *Store) SnapshotTo(dstPath string) error {
	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	s.mu.RLock()
	dbPath := s.dbPath
	s.mu.RUnlock()
	if dbPath == "" {
		return ErrInMemoryStore
	}

	// VACUUM INTO refuses to overwrite; write to a temp name and rename.
	tmp := dstPath + ".tmp"
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear stale snapshot temp: %w", err)
	}

	ctx, cancel := s.queryCtx()
	defer cancel()
	if _, err := s.db.ExecContext(ctx, "VACUUM INTO ?", tmp); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("vacuum into: %w", err)
	}
	if err := os.Rename(tmp, dstPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("finalize snapshot: %w", err)
	}
	return nil
}
