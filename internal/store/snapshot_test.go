package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestSnapshotToCreatesReadableCopy(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "marquee.db")

	s, err := NewStore(dbPath, 5*time.Second)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer s.Close()

	if err := s.RecordLogin("ada@example.com"); err != nil {
		t.Fatalf("RecordLogin: %v", err)
	}

	snapPath := filepath.Join(dir, "backups", "snapshot.db")
	if err := s.SnapshotTo(snapPath); err != nil {
		t.Fatalf("SnapshotTo: %v", err)
	}

	snap, err := NewStore(snapPath, 5*time.Second)
	if err != nil {
		t.Fatalf("opening snapshot: %v", err)
	}
	defer snap.Close()

	count, err := snap.UserCount()
	if err != nil {
		t.Fatalf("UserCount on snapshot: %v", err)
	}
	if count != 1 {
		t.Errorf("snapshot UserCount = %d, want 1", count)
	}
}

func TestSnapshotToRejectsInMemoryStore(t *testing.T) {
	s := newTestStore(t)

	err := s.SnapshotTo(filepath.Join(t.TempDir(), "snapshot.db"))
	if !errors.Is(err, ErrInMemoryStore) {
		t.Fatalf("err = %v, want ErrInMemoryStore", err)
	}
}
