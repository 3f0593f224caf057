package journal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/marqueelabs/marquee/internal/model"
)

func TestAppendReplayCommit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.journal")

	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })

	ev1 := model.UsageEvent{Kind: "login", Email: "a@example.com", Time: time.Now().UTC()}
	ev2 := model.UsageEvent{Kind: "usage", Email: "a@example.com", Feature: "pdf-chat", Time: time.Now().UTC()}

	seq1, err := j.Append(ev1)
	if err != nil {
		t.Fatalf("Append ev1: %v", err)
	}
	seq2, err := j.Append(ev2)
	if err != nil {
		t.Fatalf("Append ev2: %v", err)
	}
	if seq2 <= seq1 {
		t.Fatalf("sequence did not advance: seq1=%d seq2=%d", seq1, seq2)
	}

	if err := j.Commit(seq1); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	var replayed []string
	err = j.Replay(func(_ uint64, ev model.UsageEvent) error {
		replayed = append(replayed, ev.Kind)
		return nil
	})
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(replayed) != 1 || replayed[0] != "usage" {
		t.Fatalf("Replay kinds=%v, want [usage]", replayed)
	}
}

func TestOpenCompactsCommittedEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.journal")

	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	seq, err := j.Append(model.UsageEvent{Kind: "login", Email: "a@example.com", Time: time.Now().UTC()})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := j.Commit(seq); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	j2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = j2.Close() }()

	replayed := 0
	if err := j2.Replay(func(uint64, model.UsageEvent) error {
		replayed++
		return nil
	}); err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if replayed != 0 {
		t.Errorf("replayed %d committed events after compaction, want 0", replayed)
	}

	// Sequence numbers keep climbing across restarts.
	next, err := j2.Append(model.UsageEvent{Kind: "login", Email: "b@example.com", Time: time.Now().UTC()})
	if err != nil {
		t.Fatalf("Append after reopen: %v", err)
	}
	if next <= seq {
		t.Errorf("seq after reopen = %d, want > %d", next, seq)
	}
}

func TestOpenIgnoresPartialTrailingLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.journal")

	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_, err = j.Append(model.UsageEvent{Kind: "login", Email: "ok@example.com", Time: time.Now().UTC()})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Simulate torn write.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if _, err := f.WriteString(`{"seq":999,"event":`); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close torn writer: %v", err)
	}

	j2, err := Open(path)
	if err != nil {
		t.Fatalf("Open second: %v", err)
	}
	defer func() { _ = j2.Close() }()

	var replayed []string
	err = j2.Replay(func(_ uint64, ev model.UsageEvent) error {
		replayed = append(replayed, ev.Email)
		return nil
	})
	if err != nil {
		t.Fatalf("Replay second: %v", err)
	}
	if len(replayed) != 1 || replayed[0] != "ok@example.com" {
		t.Fatalf("Replay after torn write=%v, want [ok@example.com]", replayed)
	}
}
