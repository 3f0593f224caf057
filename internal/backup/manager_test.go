package backup

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// sqliteHeader mimics the leading bytes of a database copy produced by
// the store's snapshot.
var sqliteHeader = []byte("SQLite format 3\x00")

type fakeSnapshotter struct {
	dbPath string
	count  int
}

func (f *fakeSnapshotter) DBPath() string { return f.dbPath }

func (f *fakeSnapshotter) SnapshotTo(dstPath string) error {
	f.count++
	return os.WriteFile(dstPath, sqliteHeader, 0644)
}

type recordingUploader struct {
	paths []string
}

func (u *recordingUploader) UploadFile(_ context.Context, localPath string) error {
	u.paths = append(u.paths, localPath)
	return nil
}

func TestNewManagerDisabled(t *testing.T) {
	t.Parallel()

	m, err := NewManager(&fakeSnapshotter{dbPath: "/tmp/user_logins.db"}, Config{})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if m != nil {
		t.Fatal("expected nil manager when backups are disabled")
	}
}

func TestNewManagerRejectsInMemoryStore(t *testing.T) {
	t.Parallel()

	_, err := NewManager(&fakeSnapshotter{dbPath: ""}, Config{
		Enabled:  true,
		LocalDir: t.TempDir(),
	})
	if err == nil {
		t.Fatal("expected error for a store without a database file")
	}
}

func TestRunOnceWritesSnapshotAndUploads(t *testing.T) {
	t.Parallel()

	localDir := t.TempDir()
	uploader := &recordingUploader{}
	m := &Manager{
		store:    &fakeSnapshotter{dbPath: "/tmp/user_logins.db"},
		cfg:      Config{Enabled: true, LocalDir: localDir, KeepLast: 4},
		uploader: uploader,
	}

	if err := m.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	files, err := filepath.Glob(filepath.Join(localDir, "marquee-*.db"))
	if err != nil {
		t.Fatalf("glob backups: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("backup files = %d, want 1", len(files))
	}
	data, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if !bytes.Equal(data, sqliteHeader) {
		t.Fatalf("backup contents = %q, want snapshot bytes", data)
	}
	if len(uploader.paths) != 1 || uploader.paths[0] != files[0] {
		t.Fatalf("uploaded %v, want [%s]", uploader.paths, files[0])
	}
}

func TestRunOncePrunesOldestBackups(t *testing.T) {
	t.Parallel()

	localDir := t.TempDir()
	stale := []string{
		filepath.Join(localDir, "marquee-20240101-000000.db"),
		filepath.Join(localDir, "marquee-20240102-000000.db"),
	}
	for _, p := range stale {
		if err := os.WriteFile(p, sqliteHeader, 0644); err != nil {
			t.Fatalf("seed %s: %v", p, err)
		}
	}

	m := &Manager{
		store: &fakeSnapshotter{dbPath: "/tmp/user_logins.db"},
		cfg:   Config{Enabled: true, LocalDir: localDir, KeepLast: 2},
	}
	if err := m.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	files, err := filepath.Glob(filepath.Join(localDir, "marquee-*.db"))
	if err != nil {
		t.Fatalf("glob backups: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("backup files = %d, want 2 after prune", len(files))
	}
	if _, err := os.Stat(stale[0]); !os.IsNotExist(err) {
		t.Fatalf("oldest backup %s should have been pruned", stale[0])
	}
}

type blockingUploader struct {
	started chan struct{}
	once    sync.Once
}

func (u *blockingUploader) UploadFile(ctx context.Context, _ string) error {
	u.once.Do(func() { close(u.started) })
	<-ctx.Done()
	return ctx.Err()
}

func TestStopCancelsInFlightUpload(t *testing.T) {
	t.Parallel()

	uploader := &blockingUploader{started: make(chan struct{})}
	m := &Manager{
		store: &fakeSnapshotter{dbPath: "/tmp/user_logins.db"},
		cfg: Config{
			Enabled:  true,
			Interval: 5 * time.Millisecond,
			LocalDir: t.TempDir(),
			KeepLast: 2,
		},
		uploader: uploader,
		done:     make(chan struct{}),
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())

	m.wg.Add(1)
	go m.loop()

	select {
	case <-uploader.started:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for upload to start")
	}

	stopped := make(chan struct{})
	go func() {
		m.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return; upload was not canceled")
	}
}
