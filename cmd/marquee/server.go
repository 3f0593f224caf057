package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/marqueelabs/marquee/internal/backup"
	"github.com/marqueelabs/marquee/internal/httpserver"
	"github.com/marqueelabs/marquee/internal/ingest"
	"github.com/marqueelabs/marquee/internal/journal"
	"github.com/marqueelabs/marquee/internal/socketrpc"
	"github.com/marqueelabs/marquee/internal/store"
)

// snapshotLogInterval is how often the service logs a stats heartbeat.
const snapshotLogInterval = time.Minute

// runServer starts the headless stats service: SQLite store, event
// journal, HTTP API, and the socket RPC endpoint the TUI talks to.
func runServer(cfg appConfig) error {
	cleanupLogger := configureRuntimeLogger()
	defer cleanupLogger()

	if dir := filepath.Dir(cfg.DBPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	st, err := store.NewStore(cfg.DBPath, cfg.QueryTimeout)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer st.Close()

	// Open the event journal for crash-safe replay of uncommitted events.
	var eventJournal *journal.Journal
	if cfg.JournalEnabled {
		if dir := filepath.Dir(cfg.JournalPath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("creating journal directory: %w", err)
			}
		}
		eventJournal, err = journal.Open(cfg.JournalPath)
		if err != nil {
			return fmt.Errorf("failed to open event journal: %w", err)
		}
		defer eventJournal.Close()
		if err := ingest.Replay(eventJournal, st); err != nil {
			return fmt.Errorf("failed to replay event journal: %w", err)
		}
	}

	recorder := ingest.NewRecorder(st, eventJournal)

	if cfg.SeedDemoData {
		if err := seedDemoData(recorder); err != nil {
			log.Printf("seed: %v", err)
		}
	}

	// Start periodic backups when enabled.
	backupManager, err := backup.NewManager(st, backup.Config{
		Enabled:        cfg.BackupEnabled,
		Interval:       cfg.BackupInterval,
		LocalDir:       cfg.BackupLocalDir,
		KeepLast:       cfg.BackupKeepLast,
		BucketURL:      cfg.BackupBucketURL,
		S3Endpoint:     cfg.BackupS3Endpoint,
		S3Region:       cfg.BackupS3Region,
		S3AccessKey:    cfg.BackupS3AccessKey,
		S3SecretKey:    cfg.BackupS3SecretKey,
		S3SessionToken: cfg.BackupS3SessionToken,
		S3UseSSL:       cfg.BackupS3UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize backups: %w", err)
	}
	if backupManager != nil {
		defer backupManager.Stop()
	}

	// Start HTTP API server if enabled
	if cfg.APIEnabled {
		apiServer := httpserver.NewServer(cfg.APIAddr, st, recorder)
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("failed to start API server: %w", err)
		}
		defer apiServer.Stop()
	}

	// Start socket RPC server for TUI IPC
	sockServer := socketrpc.NewServer(cfg.SocketPath, st)
	if err := sockServer.Start(); err != nil {
		log.Printf("Warning: failed to start socket server: %v", err)
	} else {
		defer sockServer.Stop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		// Shutdown deadline starts now, not at boot.
		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Println("\nForce shutdown.")
		case <-deadline.C:
			fmt.Println("Shutdown timed out, forcing exit.")
		}
		cleanupSocket(cfg.SocketPath)
		os.Exit(1)
	}()

	printStartupBanner(cfg)

	g, gctx := errgroup.WithContext(ctx)

	// Periodic stats heartbeat in the service log.
	g.Go(func() error {
		ticker := time.NewTicker(snapshotLogInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				snap, err := st.StatsSnapshot()
				if err != nil {
					log.Printf("stats heartbeat: %v", err)
					continue
				}
				log.Printf("stats: users=%d uptime=%s", snap.UserCount, snap.Uptime.Round(time.Second))
			}
		}
	})

	// Wait for context cancellation (from signal handler) in the errgroup
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("server: errgroup exited with error: %v", err)
	}

	cancel()
	signal.Stop(sigCh)

	return nil
}

// seedDemoData records the walkthrough a demo user takes: register,
// log in a couple of times, try every feature.
func seedDemoData(recorder *ingest.Recorder) error {
	users := []string{"ada@example.com", "grace@example.com", "linus@example.com"}
	for i, email := range users {
		for j := 0; j <= i; j++ {
			if err := recorder.RecordLogin(email); err != nil {
				return fmt.Errorf("seeding login for %s: %w", email, err)
			}
		}
	}
	uses := []struct{ email, feature string }{
		{"ada@example.com", "voice-to-text"},
		{"ada@example.com", "pdf-chat"},
		{"grace@example.com", "text-to-voice"},
		{"grace@example.com", "pdf-chat"},
		{"linus@example.com", "voice-to-text"},
	}
	for _, u := range uses {
		if err := recorder.RecordUsage(u.email, u.feature); err != nil {
			return fmt.Errorf("seeding usage for %s: %w", u.email, err)
		}
	}
	log.Printf("seeded %d demo users", len(users))
	return nil
}

func cleanupSocket(path string) {
	if path != "" {
		os.Remove(path)
	}
}

func configureRuntimeLogger() func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "marquee")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logPath := filepath.Join(logDir, "marquee.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}

func printStartupBanner(cfg appConfig) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	check := green.Render("●")
	dot := dim.Render("●")

	logo := cyan.Bold(true).Render(`
    ╔╦╗╔═╗╦═╗╔═╗ ╦ ╦╔═╗╔═╗
    ║║║╠═╣╠╦╝║═╬╗║ ║║╣ ║╣
    ╩ ╩╩ ╩╩╚═╚═╝╚╚═╝╚═╝╚═╝`)

	fmt.Println(logo)
	fmt.Printf("    %s\n\n", dim.Render("v"+version))
	if cfg.APIEnabled {
		fmt.Printf("  %s HTTP API     http://%s\n", check, cfg.APIAddr)
	} else {
		fmt.Printf("  %s HTTP API     disabled\n", dot)
	}
	fmt.Printf("  %s Socket RPC   %s\n", check, cfg.SocketPath)
	fmt.Printf("  %s Database     %s\n", check, cfg.DBPath)
	if cfg.JournalEnabled {
		fmt.Printf("  %s Journal      %s\n", check, cfg.JournalPath)
	} else {
		fmt.Printf("  %s Journal      disabled\n", dot)
	}
	fmt.Println()
	fmt.Printf("  %s\n", dim.Render("Run marquee-tui to open the landing page. Ctrl+C to stop."))
	fmt.Println()
}
