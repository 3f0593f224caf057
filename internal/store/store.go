package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/marqueelabs/marquee/internal/store/migrate"
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a lookup matches no user.
	ErrNotFound = errors.New("store: not found")
	// ErrInvalidEmail is returned for emails failing validation.
	ErrInvalidEmail = errors.New("store: invalid email")
	// ErrUnknownFeature is returned for usage counters that do not exist.
	ErrUnknownFeature = errors.New("store: unknown feature")
)

// Store manages the SQLite database connection and provides query methods.
type Store struct {
	db           *sql.DB
	mu           sync.RWMutex
	dbPath       string
	startTime    time.Time
	QueryTimeout time.Duration
}

// NewStore opens or creates a SQLite database.
// If dbPath is empty, an in-memory database is used.
// An optional queryTimeout can be passed; it defaults to 30s.
func NewStore(dbPath string, queryTimeout ...time.Duration) (*Store, error) {
	dsn := ":memory:"
	if dbPath != "" {
		// Ensure parent directory exists
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		dsn = dbPath
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// SQLite allows one writer; a single pooled connection also keeps
	// the in-memory database from vanishing between calls.
	db.SetMaxOpenConns(1)

	if err := migrate.NewRunner(db).Run(); err != nil {
		db.Close()
		return nil, err
	}

	qt := 30 * time.Second
	if len(queryTimeout) > 0 && queryTimeout[0] > 0 {
		qt = queryTimeout[0]
	}

	return &Store{
		db:           db,
		dbPath:       dbPath,
		startTime:    time.Now(),
		QueryTimeout: qt,
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct query access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// queryCtx returns a context with the store's configured query timeout.
func (s *Store) queryCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.QueryTimeout)
}
