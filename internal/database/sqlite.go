// Package database provides connectivity and read-path access to the
// externally-owned sqlite database that holds content and category tables.
package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite driver
)

const (
	// DefaultMaxOpenConns is the default maximum number of open connections.
	// sqlite serializes writers, but this service only reads; a small pool
	// keeps concurrent page renders from queueing on one connection.
	DefaultMaxOpenConns = 4
	// DefaultMaxIdleConns is the default maximum number of idle connections.
	DefaultMaxIdleConns = 2
	// DefaultConnMaxLifetime is the default maximum connection lifetime.
	DefaultConnMaxLifetime = 5 * time.Minute
	// DefaultBusyTimeout is how long the driver waits on a locked database
	// before surfacing SQLITE_BUSY.
	DefaultBusyTimeout = 5 * time.Second
)

// Config holds database configuration.
type Config struct {
	Path        string
	BusyTimeout time.Duration
}

// NewSQLiteConnection opens the content database read path.
func NewSQLiteConnection(cfg Config) (*sqlx.DB, error) {
	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = DefaultBusyTimeout
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL&mode=ro", cfg.Path, busy.Milliseconds())

	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	return db, nil
}
