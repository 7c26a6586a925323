package database

import (
	"errors"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// Sentinel errors for the §-style taxonomy the HTTP layer maps to status
// codes. Query failures inside a resolution tier never surface these; only
// connection-level failures do.
var (
	// ErrBusy indicates transient contention (SQLITE_BUSY / SQLITE_LOCKED)
	// that survived the bounded retry loop.
	ErrBusy = errors.New("database temporarily busy")
	// ErrCorrupt indicates storage corruption. Never retried.
	ErrCorrupt = errors.New("database corruption detected")
)

// IsRetryable reports whether the error is transient lock contention worth
// retrying with backoff.
func IsRetryable(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.Code == sqlite3.ErrBusy || serr.Code == sqlite3.ErrLocked
	}
	return false
}

// Classify maps a raw driver error onto the service error taxonomy. Errors
// that do not match a known class are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var serr sqlite3.Error
	if errors.As(err, &serr) {
		switch serr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return errors.Join(ErrBusy, err)
		case sqlite3.ErrCorrupt, sqlite3.ErrNotADB:
			return errors.Join(ErrCorrupt, err)
		}
	}

	return err
}
