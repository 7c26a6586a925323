package database

import (
	"fmt"

	"context"

	"github.com/jmoiron/sqlx"

	"github.com/shopwire/content-engine/internal/domain"
	"github.com/shopwire/content-engine/internal/logging"
)

// ContentStore executes read queries against the content table and returns
// raw rows. Queries are built by the resolver layer; the store only runs
// them, with retry on transient lock contention.
type ContentStore struct {
	db    *sqlx.DB
	retry RetryConfig
	log   logging.Logger
}

// NewContentStore creates a new content store.
func NewContentStore(db *sqlx.DB, retry RetryConfig, log logging.Logger) *ContentStore {
	retry.SetDefaults()
	return &ContentStore{db: db, retry: retry, log: log}
}

// Select runs a query and returns each row as a loose column map. TEXT
// columns come back from the driver as []byte and are converted to string so
// downstream code sees plain Go values.
func (s *ContentStore) Select(ctx context.Context, query string, args ...any) ([]domain.RawRecord, error) {
	var records []domain.RawRecord

	err := WithRetry(ctx, s.retry, s.log, func() error {
		rows, err := s.db.QueryxContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("query content: %w", err)
		}
		defer func() {
			_ = rows.Close()
		}()

		var scanned []domain.RawRecord
		for rows.Next() {
			row := map[string]any{}
			if err = rows.MapScan(row); err != nil {
				return fmt.Errorf("scan content row: %w", err)
			}
			for k, v := range row {
				if b, ok := v.([]byte); ok {
					row[k] = string(b)
				}
			}
			scanned = append(scanned, domain.RawRecord(row))
		}
		if err = rows.Err(); err != nil {
			return fmt.Errorf("iterate content rows: %w", err)
		}

		records = scanned
		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// SelectStrings runs a single-column query and returns the values in order.
func (s *ContentStore) SelectStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	var values []string

	err := WithRetry(ctx, s.retry, s.log, func() error {
		var scanned []string
		if err := s.db.SelectContext(ctx, &scanned, query, args...); err != nil {
			return fmt.Errorf("query strings: %w", err)
		}
		values = scanned
		return nil
	})
	if err != nil {
		return nil, err
	}

	return values, nil
}
