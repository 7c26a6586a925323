package database

import (
	"context"
	"time"

	"github.com/shopwire/content-engine/internal/logging"
)

// Retry defaults. A locked sqlite file clears quickly or not at all, so the
// loop is short: three attempts, one second initial delay, doubling.
const (
	DefaultMaxAttempts  = 3
	DefaultInitialDelay = 1 * time.Second
)

// RetryConfig configures the transient-contention retry loop.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	// OnRetry, when set, is invoked once per retry. Used for metrics.
	OnRetry func()
}

// SetDefaults applies default values where unset.
func (c *RetryConfig) SetDefaults() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = DefaultInitialDelay
	}
}

// WithRetry runs fn, retrying with exponential backoff while it fails with a
// busy/locked condition. Any other error propagates immediately. The final
// error is classified onto the service taxonomy.
func WithRetry(ctx context.Context, cfg RetryConfig, log logging.Logger, fn func() error) error {
	cfg.SetDefaults()

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) {
			return Classify(lastErr)
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry()
		}
		log.Warn("database busy, retrying",
			logging.Int("attempt", attempt),
			logging.Int("max_attempts", cfg.MaxAttempts),
			logging.Duration("delay", delay),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return Classify(lastErr)
}
