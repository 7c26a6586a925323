package resolver

import (
	"time"

	"github.com/shopwire/content-engine/internal/domain"
)

// Limit bounds for a single request.
const (
	DefaultLimit  = 50
	MaxLimit      = 100
	MinLimit      = 1
	DefaultOffset = 0

	DefaultRotateInterval = 60 * time.Second
	MinRotateInterval     = time.Second
)

// Window holds the pagination and rotation parameters of one request.
type Window struct {
	Limit    int
	Offset   int
	Rotate   bool
	Interval time.Duration
}

// ClampLimit forces a requested limit into [MinLimit, MaxLimit], with the
// default for unset values.
func ClampLimit(limit int) int {
	if limit == 0 {
		return DefaultLimit
	}
	if limit < MinLimit {
		return MinLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// ClampOffset forces a requested offset to be non-negative.
func ClampOffset(offset int) int {
	if offset < 0 {
		return DefaultOffset
	}
	return offset
}

// Apply windows an already-normalized result list: optional time-bucketed
// cyclic rotation, then offset, then limit. It never mutates the input.
func (w Window) Apply(records []domain.ContentRecord, now time.Time) []domain.ContentRecord {
	out := records
	if w.Rotate && len(records) > 0 {
		interval := w.Interval
		if interval <= 0 {
			interval = DefaultRotateInterval
		} else if interval < MinRotateInterval {
			// Sub-second intervals would truncate to a zero divisor below.
			interval = MinRotateInterval
		}
		bucket := now.Unix() / int64(interval/time.Second)
		out = rotate(records, int(bucket%int64(len(records))))
	}

	offset := ClampOffset(w.Offset)
	if offset >= len(out) {
		return []domain.ContentRecord{}
	}
	out = out[offset:]

	limit := ClampLimit(w.Limit)
	if limit < len(out) {
		out = out[:limit]
	}

	// Copy so callers never alias the resolver's backing array.
	page := make([]domain.ContentRecord, len(out))
	copy(page, out)
	return page
}

// rotate performs a cyclic left-rotation by start positions. start must be
// in [0, len).
func rotate(records []domain.ContentRecord, start int) []domain.ContentRecord {
	if start == 0 {
		return records
	}
	out := make([]domain.ContentRecord, 0, len(records))
	out = append(out, records[start:]...)
	out = append(out, records[:start]...)
	return out
}
