package resolver

import (
	"context"
	"errors"

	"github.com/shopwire/content-engine/internal/database"
	"github.com/shopwire/content-engine/internal/domain"
	"github.com/shopwire/content-engine/internal/logging"
)

// Store runs tier queries against the content table. Implemented by
// database.ContentStore.
type Store interface {
	Select(ctx context.Context, query string, args ...any) ([]domain.RawRecord, error)
	SelectStrings(ctx context.Context, query string, args ...any) ([]string, error)
}

// Observer receives tier execution events. Implemented by the metrics
// package; a nil observer is allowed.
type Observer interface {
	TierAttempt(tier string)
	TierWin(tier string)
	TierError(tier string)
	EmptyResolution()
}

// Executor runs a tier chain strictly in order and returns the first
// non-empty result set. Tiers are never merged.
type Executor struct {
	store Store
	log   logging.Logger
	obs   Observer
}

func NewExecutor(store Store, log logging.Logger, obs Observer) *Executor {
	if log == nil {
		log = logging.NewNop()
	}
	return &Executor{store: store, log: log, obs: obs}
}

// Resolve executes tiers until one yields rows.
//
// A storage error inside one tier is logged and the chain continues, unless
// the error is a classified connection-level failure (busy after retries, or
// corruption), which propagates immediately. If every tier errors or comes
// back empty the result is an empty slice, not an error: the storefront page
// must always receive a well-formed array.
func (e *Executor) Resolve(ctx context.Context, tiers []Tier) ([]domain.RawRecord, error) {
	for _, tier := range tiers {
		if e.obs != nil {
			e.obs.TierAttempt(tier.Name)
		}

		rows, err := e.store.Select(ctx, tier.Query, tier.Args...)
		if err != nil {
			if errors.Is(err, database.ErrBusy) || errors.Is(err, database.ErrCorrupt) {
				return nil, err
			}
			if e.obs != nil {
				e.obs.TierError(tier.Name)
			}
			e.log.Warn("tier query failed, trying next tier",
				logging.String("tier", tier.Name),
				logging.Error(err))
			continue
		}
		if len(rows) == 0 {
			continue
		}

		if e.obs != nil {
			e.obs.TierWin(tier.Name)
		}
		e.log.Debug("tier resolved",
			logging.String("tier", tier.Name),
			logging.Int("rows", len(rows)))
		return rows, nil
	}

	if e.obs != nil {
		e.obs.EmptyResolution()
	}
	return []domain.RawRecord{}, nil
}
