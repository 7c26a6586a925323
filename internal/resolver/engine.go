package resolver

import (
	"context"
	"time"

	"github.com/shopwire/content-engine/internal/domain"
	"github.com/shopwire/content-engine/internal/logging"
	"github.com/shopwire/content-engine/internal/taxonomy"
)

// Request carries the parameters of one resolution call after parsing and
// clamping at the API edge.
type Request struct {
	Page     string
	Category string
	Gender   string
	Limit    int
	Offset   int
	Rotate   bool
	Interval time.Duration
}

// Engine is the full resolution pipeline: vocabulary expansion, tier
// planning, execution, normalization and windowing.
type Engine struct {
	planner    *Planner
	hier       *taxonomy.HierarchyResolver
	exec       *Executor
	norm       *Normalizer
	store      Store
	log        logging.Logger
	fetchLimit int
	now        func() time.Time
}

// NewEngine assembles the pipeline. fetchLimit caps how many rows each tier
// pulls from storage; zero means DefaultFetchLimit.
func NewEngine(planner *Planner, hier *taxonomy.HierarchyResolver, exec *Executor, norm *Normalizer, store Store, log logging.Logger, fetchLimit int) *Engine {
	if log == nil {
		log = logging.NewNop()
	}
	return &Engine{
		planner:    planner,
		hier:       hier,
		exec:       exec,
		norm:       norm,
		store:      store,
		log:        log,
		fetchLimit: fetchLimit,
		now:        time.Now,
	}
}

// options shapes the tier queries for one request. The fetch limit grows to
// cover the requested window so deep offsets stay reachable.
func (e *Engine) options(req Request) Options {
	fetch := e.fetchLimit
	if fetch <= 0 {
		fetch = DefaultFetchLimit
	}
	if need := ClampOffset(req.Offset) + ClampLimit(req.Limit); need > fetch {
		fetch = need
	}
	return Options{Gender: req.Gender, FetchLimit: fetch}
}

// ResolveCategory serves a category-first request.
func (e *Engine) ResolveCategory(ctx context.Context, req Request) ([]domain.ContentRecord, error) {
	vocab := e.hier.Resolve(ctx, req.Category)
	tiers := e.planner.Category(req.Category, vocab, e.options(req))
	return e.run(ctx, req, tiers)
}

// ResolvePage serves a page-first request, optionally narrowed by category.
func (e *Engine) ResolvePage(ctx context.Context, req Request) ([]domain.ContentRecord, error) {
	var vocab taxonomy.Vocabulary
	if req.Category != "" {
		vocab = e.hier.Resolve(ctx, req.Category)
	}
	tiers := e.planner.Page(req.Page, req.Category, vocab, e.options(req))
	return e.run(ctx, req, tiers)
}

// PageCategories lists the distinct category names among live records tagged
// for a page.
func (e *Engine) PageCategories(ctx context.Context, page string) ([]string, error) {
	query, args := e.planner.DistinctCategories(page)
	names, err := e.store.SelectStrings(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func (e *Engine) run(ctx context.Context, req Request, tiers []Tier) ([]domain.ContentRecord, error) {
	rows, err := e.exec.Resolve(ctx, tiers)
	if err != nil {
		return nil, err
	}

	records := e.norm.NormalizeAll(rows)
	window := Window{
		Limit:    req.Limit,
		Offset:   req.Offset,
		Rotate:   req.Rotate,
		Interval: req.Interval,
	}
	return window.Apply(records, e.now()), nil
}
