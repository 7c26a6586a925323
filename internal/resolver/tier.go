package resolver

import (
	"fmt"
	"strings"

	"github.com/shopwire/content-engine/internal/database"
	"github.com/shopwire/content-engine/internal/taxonomy"
)

// DefaultFetchLimit caps how many rows one tier pulls from storage. Rotation
// needs the whole eligible list in memory, so this is deliberately larger
// than the per-request limit cap.
const DefaultFetchLimit = 200

// Tier is one independently executed query in the fallback chain. Tiers are
// data: adding or reordering one is a change to the planner's output list,
// not to the executor.
type Tier struct {
	Name  string
	Query string
	Args  []any
}

// Options carries the request parameters that shape tier queries.
type Options struct {
	Gender     string
	FetchLimit int
}

func (o *Options) fetchLimit() int {
	if o.FetchLimit > 0 {
		return o.FetchLimit
	}
	return DefaultFetchLimit
}

// Pages that predate display_pages tagging: untagged records are admitted.
var legacyPages = map[string]bool{
	"prime-picks":  true,
	"global-picks": true,
}

// Special page categories that bypass the generic chain for a dedicated
// inclusive query. Keys are normalized names.
var (
	serviceCategories = map[string]bool{
		"services":            true,
		"service":             true,
		"technology services": true,
	}
	appCategories = map[string]bool{
		"apps":                 true,
		"ai apps":              true,
		"apps and ai apps":     true,
		"ai apps and services": true,
	}
)

// Planner builds the ordered tier chain for a request. It holds the content
// table's capability snapshot so lifecycle filters only reference columns
// that exist.
type Planner struct {
	caps database.ContentColumns
}

func NewPlanner(snap database.Snapshot) *Planner {
	return &Planner{caps: snap.Content}
}

// build assembles one tier from WHERE fragments, dropping empty ones.
func (p *Planner) build(name string, opts *Options, clauses []string, args []any) Tier {
	where := append([]string{lifecycleClause(p.caps)}, clauses...)

	if gc, gargs := genderClause(taxonomy.GenderVariants(opts.Gender)); gc != "" {
		where = append(where, gc)
		args = append(args, gargs...)
	}

	query := fmt.Sprintf("SELECT * FROM %s WHERE %s %s LIMIT %d",
		database.ContentTable, strings.Join(where, " AND "), recencyOrder, opts.fetchLimit())
	return Tier{Name: name, Query: query, Args: args}
}

// Category plans the chain for a category-first request: exact, inclusive,
// hierarchical (when the hierarchy broadened the vocabulary), then the
// generic recent fallback. Service and app categories get a dedicated
// inclusive tier instead of the generic chain.
func (p *Planner) Category(requested string, vocab taxonomy.Vocabulary, opts Options) []Tier {
	norm := taxonomy.Normalize(requested)

	if serviceCategories[norm] {
		return []Tier{
			p.serviceTier(&opts),
			p.recentTier(&opts),
		}
	}
	if appCategories[norm] {
		return []Tier{
			p.appTier(&opts),
			p.recentTier(&opts),
		}
	}

	tiers := make([]Tier, 0, 4)

	clause, args := exactCategoryClause(norm)
	tiers = append(tiers, p.build("exact", &opts, []string{clause}, args))

	clause, args = tokenMatchClause(vocab.Base)
	tiers = append(tiers, p.build("inclusive", &opts, []string{clause}, args))

	if vocab.Broadened {
		clause, args = tokenMatchClause(vocab.Hierarchy)
		tiers = append(tiers, p.build("hierarchical", &opts, []string{clause}, args))
	}

	tiers = append(tiers, p.recentTier(&opts))
	return tiers
}

// Page plans the chain for a page-first request. Records tagged for the page
// win; an optional category narrows the tagged tiers first. top-picks is
// curated by hand and never falls back, so an untended page renders empty
// rather than showing arbitrary recent content.
func (p *Planner) Page(page, category string, vocab taxonomy.Vocabulary, opts Options) []Tier {
	pc, pargs := pageClause(page, legacyPages[page])

	if page == "top-picks" {
		// is_featured arrives as INTEGER 1 or TEXT '1'/'true' depending on
		// which writer produced the row.
		clauses := []string{"(is_featured = 1 OR is_featured = '1' OR is_featured = 'true')", pc}
		return []Tier{p.build("featured-page", &opts, clauses, pargs)}
	}

	tiers := make([]Tier, 0, 6)

	if category != "" {
		norm := taxonomy.Normalize(category)

		ec, eargs := exactCategoryClause(norm)
		tiers = append(tiers, p.build("page-category-exact", &opts,
			[]string{pc, ec}, append(append([]any{}, pargs...), eargs...)))

		tc, targs := tokenMatchClause(vocab.Base)
		tiers = append(tiers, p.build("page-category-inclusive", &opts,
			[]string{pc, tc}, append(append([]any{}, pargs...), targs...)))

		if vocab.Broadened {
			tc, targs = tokenMatchClause(vocab.Hierarchy)
			tiers = append(tiers, p.build("page-category-hierarchical", &opts,
				[]string{pc, tc}, append(append([]any{}, pargs...), targs...)))
		}

		tiers = append(tiers, p.build("page", &opts, []string{pc}, append([]any{}, pargs...)))

		tc, targs = tokenMatchClause(vocab.Hierarchy)
		tiers = append(tiers, p.build("category-inclusive", &opts, []string{tc}, targs))
	} else {
		tiers = append(tiers, p.build("page", &opts, []string{pc}, pargs))
	}

	tiers = append(tiers, p.recentTier(&opts))
	return tiers
}

// DistinctCategories builds the query listing category names observed among
// live records tagged for a page.
func (p *Planner) DistinctCategories(page string) (string, []any) {
	pc, args := pageClause(page, legacyPages[page])
	query := fmt.Sprintf(
		"SELECT DISTINCT TRIM(category) FROM %s WHERE %s AND %s AND category IS NOT NULL AND TRIM(category) <> '' ORDER BY 1",
		database.ContentTable, lifecycleClause(p.caps), pc)
	return query, args
}

func (p *Planner) serviceTier(opts *Options) Tier {
	clause := fmt.Sprintf(
		"(COALESCE(is_service, 0) = 1 OR LOWER(TRIM(COALESCE(content_type, ''))) = 'service' OR %s LIKE '%%service%%')",
		normalizedExpr("category"))
	return p.build("services-inclusive", opts, []string{clause}, nil)
}

func (p *Planner) appTier(opts *Options) Tier {
	catExpr := normalizedExpr("category")
	clause := fmt.Sprintf(
		"(COALESCE(is_ai_app, 0) = 1 OR LOWER(TRIM(COALESCE(content_type, ''))) IN ('app', 'ai app', 'ai_app') OR %s LIKE '%%app%%' OR %s LIKE '%%ai%%')",
		catExpr, catExpr)
	return p.build("apps-inclusive", opts, []string{clause}, nil)
}

// recentTier ignores category entirely and returns the newest live records.
// It exists so taxonomy drift never renders a page empty.
func (p *Planner) recentTier(opts *Options) Tier {
	return p.build("recent-fallback", opts, nil, nil)
}
