package taxonomy

import (
	"context"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/shopwire/content-engine/internal/domain"
	"github.com/shopwire/content-engine/internal/logging"
)

// CategorySource provides the stored category tree. Implemented by
// database.CategoryRepository.
type CategorySource interface {
	TopLevelByName(ctx context.Context, name string) (*domain.Category, error)
	TopLevel(ctx context.Context) ([]*domain.Category, error)
	Children(ctx context.Context, parentID int64) ([]*domain.Category, error)
}

// Vocabulary is the match vocabulary resolved for a requested category name.
type Vocabulary struct {
	// Base holds the requested name's own expanded tokens.
	Base []string
	// Hierarchy holds Base plus the tokens of any child categories found by
	// walking the tree. Equal to Base when no parent was matched.
	Hierarchy []string
	// Broadened reports whether Hierarchy carries more than Base.
	Broadened bool
}

// HierarchyResolver broadens category vocabularies by walking the stored
// category tree. Tree lookups are strictly best-effort: a missing categories
// table or a query failure degrades to the base vocabulary, never to an
// error, because content matching must keep working while the schema is in
// flux.
type HierarchyResolver struct {
	cats CategorySource
	log  logging.Logger
}

func NewHierarchyResolver(cats CategorySource, log logging.Logger) *HierarchyResolver {
	if log == nil {
		log = logging.NewNop()
	}
	return &HierarchyResolver{cats: cats, log: log}
}

// Resolve expands a requested category name into its match vocabulary.
//
// An exact match against a top-level category pulls in every child's tokens.
// Failing that, top-level names are scanned for any of the requested tokens
// as a substring and the first hit (in display order) is adopted as the
// parent. Failing both, the base vocabulary stands alone.
func (r *HierarchyResolver) Resolve(ctx context.Context, requested string) Vocabulary {
	base := Expand(requested)
	vocab := Vocabulary{Base: base, Hierarchy: base}
	if len(base) == 0 || r.cats == nil {
		return vocab
	}

	parent := r.findParent(ctx, requested, base)
	if parent == nil {
		return vocab
	}

	children, err := r.cats.Children(ctx, parent.ID)
	if err != nil {
		r.log.Warn("category tree walk failed, using base vocabulary",
			logging.String("category", requested),
			logging.Error(err))
		return vocab
	}
	if len(children) == 0 {
		return vocab
	}

	sets := make([][]string, 0, len(children)+1)
	sets = append(sets, base)
	for _, child := range children {
		sets = append(sets, Expand(child.Name))
	}
	vocab.Hierarchy = Union(sets...)
	vocab.Broadened = len(vocab.Hierarchy) > len(base)
	return vocab
}

func (r *HierarchyResolver) findParent(ctx context.Context, requested string, tokens []string) *domain.Category {
	parent, err := r.cats.TopLevelByName(ctx, Normalize(requested))
	if err != nil {
		r.log.Warn("top-level category lookup failed, using base vocabulary",
			logging.String("category", requested),
			logging.Error(err))
		return nil
	}
	if parent != nil {
		return parent
	}

	// No exact match: scan top-level names for any requested token as a
	// substring. Repository ordering (display_order, id) makes the first
	// hit deterministic.
	tops, err := r.cats.TopLevel(ctx)
	if err != nil {
		r.log.Warn("top-level category scan failed, using base vocabulary",
			logging.String("category", requested),
			logging.Error(err))
		return nil
	}
	if len(tops) == 0 {
		return nil
	}

	matcher := ahocorasick.NewStringMatcher(tokens)
	for _, cat := range tops {
		if hits := matcher.Match([]byte(Normalize(cat.Name))); len(hits) > 0 {
			return cat
		}
	}
	return nil
}
