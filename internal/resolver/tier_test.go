package resolver

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopwire/content-engine/internal/database"
	"github.com/shopwire/content-engine/internal/logging"
	"github.com/shopwire/content-engine/internal/taxonomy"
)

func fullSnapshot() database.Snapshot {
	return database.Snapshot{
		Content: database.ContentColumns{
			Status:           true,
			Visibility:       true,
			ProcessingStatus: true,
			IsActive:         true,
		},
	}
}

func tierNames(tiers []Tier) []string {
	names := make([]string, len(tiers))
	for i, t := range tiers {
		names[i] = t.Name
	}
	return names
}

func TestPlannerCategoryChain(t *testing.T) {
	p := NewPlanner(fullSnapshot())
	vocab := taxonomy.Vocabulary{
		Base:      []string{"electronics", "gadgets"},
		Hierarchy: []string{"cameras", "electronics", "gadgets"},
		Broadened: true,
	}

	tiers := p.Category("Electronics", vocab, Options{})

	assert.Equal(t, []string{"exact", "inclusive", "hierarchical", "recent-fallback"}, tierNames(tiers))
}

func TestPlannerCategoryChainNotBroadened(t *testing.T) {
	p := NewPlanner(fullSnapshot())
	vocab := taxonomy.Vocabulary{
		Base:      []string{"garden tools"},
		Hierarchy: []string{"garden tools"},
	}

	tiers := p.Category("Garden Tools", vocab, Options{})

	assert.Equal(t, []string{"exact", "inclusive", "recent-fallback"}, tierNames(tiers))
}

func TestPlannerExactTierQuery(t *testing.T) {
	p := NewPlanner(fullSnapshot())
	vocab := taxonomy.Vocabulary{Base: []string{"electronics"}, Hierarchy: []string{"electronics"}}

	tiers := p.Category("Electronics", vocab, Options{})
	exact := tiers[0]

	assert.Contains(t, exact.Query, "SELECT * FROM unified_content")
	assert.Contains(t, exact.Query, "LOWER(TRIM(")
	assert.Contains(t, exact.Query, "ORDER BY created_at DESC, id DESC")
	assert.Contains(t, exact.Query, "status IS NULL OR LOWER(TRIM(status)) IN")
	assert.Equal(t, []any{"electronics"}, exact.Args)
}

func TestPlannerInclusiveTierMatchesAllColumns(t *testing.T) {
	p := NewPlanner(fullSnapshot())
	vocab := taxonomy.Vocabulary{Base: []string{"gadgets", "tech"}, Hierarchy: []string{"gadgets", "tech"}}

	tiers := p.Category("Electronics", vocab, Options{})
	inclusive := tiers[1]

	assert.Contains(t, inclusive.Query, "LIKE ?")
	// Two tokens across category, subcategory and tags.
	assert.Len(t, inclusive.Args, 6)
	assert.Contains(t, inclusive.Args, "%gadgets%")
	assert.Contains(t, inclusive.Args, "%tech%")
}

func TestPlannerLifecycleGatedBySnapshot(t *testing.T) {
	// Bare schema: no lifecycle columns at all.
	p := NewPlanner(database.Snapshot{})
	vocab := taxonomy.Vocabulary{Base: []string{"x"}, Hierarchy: []string{"x"}}

	tiers := p.Category("X", vocab, Options{})

	for _, tier := range tiers {
		assert.Contains(t, tier.Query, "1=1")
		assert.NotContains(t, tier.Query, "status")
		assert.NotContains(t, tier.Query, "visibility")
		assert.NotContains(t, tier.Query, "is_active")
	}
}

func TestPlannerPartialSnapshot(t *testing.T) {
	p := NewPlanner(database.Snapshot{Content: database.ContentColumns{Status: true}})
	vocab := taxonomy.Vocabulary{Base: []string{"x"}, Hierarchy: []string{"x"}}

	tiers := p.Category("X", vocab, Options{})

	assert.Contains(t, tiers[0].Query, "status IS NULL")
	assert.NotContains(t, tiers[0].Query, "visibility")
	assert.NotContains(t, tiers[0].Query, "processing_status")
}

func TestPlannerServiceCategoryBypass(t *testing.T) {
	p := NewPlanner(fullSnapshot())

	for _, name := range []string{"Services", "service", "Technology Services"} {
		tiers := p.Category(name, taxonomy.Vocabulary{}, Options{})

		require.Len(t, tiers, 2, name)
		assert.Equal(t, "services-inclusive", tiers[0].Name)
		assert.Contains(t, tiers[0].Query, "is_service")
		assert.Contains(t, tiers[0].Query, "content_type")
		assert.Equal(t, "recent-fallback", tiers[1].Name)
	}
}

func TestPlannerAppCategoryBypass(t *testing.T) {
	p := NewPlanner(fullSnapshot())

	for _, name := range []string{"Apps", "AI Apps", "Apps & AI Apps", "AI Apps & Services"} {
		tiers := p.Category(name, taxonomy.Vocabulary{}, Options{})

		require.Len(t, tiers, 2, name)
		assert.Equal(t, "apps-inclusive", tiers[0].Name)
		assert.Contains(t, tiers[0].Query, "is_ai_app")
		// A record categorized "AI Tools" with neither flag nor content_type
		// still counts as an app.
		assert.Contains(t, tiers[0].Query, "LIKE '%ai%'")
	}
}

func TestPlannerGenderFilter(t *testing.T) {
	p := NewPlanner(fullSnapshot())
	vocab := taxonomy.Vocabulary{Base: []string{"fashion"}, Hierarchy: []string{"fashion"}}

	tiers := p.Category("Fashion", vocab, Options{Gender: "common"})

	exact := tiers[0]
	assert.Contains(t, exact.Query, "LOWER(TRIM(COALESCE(gender, ''))) IN")
	assert.Contains(t, exact.Args, "unisex")
	assert.Contains(t, exact.Args, "common")
	// Ungendered records fail a gendered filter.
	assert.NotContains(t, exact.Query, "gender IS NULL")
}

func TestPlannerPageChain(t *testing.T) {
	p := NewPlanner(fullSnapshot())

	tiers := p.Page("value-picks", "", taxonomy.Vocabulary{}, Options{})

	assert.Equal(t, []string{"page", "recent-fallback"}, tierNames(tiers))
	assert.Contains(t, tiers[0].Query, "display_pages LIKE ?")
	assert.Equal(t, []any{`%"value-picks"%`, "%value-picks%"}, tiers[0].Args)
}

func TestPlannerPageWithCategoryChain(t *testing.T) {
	p := NewPlanner(fullSnapshot())
	vocab := taxonomy.Vocabulary{Base: []string{"fashion"}, Hierarchy: []string{"fashion"}}

	tiers := p.Page("value-picks", "Fashion", vocab, Options{})

	assert.Equal(t, []string{
		"page-category-exact",
		"page-category-inclusive",
		"page",
		"category-inclusive",
		"recent-fallback",
	}, tierNames(tiers))
}

func TestPlannerPageWithBroadenedCategoryChain(t *testing.T) {
	p := NewPlanner(fullSnapshot())
	vocab := taxonomy.Vocabulary{
		Base:      []string{"fashion"},
		Hierarchy: []string{"fashion", "shoes", "watches"},
		Broadened: true,
	}

	tiers := p.Page("value-picks", "Fashion", vocab, Options{})

	assert.Equal(t, []string{
		"page-category-exact",
		"page-category-inclusive",
		"page-category-hierarchical",
		"page",
		"category-inclusive",
		"recent-fallback",
	}, tierNames(tiers))

	// The inclusive tier sticks to the base vocabulary; only the
	// hierarchical tier carries the broadened tokens.
	assert.NotContains(t, tiers[1].Args, "%shoes%")
	assert.Contains(t, tiers[2].Args, "%shoes%")
}

func TestPlannerTopPicksNeverFallsBack(t *testing.T) {
	p := NewPlanner(fullSnapshot())

	tiers := p.Page("top-picks", "", taxonomy.Vocabulary{}, Options{})

	require.Len(t, tiers, 1)
	assert.Equal(t, "featured-page", tiers[0].Name)
	assert.Contains(t, tiers[0].Query, "is_featured = 1 OR is_featured = '1' OR is_featured = 'true'")
	assert.NotContains(t, tiers[0].Query, "display_pages IS NULL")
}

func TestPlannerLegacyPageAdmitsUntagged(t *testing.T) {
	p := NewPlanner(fullSnapshot())

	for _, page := range []string{"prime-picks", "global-picks"} {
		tiers := p.Page(page, "", taxonomy.Vocabulary{}, Options{})
		assert.Contains(t, tiers[0].Query, "display_pages IS NULL", page)
	}
}

func TestPlannerFetchLimit(t *testing.T) {
	p := NewPlanner(fullSnapshot())
	vocab := taxonomy.Vocabulary{Base: []string{"x"}, Hierarchy: []string{"x"}}

	tiers := p.Category("X", vocab, Options{})
	assert.Contains(t, tiers[0].Query, "LIMIT 200")

	tiers = p.Category("X", vocab, Options{FetchLimit: 40})
	assert.Contains(t, tiers[0].Query, "LIMIT 40")
}

// Category names drift between possessive and plain spellings in stored
// data, so the exact tier has to normalize both sides. "Women's Fashion"
// requested against a stored "women fashion" must hit Tier 0, not fall
// through to fuzzy matching.
func TestExactTierMatchesPossessiveSpellings(t *testing.T) {
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	_, err = db.Exec(`CREATE TABLE unified_content (id INTEGER PRIMARY KEY, category TEXT, created_at TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO unified_content (category, created_at) VALUES
		('women fashion', '2024-01-01T00:00:00Z'),
		('Women''s Fashion', '2024-01-02T00:00:00Z'),
		('electronics', '2024-01-03T00:00:00Z')`)
	require.NoError(t, err)

	store := database.NewContentStore(db, database.RetryConfig{}, logging.NewNop())
	p := NewPlanner(database.Snapshot{})

	for _, requested := range []string{"Women's Fashion", "women fashion", "Women’s Fashion"} {
		tiers := p.Category(requested, taxonomy.Vocabulary{}, Options{})
		exact := tiers[0]
		require.Equal(t, "exact", exact.Name)

		rows, err := store.Select(context.Background(), exact.Query, exact.Args...)
		require.NoError(t, err, requested)
		require.Len(t, rows, 2, requested)
		assert.Equal(t, "Women's Fashion", rows[0]["category"], requested)
		assert.Equal(t, "women fashion", rows[1]["category"], requested)
	}
}

func TestPlannerDistinctCategories(t *testing.T) {
	p := NewPlanner(fullSnapshot())

	query, args := p.DistinctCategories("value-picks")

	assert.Contains(t, query, "SELECT DISTINCT TRIM(category)")
	assert.Contains(t, query, "unified_content")
	assert.Contains(t, query, "ORDER BY 1")
	assert.Equal(t, []any{`%"value-picks"%`, "%value-picks%"}, args)
}
