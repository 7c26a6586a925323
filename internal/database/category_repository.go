package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/shopwire/content-engine/internal/domain"
)

// CategoryRepository reads the admin-owned category taxonomy. The engine
// never writes categories; hierarchy edits belong to the admin collaborator.
type CategoryRepository struct {
	db   *sqlx.DB
	caps CategoryColumns
}

// NewCategoryRepository creates a new category repository. The capability
// snapshot gates references to optional columns.
func NewCategoryRepository(db *sqlx.DB, caps CategoryColumns) *CategoryRepository {
	return &CategoryRepository{db: db, caps: caps}
}

// selectColumns builds the column list, substituting defaults for optional
// flag columns the deployment does not have.
func (r *CategoryRepository) selectColumns() string {
	cols := "id, name, parent_id, COALESCE(display_order, 0) AS display_order"
	if r.caps.IsForProducts {
		cols += ", COALESCE(is_for_products, 1) AS is_for_products"
	} else {
		cols += ", 1 AS is_for_products"
	}
	if r.caps.IsForServices {
		cols += ", COALESCE(is_for_services, 0) AS is_for_services"
	} else {
		cols += ", 0 AS is_for_services"
	}
	if r.caps.IsForAIApps {
		cols += ", COALESCE(is_for_ai_apps, 0) AS is_for_ai_apps"
	} else {
		cols += ", 0 AS is_for_ai_apps"
	}
	return cols
}

// TopLevelByName finds the top-level category whose name matches
// case-insensitively. Returns nil when no such node exists.
func (r *CategoryRepository) TopLevelByName(ctx context.Context, name string) (*domain.Category, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE parent_id IS NULL AND LOWER(TRIM(name)) = LOWER(TRIM(?))
		LIMIT 1
	`, r.selectColumns(), CategoriesTable)

	var cat domain.Category
	err := r.db.GetContext(ctx, &cat, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get top-level category %q: %w", name, err)
	}

	return &cat, nil
}

// TopLevel lists every top-level category. Ordering is stable
// (display_order, then id) so best-effort matching resolves the same node
// across requests.
func (r *CategoryRepository) TopLevel(ctx context.Context) ([]*domain.Category, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE parent_id IS NULL
	`, r.selectColumns(), CategoriesTable)
	if r.caps.IsActive {
		query += ` AND (is_active = 1 OR is_active IS NULL)`
	}
	query += ` ORDER BY display_order ASC, id ASC`

	var cats []*domain.Category
	if err := r.db.SelectContext(ctx, &cats, query); err != nil {
		return nil, fmt.Errorf("failed to list top-level categories: %w", err)
	}

	return cats, nil
}

// Children lists the direct children of a category.
func (r *CategoryRepository) Children(ctx context.Context, parentID int64) ([]*domain.Category, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE parent_id = ?
		ORDER BY display_order ASC, id ASC
	`, r.selectColumns(), CategoriesTable)

	var cats []*domain.Category
	if err := r.db.SelectContext(ctx, &cats, query, parentID); err != nil {
		return nil, fmt.Errorf("failed to list children of category %d: %w", parentID, err)
	}

	return cats, nil
}
