package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/shopwire/content-engine/internal/logging"
)

// Table names owned by the storefront admin; this service only reads them.
const (
	ContentTable    = "unified_content"
	CategoriesTable = "categories"
)

// ContentColumns records which optional columns exist on the content table in
// the current deployment. The schema evolves by ad-hoc admin migrations, so
// nothing beyond the core presentation columns can be assumed.
type ContentColumns struct {
	Status           bool
	Visibility       bool
	ProcessingStatus bool
	IsActive         bool
}

// CategoryColumns records which optional columns exist on the category table.
type CategoryColumns struct {
	IsActive      bool
	IsForProducts bool
	IsForServices bool
	IsForAIApps   bool
}

// Snapshot is the process-wide schema capability snapshot. It is computed
// once at startup and never mutated, so concurrent reads need no
// synchronization.
type Snapshot struct {
	Content    ContentColumns
	Categories CategoryColumns
}

// LoadSnapshot introspects the storage schema. If introspection fails the
// returned snapshot reports every optional column as absent, which makes all
// later query-building maximally permissive instead of aborting startup.
func LoadSnapshot(ctx context.Context, db *sqlx.DB, log logging.Logger) Snapshot {
	var snap Snapshot

	content, err := tableColumns(ctx, db, ContentTable)
	if err != nil {
		log.Warn("content table introspection failed, treating optional columns as absent",
			logging.String("table", ContentTable),
			logging.Error(err),
		)
	} else {
		snap.Content = ContentColumns{
			Status:           content["status"],
			Visibility:       content["visibility"],
			ProcessingStatus: content["processing_status"],
			IsActive:         content["is_active"],
		}
	}

	categories, err := tableColumns(ctx, db, CategoriesTable)
	if err != nil {
		log.Warn("category table introspection failed, treating optional columns as absent",
			logging.String("table", CategoriesTable),
			logging.Error(err),
		)
	} else {
		snap.Categories = CategoryColumns{
			IsActive:      categories["is_active"],
			IsForProducts: categories["is_for_products"],
			IsForServices: categories["is_for_services"],
			IsForAIApps:   categories["is_for_ai_apps"],
		}
	}

	log.Info("schema capability snapshot loaded",
		logging.Bool("content_status", snap.Content.Status),
		logging.Bool("content_visibility", snap.Content.Visibility),
		logging.Bool("content_processing_status", snap.Content.ProcessingStatus),
		logging.Bool("category_is_active", snap.Categories.IsActive),
	)

	return snap
}

type columnInfo struct {
	CID     int     `db:"cid"`
	Name    string  `db:"name"`
	Type    string  `db:"type"`
	NotNull int     `db:"notnull"`
	Default *string `db:"dflt_value"`
	PK      int     `db:"pk"`
}

func tableColumns(ctx context.Context, db *sqlx.DB, table string) (map[string]bool, error) {
	var cols []columnInfo
	query := fmt.Sprintf("PRAGMA table_info(%s)", table)
	if err := db.SelectContext(ctx, &cols, query); err != nil {
		return nil, fmt.Errorf("table_info %s: %w", table, err)
	}

	names := make(map[string]bool, len(cols))
	for _, c := range cols {
		names[c.Name] = true
	}
	return names, nil
}
