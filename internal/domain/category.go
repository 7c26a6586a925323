package domain

// Category is an admin-managed taxonomy node. The parent/child relation is a
// forest: ParentID is nil for top-level nodes.
type Category struct {
	ID            int64  `db:"id"            json:"id"`
	Name          string `db:"name"          json:"name"`
	ParentID      *int64 `db:"parent_id"     json:"parentId"`
	DisplayOrder  int    `db:"display_order" json:"displayOrder"`
	IsForProducts bool   `db:"is_for_products" json:"isForProducts"`
	IsForServices bool   `db:"is_for_services" json:"isForServices"`
	IsForAIApps   bool   `db:"is_for_ai_apps"  json:"isForAIApps"`
}

// IsTopLevel reports whether the category has no parent.
func (c *Category) IsTopLevel() bool {
	return c.ParentID == nil
}
