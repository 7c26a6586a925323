// Package resolver plans and executes the tiered query chain that turns a
// requested page or category into a list of live content records. Tier
// queries are built against the capability snapshot so they never reference a
// column the current deployment lacks.
package resolver

import (
	"fmt"
	"strings"

	"github.com/shopwire/content-engine/internal/database"
)

// Live vocabularies for the optional lifecycle columns. A NULL value always
// counts as live; only an explicit non-live value hides a record.
var (
	liveStatuses           = []string{"active", "published", "ready", "processed", "completed"}
	liveVisibilities       = []string{"public", "visible"}
	liveProcessingStatuses = []string{"completed", "active"}
)

func inList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, ", ")
}

// lifecycleClause builds the WHERE fragment gating records to live ones,
// using only the lifecycle columns the snapshot reports as present. With no
// lifecycle columns at all it returns "1=1" so callers can AND it in
// unconditionally.
func lifecycleClause(caps database.ContentColumns) string {
	var parts []string
	if caps.Status {
		parts = append(parts, fmt.Sprintf(
			"(status IS NULL OR LOWER(TRIM(status)) IN (%s))", inList(liveStatuses)))
	}
	if caps.Visibility {
		parts = append(parts, fmt.Sprintf(
			"(visibility IS NULL OR LOWER(TRIM(visibility)) IN (%s))", inList(liveVisibilities)))
	}
	if caps.ProcessingStatus {
		parts = append(parts, fmt.Sprintf(
			"(processing_status IS NULL OR LOWER(TRIM(processing_status)) IN (%s))", inList(liveProcessingStatuses)))
	}
	if caps.IsActive {
		parts = append(parts, "(is_active IS NULL OR is_active = 1)")
	}
	if len(parts) == 0 {
		return "1=1"
	}
	return strings.Join(parts, " AND ")
}

// normalizedExpr is the SQL-side mirror of taxonomy.Normalize, as far as
// SQLite string functions allow: lowercase, dashes and underscores to spaces,
// possessives and apostrophes dropped, ampersand spelled out. Whitespace runs
// are not collapsed in SQL, which only matters for pathological double-spaced
// names.
func normalizedExpr(column string) string {
	expr := fmt.Sprintf("LOWER(TRIM(%s))", column)
	expr = fmt.Sprintf("REPLACE(%s, '’', '''')", expr)
	expr = fmt.Sprintf("REPLACE(%s, '''s', '')", expr)
	expr = fmt.Sprintf("REPLACE(%s, '''', '')", expr)
	expr = fmt.Sprintf("REPLACE(%s, '-', ' ')", expr)
	expr = fmt.Sprintf("REPLACE(%s, '_', ' ')", expr)
	expr = fmt.Sprintf("REPLACE(%s, ' & ', ' and ')", expr)
	return fmt.Sprintf("REPLACE(%s, '&', ' and ')", expr)
}

// exactCategoryClause matches records whose normalized category equals the
// normalized requested name.
func exactCategoryClause(normalized string) (string, []any) {
	return normalizedExpr("category") + " = ?", []any{normalized}
}

// tokenMatchClause matches records where category, subcategory or tags
// contains any vocabulary token as a case-insensitive substring.
func tokenMatchClause(tokens []string) (string, []any) {
	if len(tokens) == 0 {
		return "1=0", nil
	}
	columns := []string{"category", "subcategory", "tags"}
	clauses := make([]string, 0, len(tokens)*len(columns))
	args := make([]any, 0, len(tokens)*len(columns))
	for _, col := range columns {
		expr := normalizedExpr(col)
		for _, tok := range tokens {
			clauses = append(clauses, expr+" LIKE ?")
			args = append(args, "%"+tok+"%")
		}
	}
	return "(" + strings.Join(clauses, " OR ") + ")", args
}

// pageClause matches records tagged for a page slug. display_pages is free
// text or a JSON list, so both the quoted and bare spellings are tried.
// Legacy pages predate display_pages tagging, so untagged records are
// admitted for them.
func pageClause(page string, admitUntagged bool) (string, []any) {
	clause := "(display_pages LIKE ? OR display_pages LIKE ?)"
	args := []any{`%"` + page + `"%`, "%" + page + "%"}
	if admitUntagged {
		clause = "(display_pages IS NULL OR TRIM(display_pages) = '' OR TRIM(display_pages) = '[]' OR " +
			"display_pages LIKE ? OR display_pages LIKE ?)"
	}
	return clause, args
}

// genderClause filters by stored gender value. Records with no gender fail
// the filter: a gendered request only shows explicitly gendered items.
func genderClause(variants []string) (string, []any) {
	if len(variants) == 0 {
		return "", nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(variants)), ", ")
	args := make([]any, len(variants))
	for i, v := range variants {
		args[i] = v
	}
	return fmt.Sprintf(
		"LOWER(TRIM(COALESCE(gender, ''))) IN (%s)", placeholders), args
}

// recencyOrder is the ordering shared by every tier: newest first, id as the
// tiebreaker for records created in the same instant.
const recencyOrder = "ORDER BY created_at DESC, id DESC"
