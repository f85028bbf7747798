// Query compilation for the waypoint index. Every specification becomes a
// single SELECT with a deterministic ORDER BY ending in waypoint_id, so
// identical inputs always produce identical output order.
package sqlite

import (
	"strings"

	"github.com/petar-djukic/waymark/pkg/types"
)

const selectWaypointColumns = `SELECT waypoint_id, name, category, x, y, z, dimension, icon, notes, created_at, updated_at FROM waypoints`

// sortColumns maps query sort keys to ORDER BY expressions. Name ordering
// is case-insensitive to match the text filter.
var sortColumns = map[string]string{
	types.SortByName:      "name COLLATE NOCASE",
	types.SortByCreatedAt: "created_at",
	types.SortByUpdatedAt: "updated_at",
	types.SortByCategory:  "category",
}

// buildQuerySQL compiles a validated query specification into SQL and its
// arguments, scoped to one profile.
func buildQuerySQL(profileID string, q types.Query) (string, []any) {
	conditions := []string{"profile_id = ?"}
	args := []any{profileID}

	if q.Text != "" {
		pattern := "%" + escapeLike(strings.ToLower(q.Text)) + "%"
		conditions = append(conditions,
			`(lower(name) LIKE ? ESCAPE '\' OR lower(notes) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	if len(q.Categories) > 0 {
		placeholders := make([]string, len(q.Categories))
		for i, c := range q.Categories {
			placeholders[i] = "?"
			args = append(args, c)
		}
		conditions = append(conditions, "category IN ("+strings.Join(placeholders, ", ")+")")
	}

	if q.Dimension != "" {
		conditions = append(conditions, "dimension = ?")
		args = append(args, q.Dimension)
	}

	direction := "ASC"
	if q.EffectiveSortDirection() == types.SortDescending {
		direction = "DESC"
	}

	query := selectWaypointColumns +
		" WHERE " + strings.Join(conditions, " AND ") +
		" ORDER BY " + sortColumns[q.EffectiveSortKey()] + " " + direction +
		// Tie-break: waypoint IDs ascending, regardless of direction.
		", waypoint_id ASC"

	return query, args
}

// escapeLike escapes the LIKE metacharacters so filter text matches
// literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
