// Index loading for Open: the parsed backing document is inserted into the
// query index inside one transaction, so the index is either complete or
// absent.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/petar-djukic/waymark/pkg/types"
)

// effectiveDimension normalizes an unset dimension label to the overworld,
// so the index and query filters only ever see explicit labels.
func effectiveDimension(d string) string {
	if d == "" {
		return types.DimensionOverworld
	}
	return d
}

const insertProfileSQL = `INSERT INTO profiles (profile_id, name, seed, created_at) VALUES (?, ?, ?, ?)`

const insertWaypointSQL = `INSERT INTO waypoints
    (waypoint_id, profile_id, name, category, x, y, z, dimension, icon, notes, created_at, updated_at)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// loadDocument populates a fresh index database from a validated document.
func loadDocument(db *sql.DB, doc *storeJSON) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	profileStmt, err := tx.Prepare(insertProfileSQL)
	if err != nil {
		return fmt.Errorf("preparing profile insert: %w", err)
	}
	defer profileStmt.Close()

	waypointStmt, err := tx.Prepare(insertWaypointSQL)
	if err != nil {
		return fmt.Errorf("preparing waypoint insert: %w", err)
	}
	defer waypointStmt.Close()

	for name, p := range doc.Profiles {
		if _, err := profileStmt.Exec(p.ProfileID, name, p.Seed, p.CreatedAt); err != nil {
			return fmt.Errorf("loading profile %q: %w", name, err)
		}
		for _, w := range p.Waypoints {
			if _, err := waypointStmt.Exec(
				w.WaypointID, p.ProfileID, w.Name, w.Category,
				w.X, w.Y, w.Z, effectiveDimension(w.Dimension),
				w.Icon, w.Notes, w.CreatedAt, w.UpdatedAt,
			); err != nil {
				return fmt.Errorf("loading waypoint %s: %w", w.WaypointID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}
