// Schema DDL for the query index database. The index is derived state:
// recreated from the backing file on every Open, never read as truth.
package sqlite

const createProfiles = `CREATE TABLE profiles (
    profile_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    seed TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);`

const createWaypoints = `CREATE TABLE waypoints (
    waypoint_id TEXT PRIMARY KEY,
    profile_id TEXT NOT NULL,
    name TEXT NOT NULL,
    category TEXT NOT NULL,
    x INTEGER NOT NULL,
    y INTEGER NOT NULL,
    z INTEGER NOT NULL,
    dimension TEXT NOT NULL,
    icon TEXT NOT NULL DEFAULT '',
    notes TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    FOREIGN KEY (profile_id) REFERENCES profiles(profile_id)
);`

// Indexes backing the type-to-filter query path: name prefix scans and
// category narrowing, both scoped to one profile.
const createIndexes = `CREATE UNIQUE INDEX idx_profiles_name ON profiles (name COLLATE NOCASE);
CREATE INDEX idx_waypoints_profile_name ON waypoints (profile_id, name COLLATE NOCASE);
CREATE INDEX idx_waypoints_profile_category ON waypoints (profile_id, category);`

// schemaSQL returns the full DDL executed on a fresh index database.
func schemaSQL() string {
	return createProfiles + "\n" + createWaypoints + "\n" + createIndexes
}
