// Package sqlite implements the Waymark store: a versioned JSON backing
// file as the source of truth, mirrored into a SQLite database that serves
// as the query index. Every mutation is serialized under one lock and made
// durable before it is reported successful.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/petar-djukic/waymark/pkg/types"
)

// Compile-time interface check: Backend must implement Store.
var _ types.Store = (*Backend)(nil)

// Backend implements the Store interface. The backing document held in doc
// is authoritative; db is the derived query index. doc is replaced, never
// mutated in place, so a failed persist leaves the previous state intact.
type Backend struct {
	mu       sync.Mutex
	open     bool
	config   types.Config
	dataDir  string
	path     string
	db       *sql.DB
	doc      *storeJSON
	warnings []string
	onChange func()
}

// NewBackend creates a new backend instance. The backend is not open; call
// Open with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Open attaches the backend to the data directory, loading the backing file
// and building a fresh query index. A corrupt backing file is preserved
// aside and recorded in Warnings; the store then starts empty.
func (b *Backend) Open(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.open {
		return types.ErrAlreadyOpen
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dataDir, storeFileName)

	b.warnings = nil
	doc, err := readStoreDocument(path)
	if errors.Is(err, types.ErrCorruptStore) {
		preserved, perr := preserveCorruptFile(path)
		if perr != nil {
			return errors.Join(err, perr)
		}
		b.warnings = append(b.warnings, fmt.Sprintf(
			"backing file was unreadable (%v); preserved at %s, starting empty", err, preserved))
		doc = newStoreDocument()
	} else if err != nil {
		return err
	}

	db, err := b.openIndex(dataDir, doc)
	if err != nil {
		return err
	}

	b.config = config
	b.dataDir = dataDir
	b.path = path
	b.db = db
	b.doc = doc
	b.open = true
	return nil
}

// openIndex recreates the index database from scratch and loads the
// document into it.
func (b *Backend) openIndex(dataDir string, doc *storeJSON) (*sql.DB, error) {
	dbPath := filepath.Join(dataDir, indexFileName)
	// The index is derived state; a stale file from a previous run is
	// discarded rather than reconciled.
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaSQL()); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating index schema: %w", err)
	}
	if err := loadDocument(db, doc); err != nil {
		db.Close()
		return nil, fmt.Errorf("loading index: %w", err)
	}
	return db, nil
}

// Close releases the index database. Idempotent.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.doc = nil
	b.open = false
	return nil
}

// Warnings returns warnings recorded by the most recent Open.
func (b *Backend) Warnings() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.warnings))
	copy(out, b.warnings)
	return out
}

// SetOnChange registers the change-notification callback.
func (b *Backend) SetOnChange(fn func()) {
	b.mu.Lock()
	b.onChange = fn
	b.mu.Unlock()
}

// generateUUID generates a new UUID v7 for entity IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// profileByIDLocked resolves a profile ID to its name key and record.
func (b *Backend) profileByIDLocked(profileID string) (string, *profileJSON, error) {
	if profileID == "" {
		return "", nil, types.ErrInvalidID
	}
	for name, p := range b.doc.Profiles {
		if p.ProfileID == profileID {
			return name, p, nil
		}
	}
	return "", nil, types.ErrProfileNotFound
}

// nameInUseLocked reports whether name collides case-insensitively with a
// profile other than excludeID.
func (b *Backend) nameInUseLocked(name, excludeID string) bool {
	for existing, p := range b.doc.Profiles {
		if p.ProfileID == excludeID {
			continue
		}
		if strings.EqualFold(existing, name) {
			return true
		}
	}
	return false
}

// commitLocked makes updated durable, then commits the index transaction.
// The document write comes first: if it fails, the transaction is rolled
// back and the previous state remains everywhere. If the index commit fails
// after the write, the index is rebuilt from the document.
func (b *Backend) commitLocked(tx *sql.Tx, updated *storeJSON) error {
	if err := writeStoreDocument(b.path, updated); err != nil {
		tx.Rollback()
		return fmt.Errorf("persisting store: %w", err)
	}
	// The document is durable from here. It is the source of truth, so the
	// in-memory copy follows it even if the index commit fails below.
	b.doc = updated
	if err := tx.Commit(); err != nil {
		if rerr := b.reindexLocked(updated); rerr != nil {
			return errors.Join(err, rerr)
		}
	}
	return nil
}

// reindexLocked rebuilds the index database from a document after a commit
// failure left it out of step with disk.
func (b *Backend) reindexLocked(doc *storeJSON) error {
	if b.db != nil {
		b.db.Close()
		b.db = nil
	}
	db, err := b.openIndex(b.dataDir, doc)
	if err != nil {
		return fmt.Errorf("rebuilding index: %w", err)
	}
	b.db = db
	return nil
}

// persistLocked writes the document without touching the index, for
// mutations that only move pointers (the active profile).
func (b *Backend) persistLocked(updated *storeJSON) error {
	if err := writeStoreDocument(b.path, updated); err != nil {
		return fmt.Errorf("persisting store: %w", err)
	}
	b.doc = updated
	return nil
}

// Profiles lists all profiles with waypoint counts, ordered by name.
func (b *Backend) Profiles() ([]types.Profile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		return nil, types.ErrStoreClosed
	}

	rows, err := b.db.Query(`SELECT p.profile_id, p.name, p.seed, p.created_at, COUNT(w.waypoint_id)
		FROM profiles p LEFT JOIN waypoints w ON w.profile_id = p.profile_id
		GROUP BY p.profile_id, p.name, p.seed, p.created_at
		ORDER BY p.name COLLATE NOCASE ASC, p.profile_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	defer rows.Close()

	profiles := []types.Profile{}
	for rows.Next() {
		var p types.Profile
		var createdAt string
		if err := rows.Scan(&p.ProfileID, &p.Name, &p.Seed, &createdAt, &p.WaypointCount); err != nil {
			return nil, fmt.Errorf("scanning profile: %w", err)
		}
		if p.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("profile %s created_at: %w", p.ProfileID, err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating profiles: %w", err)
	}
	return profiles, nil
}

// ActiveProfile returns the active profile, or nil when none is active.
func (b *Backend) ActiveProfile() (*types.Profile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		return nil, types.ErrStoreClosed
	}
	if b.doc.ActiveProfile == "" {
		return nil, nil
	}
	name, pj, err := b.profileByIDLocked(b.doc.ActiveProfile)
	if err != nil {
		return nil, err
	}
	return b.hydrateProfileLocked(name, pj)
}

// hydrateProfileLocked converts a profile record to the entity type.
func (b *Backend) hydrateProfileLocked(name string, pj *profileJSON) (*types.Profile, error) {
	created, err := parseTime(pj.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("profile %q created_at: %w", name, err)
	}
	return &types.Profile{
		ProfileID:     pj.ProfileID,
		Name:          name,
		Seed:          pj.Seed,
		CreatedAt:     created,
		WaypointCount: len(pj.Waypoints),
	}, nil
}

// CreateProfile creates a profile and returns its ID.
func (b *Backend) CreateProfile(name string) (string, error) {
	b.mu.Lock()
	id, err := b.createProfileLocked(name)
	fn := b.onChange
	b.mu.Unlock()
	if err == nil && fn != nil {
		fn()
	}
	return id, err
}

func (b *Backend) createProfileLocked(name string) (string, error) {
	if !b.open {
		return "", types.ErrStoreClosed
	}
	if err := types.ValidateProfileName(name); err != nil {
		return "", err
	}
	if b.nameInUseLocked(name, "") {
		return "", types.ErrDuplicateName
	}

	id := generateUUID()
	createdAt := formatTime(time.Now())

	tx, err := b.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	if _, err := tx.Exec(insertProfileSQL, id, name, "", createdAt); err != nil {
		tx.Rollback()
		return "", fmt.Errorf("indexing profile: %w", err)
	}

	updated := b.doc.clone()
	updated.Profiles[name] = &profileJSON{ProfileID: id, CreatedAt: createdAt}
	if err := b.commitLocked(tx, updated); err != nil {
		return "", err
	}
	return id, nil
}

// RenameProfile changes a profile's name, keeping case-insensitive
// uniqueness.
func (b *Backend) RenameProfile(profileID, name string) error {
	b.mu.Lock()
	err := b.renameProfileLocked(profileID, name)
	fn := b.onChange
	b.mu.Unlock()
	if err == nil && fn != nil {
		fn()
	}
	return err
}

func (b *Backend) renameProfileLocked(profileID, name string) error {
	if !b.open {
		return types.ErrStoreClosed
	}
	oldName, pj, err := b.profileByIDLocked(profileID)
	if err != nil {
		return err
	}
	if err := types.ValidateProfileName(name); err != nil {
		return err
	}
	if b.nameInUseLocked(name, profileID) {
		return types.ErrDuplicateName
	}
	if oldName == name {
		return nil
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if _, err := tx.Exec("UPDATE profiles SET name = ? WHERE profile_id = ?", name, profileID); err != nil {
		tx.Rollback()
		return fmt.Errorf("indexing rename: %w", err)
	}

	updated := b.doc.clone()
	delete(updated.Profiles, oldName)
	updated.Profiles[name] = pj
	return b.commitLocked(tx, updated)
}

// DeleteProfile removes a profile and all its waypoints, clearing the
// active pointer when it pointed at the deleted profile.
func (b *Backend) DeleteProfile(profileID string) error {
	b.mu.Lock()
	err := b.deleteProfileLocked(profileID)
	fn := b.onChange
	b.mu.Unlock()
	if err == nil && fn != nil {
		fn()
	}
	return err
}

func (b *Backend) deleteProfileLocked(profileID string) error {
	if !b.open {
		return types.ErrStoreClosed
	}
	name, _, err := b.profileByIDLocked(profileID)
	if err != nil {
		return err
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM waypoints WHERE profile_id = ?", profileID); err != nil {
		tx.Rollback()
		return fmt.Errorf("deleting profile waypoints: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM profiles WHERE profile_id = ?", profileID); err != nil {
		tx.Rollback()
		return fmt.Errorf("deleting profile: %w", err)
	}

	updated := b.doc.clone()
	delete(updated.Profiles, name)
	if updated.ActiveProfile == profileID {
		// No auto-select: deleting the active profile leaves none active.
		updated.ActiveProfile = ""
	}
	return b.commitLocked(tx, updated)
}

// SetActiveProfile switches the active profile pointer. A pure pointer
// change: no index rows move.
func (b *Backend) SetActiveProfile(profileID string) error {
	b.mu.Lock()
	err := b.setActiveProfileLocked(profileID)
	fn := b.onChange
	b.mu.Unlock()
	if err == nil && fn != nil {
		fn()
	}
	return err
}

func (b *Backend) setActiveProfileLocked(profileID string) error {
	if !b.open {
		return types.ErrStoreClosed
	}
	if _, _, err := b.profileByIDLocked(profileID); err != nil {
		return err
	}
	if b.doc.ActiveProfile == profileID {
		return nil
	}
	updated := b.doc.clone()
	updated.ActiveProfile = profileID
	return b.persistLocked(updated)
}

// SetProfileSeed records the world seed on a profile.
func (b *Backend) SetProfileSeed(profileID, seed string) error {
	b.mu.Lock()
	err := b.setProfileSeedLocked(profileID, seed)
	fn := b.onChange
	b.mu.Unlock()
	if err == nil && fn != nil {
		fn()
	}
	return err
}

func (b *Backend) setProfileSeedLocked(profileID, seed string) error {
	if !b.open {
		return types.ErrStoreClosed
	}
	name, pj, err := b.profileByIDLocked(profileID)
	if err != nil {
		return err
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if _, err := tx.Exec("UPDATE profiles SET seed = ? WHERE profile_id = ?", seed, profileID); err != nil {
		tx.Rollback()
		return fmt.Errorf("indexing seed: %w", err)
	}

	updated := b.doc.clone()
	cp := pj.clone()
	cp.Seed = seed
	updated.Profiles[name] = cp
	return b.commitLocked(tx, updated)
}

// AddWaypoint validates the draft, assigns identity and timestamps, and
// persists the new waypoint.
func (b *Backend) AddWaypoint(profileID string, draft types.WaypointDraft) (string, error) {
	b.mu.Lock()
	id, err := b.addWaypointLocked(profileID, draft)
	fn := b.onChange
	b.mu.Unlock()
	if err == nil && fn != nil {
		fn()
	}
	return id, err
}

func (b *Backend) addWaypointLocked(profileID string, draft types.WaypointDraft) (string, error) {
	if !b.open {
		return "", types.ErrStoreClosed
	}
	name, pj, err := b.profileByIDLocked(profileID)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	w := &types.Waypoint{
		WaypointID: generateUUID(),
		Name:       draft.Name,
		Category:   draft.Category,
		Coordinate: draft.Coordinate,
		Icon:       draft.Icon,
		Notes:      draft.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if w.Category == "" {
		w.Category = types.CategoryOther
	}
	if w.Coordinate.Dimension == "" {
		w.Coordinate.Dimension = types.DimensionOverworld
	}
	if err := w.Validate(); err != nil {
		return "", err
	}

	wj := dehydrateWaypoint(w)
	tx, err := b.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	if _, err := tx.Exec(insertWaypointSQL,
		wj.WaypointID, profileID, wj.Name, wj.Category,
		wj.X, wj.Y, wj.Z, wj.Dimension, wj.Icon, wj.Notes,
		wj.CreatedAt, wj.UpdatedAt,
	); err != nil {
		tx.Rollback()
		return "", fmt.Errorf("indexing waypoint: %w", err)
	}

	updated := b.doc.clone()
	cp := pj.clone()
	cp.Waypoints = append(cp.Waypoints, wj)
	updated.Profiles[name] = cp
	if err := b.commitLocked(tx, updated); err != nil {
		return "", err
	}
	return w.WaypointID, nil
}

// GetWaypoint retrieves one waypoint from the index.
func (b *Backend) GetWaypoint(profileID, waypointID string) (*types.Waypoint, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		return nil, types.ErrStoreClosed
	}
	if _, _, err := b.profileByIDLocked(profileID); err != nil {
		return nil, err
	}
	if waypointID == "" {
		return nil, types.ErrInvalidID
	}

	row := b.db.QueryRow(selectWaypointColumns+" WHERE profile_id = ? AND waypoint_id = ?",
		profileID, waypointID)
	w, err := hydrateWaypointRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrWaypointNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting waypoint %s: %w", waypointID, err)
	}
	return w, nil
}

// UpdateWaypoint merges the patch into the stored waypoint, re-validates,
// and bumps UpdatedAt.
func (b *Backend) UpdateWaypoint(profileID, waypointID string, patch types.WaypointPatch) error {
	b.mu.Lock()
	err := b.updateWaypointLocked(profileID, waypointID, patch)
	fn := b.onChange
	b.mu.Unlock()
	if err == nil && fn != nil {
		fn()
	}
	return err
}

func (b *Backend) updateWaypointLocked(profileID, waypointID string, patch types.WaypointPatch) error {
	if !b.open {
		return types.ErrStoreClosed
	}
	name, pj, err := b.profileByIDLocked(profileID)
	if err != nil {
		return err
	}
	idx := -1
	for i, wj := range pj.Waypoints {
		if wj.WaypointID == waypointID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return types.ErrWaypointNotFound
	}

	current, err := pj.Waypoints[idx].hydrate()
	if err != nil {
		return err
	}
	merged := patch.Apply(*current)
	if merged.Coordinate.Dimension == "" {
		merged.Coordinate.Dimension = types.DimensionOverworld
	}
	if err := merged.Validate(); err != nil {
		return err
	}
	merged.Touch(time.Now().UTC())

	wj := dehydrateWaypoint(&merged)
	wj.extra = pj.Waypoints[idx].extra

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if _, err := tx.Exec(`UPDATE waypoints SET name = ?, category = ?, x = ?, y = ?, z = ?,
		dimension = ?, icon = ?, notes = ?, updated_at = ? WHERE waypoint_id = ?`,
		wj.Name, wj.Category, wj.X, wj.Y, wj.Z,
		wj.Dimension, wj.Icon, wj.Notes, wj.UpdatedAt, waypointID,
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("indexing waypoint update: %w", err)
	}

	updated := b.doc.clone()
	cp := pj.clone()
	cp.Waypoints[idx] = wj
	updated.Profiles[name] = cp
	return b.commitLocked(tx, updated)
}

// DeleteWaypoint removes one waypoint. Irreversible: the record leaves the
// document and every index immediately.
func (b *Backend) DeleteWaypoint(profileID, waypointID string) error {
	b.mu.Lock()
	err := b.deleteWaypointLocked(profileID, waypointID)
	fn := b.onChange
	b.mu.Unlock()
	if err == nil && fn != nil {
		fn()
	}
	return err
}

func (b *Backend) deleteWaypointLocked(profileID, waypointID string) error {
	if !b.open {
		return types.ErrStoreClosed
	}
	name, pj, err := b.profileByIDLocked(profileID)
	if err != nil {
		return err
	}
	idx := -1
	for i, wj := range pj.Waypoints {
		if wj.WaypointID == waypointID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return types.ErrWaypointNotFound
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM waypoints WHERE waypoint_id = ?", waypointID); err != nil {
		tx.Rollback()
		return fmt.Errorf("deleting waypoint: %w", err)
	}

	updated := b.doc.clone()
	cp := pj.clone()
	cp.Waypoints = append(cp.Waypoints[:idx], cp.Waypoints[idx+1:]...)
	updated.Profiles[name] = cp
	return b.commitLocked(tx, updated)
}

// Query returns the waypoints matching the specification in a total,
// deterministic order.
func (b *Backend) Query(profileID string, query types.Query) ([]*types.Waypoint, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		return nil, types.ErrStoreClosed
	}
	if _, _, err := b.profileByIDLocked(profileID); err != nil {
		return nil, err
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sqlText, args := buildQuerySQL(profileID, query)
	rows, err := b.db.Query(sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("querying waypoints: %w", err)
	}
	defer rows.Close()

	results := []*types.Waypoint{}
	for rows.Next() {
		w, err := hydrateWaypointRow(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating waypoint: %w", err)
		}
		results = append(results, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating waypoints: %w", err)
	}
	return results, nil
}

// rowScanner abstracts sql.Row and sql.Rows for hydration.
type rowScanner interface {
	Scan(dest ...any) error
}

// hydrateWaypointRow converts one index row into the entity type.
func hydrateWaypointRow(row rowScanner) (*types.Waypoint, error) {
	var w types.Waypoint
	var createdAt, updatedAt string
	if err := row.Scan(
		&w.WaypointID, &w.Name, &w.Category,
		&w.Coordinate.X, &w.Coordinate.Y, &w.Coordinate.Z, &w.Coordinate.Dimension,
		&w.Icon, &w.Notes, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	var err error
	if w.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	if w.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("updated_at: %w", err)
	}
	return &w, nil
}
