// Backing file read/write for the SQLite backend: versioned load with
// corruption preservation, and atomic temp-file/fsync/rename saves.
package sqlite

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/petar-djukic/waymark/pkg/types"
)

// File names inside the data directory. waymark.json is the source of
// truth; waymark.db is the derived query index, recreated on every Open.
const (
	storeFileName = "waymark.json"
	indexFileName = "waymark.db"
)

// newStoreDocument returns an empty document at the current format version.
func newStoreDocument() *storeJSON {
	return &storeJSON{
		Version:  formatVersion,
		Profiles: make(map[string]*profileJSON),
	}
}

// readStoreDocument reads and parses the backing file. A missing file
// yields an empty document. A file with a newer version marker fails with
// ErrUnsupportedVersion and is left untouched. Anything unparseable or
// failing schema validation fails with ErrCorruptStore; the caller decides
// how to preserve the file.
func readStoreDocument(path string) (*storeJSON, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return newStoreDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	// Probe the version marker before a full parse, so a structurally
	// different future format is reported as unsupported rather than
	// corrupt.
	var probe struct {
		Version int `json:"version"`
	}
	_ = json.Unmarshal(data, &probe)
	if probe.Version > formatVersion {
		return nil, fmt.Errorf("%w: file version %d, supported up to %d",
			types.ErrUnsupportedVersion, probe.Version, formatVersion)
	}

	doc := new(storeJSON)
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrCorruptStore, err)
	}
	if doc.Version != formatVersion {
		// Migration hook point for older known versions; none exist yet,
		// so anything below the current version is a schema failure.
		return nil, fmt.Errorf("%w: missing or invalid version marker %d",
			types.ErrCorruptStore, doc.Version)
	}
	if err := validateDocument(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrCorruptStore, err)
	}
	return doc, nil
}

// validateDocument checks the parsed document against the schema invariants:
// valid profile names unique case-insensitively, parseable timestamps,
// valid waypoint entities with unique IDs, and a resolvable active pointer.
func validateDocument(doc *storeJSON) error {
	lowerNames := make(map[string]bool, len(doc.Profiles))
	profileIDs := make(map[string]bool, len(doc.Profiles))
	for name, p := range doc.Profiles {
		if err := types.ValidateProfileName(name); err != nil {
			return fmt.Errorf("profile %q: %w", name, err)
		}
		lower := strings.ToLower(name)
		if lowerNames[lower] {
			return fmt.Errorf("profile %q: duplicate name", name)
		}
		lowerNames[lower] = true

		if p == nil || p.ProfileID == "" {
			return fmt.Errorf("profile %q: missing profile_id", name)
		}
		if profileIDs[p.ProfileID] {
			return fmt.Errorf("profile %q: duplicate profile_id %s", name, p.ProfileID)
		}
		profileIDs[p.ProfileID] = true
		if _, err := parseTime(p.CreatedAt); err != nil {
			return fmt.Errorf("profile %q created_at: %w", name, err)
		}

		waypointIDs := make(map[string]bool, len(p.Waypoints))
		for _, wj := range p.Waypoints {
			if wj == nil || wj.WaypointID == "" {
				return fmt.Errorf("profile %q: waypoint missing waypoint_id", name)
			}
			if waypointIDs[wj.WaypointID] {
				return fmt.Errorf("profile %q: duplicate waypoint_id %s", name, wj.WaypointID)
			}
			waypointIDs[wj.WaypointID] = true
			w, err := wj.hydrate()
			if err != nil {
				return err
			}
			if err := w.Validate(); err != nil {
				return fmt.Errorf("waypoint %s: %w", wj.WaypointID, err)
			}
		}
	}
	if doc.ActiveProfile != "" && !profileIDs[doc.ActiveProfile] {
		return fmt.Errorf("active_profile %s does not match any profile", doc.ActiveProfile)
	}
	return nil
}

// preserveCorruptFile renames the unreadable backing file aside so it is
// never lost, and returns the preserved path. The original is moved, not
// copied, so no empty or partial file ever overwrites it first.
func preserveCorruptFile(path string) (string, error) {
	preserved := fmt.Sprintf("%s.corrupt-%s", path, time.Now().UTC().Format("20060102T150405.000000000"))
	if err := os.Rename(path, preserved); err != nil {
		return "", fmt.Errorf("preserving corrupt store file: %w", err)
	}
	return preserved, nil
}

// writeStoreDocument atomically writes the document using the temp-file,
// fsync, rename pattern, so an interruption mid-write never replaces the
// previously saved file with a partial one.
func writeStoreDocument(path string, doc *storeJSON) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding store document: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), ".waymark-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing store document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
