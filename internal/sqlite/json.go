// JSON record structures for the waymark.json backing file. Each level keeps
// unrecognized fields in a raw-message map so documents written by newer
// generations survive a load/save round-trip intact.
package sqlite

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/petar-djukic/waymark/pkg/types"
)

// formatVersion is the current backing file format version. Load rejects
// files with a greater version and treats a missing or zero marker as a
// schema failure.
const formatVersion = 1

// timeLayout is UTC RFC3339 with a fixed-width nanosecond fraction, so the
// string ordering of two timestamps equals their time ordering in both the
// backing file and the index database.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatTime renders t in the canonical persisted form.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime parses a persisted timestamp, accepting any RFC3339 fraction
// width.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// storeJSON is the top-level persisted document: a version marker, the
// active-profile pointer, and the profiles keyed by name.
type storeJSON struct {
	Version       int
	ActiveProfile string
	Profiles      map[string]*profileJSON

	extra map[string]json.RawMessage
}

// profileJSON is one profile object. The profile name is the map key in
// storeJSON, not a field.
type profileJSON struct {
	ProfileID string
	Seed      string
	CreatedAt string
	Waypoints []*waypointJSON

	extra map[string]json.RawMessage
}

// waypointJSON is one waypoint record. Coordinate fields are flattened so
// unknown siblings are preserved at a single level.
type waypointJSON struct {
	WaypointID string
	Name       string
	Category   string
	X          int64
	Y          int64
	Z          int64
	Dimension  string
	Icon       string
	Notes      string
	CreatedAt  string
	UpdatedAt  string

	extra map[string]json.RawMessage
}

// popField unmarshals raw[key] into dst and removes the key, so the
// remainder of raw becomes the preserved unknown-field set.
func popField(raw map[string]json.RawMessage, key string, dst any) error {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	delete(raw, key)
	return nil
}

// putField marshals v under key, overriding any preserved field of the same
// name.
func putField(out map[string]json.RawMessage, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	out[key] = json.RawMessage(b)
	return nil
}

func (d *storeJSON) UnmarshalJSON(data []byte) error {
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := popField(raw, "version", &d.Version); err != nil {
		return err
	}
	if err := popField(raw, "active_profile", &d.ActiveProfile); err != nil {
		return err
	}
	if err := popField(raw, "profiles", &d.Profiles); err != nil {
		return err
	}
	if d.Profiles == nil {
		d.Profiles = make(map[string]*profileJSON)
	}
	d.extra = raw
	return nil
}

func (d *storeJSON) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(d.extra)+3)
	for k, v := range d.extra {
		out[k] = v
	}
	if err := putField(out, "version", d.Version); err != nil {
		return nil, err
	}
	if err := putField(out, "active_profile", d.ActiveProfile); err != nil {
		return nil, err
	}
	if err := putField(out, "profiles", d.Profiles); err != nil {
		return nil, err
	}
	// Map marshaling emits keys in sorted order, so the output is
	// byte-stable for a given logical state.
	return json.Marshal(out)
}

func (p *profileJSON) UnmarshalJSON(data []byte) error {
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := popField(raw, "profile_id", &p.ProfileID); err != nil {
		return err
	}
	if err := popField(raw, "seed", &p.Seed); err != nil {
		return err
	}
	if err := popField(raw, "created_at", &p.CreatedAt); err != nil {
		return err
	}
	if err := popField(raw, "waypoints", &p.Waypoints); err != nil {
		return err
	}
	p.extra = raw
	return nil
}

func (p *profileJSON) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(p.extra)+4)
	for k, v := range p.extra {
		out[k] = v
	}
	if err := putField(out, "profile_id", p.ProfileID); err != nil {
		return nil, err
	}
	if err := putField(out, "seed", p.Seed); err != nil {
		return nil, err
	}
	if err := putField(out, "created_at", p.CreatedAt); err != nil {
		return nil, err
	}
	// Waypoints are emitted sorted by ID so repeated saves of the same
	// logical state produce identical bytes.
	wps := make([]*waypointJSON, len(p.Waypoints))
	copy(wps, p.Waypoints)
	sort.Slice(wps, func(i, j int) bool { return wps[i].WaypointID < wps[j].WaypointID })
	if err := putField(out, "waypoints", wps); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

func (w *waypointJSON) UnmarshalJSON(data []byte) error {
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	fields := []struct {
		key string
		dst any
	}{
		{"waypoint_id", &w.WaypointID},
		{"name", &w.Name},
		{"category", &w.Category},
		{"x", &w.X},
		{"y", &w.Y},
		{"z", &w.Z},
		{"dimension", &w.Dimension},
		{"icon", &w.Icon},
		{"notes", &w.Notes},
		{"created_at", &w.CreatedAt},
		{"updated_at", &w.UpdatedAt},
	}
	for _, f := range fields {
		if err := popField(raw, f.key, f.dst); err != nil {
			return err
		}
	}
	w.extra = raw
	return nil
}

func (w *waypointJSON) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(w.extra)+11)
	for k, v := range w.extra {
		out[k] = v
	}
	fields := []struct {
		key string
		val any
	}{
		{"waypoint_id", w.WaypointID},
		{"name", w.Name},
		{"category", w.Category},
		{"x", w.X},
		{"y", w.Y},
		{"z", w.Z},
		{"dimension", w.Dimension},
		{"icon", w.Icon},
		{"notes", w.Notes},
		{"created_at", w.CreatedAt},
		{"updated_at", w.UpdatedAt},
	}
	for _, f := range fields {
		if err := putField(out, f.key, f.val); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

// dehydrateWaypoint converts a validated entity into its persisted record.
func dehydrateWaypoint(w *types.Waypoint) *waypointJSON {
	return &waypointJSON{
		WaypointID: w.WaypointID,
		Name:       w.Name,
		Category:   w.Category,
		X:          w.Coordinate.X,
		Y:          w.Coordinate.Y,
		Z:          w.Coordinate.Z,
		Dimension:  w.Coordinate.Dimension,
		Icon:       w.Icon,
		Notes:      w.Notes,
		CreatedAt:  formatTime(w.CreatedAt),
		UpdatedAt:  formatTime(w.UpdatedAt),
	}
}

// hydrate converts a persisted record back into the entity type.
func (w *waypointJSON) hydrate() (*types.Waypoint, error) {
	created, err := parseTime(w.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("waypoint %s created_at: %w", w.WaypointID, err)
	}
	updated, err := parseTime(w.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("waypoint %s updated_at: %w", w.WaypointID, err)
	}
	return &types.Waypoint{
		WaypointID: w.WaypointID,
		Name:       w.Name,
		Category:   w.Category,
		Coordinate: types.Coordinate{X: w.X, Y: w.Y, Z: w.Z, Dimension: w.Dimension},
		Icon:       w.Icon,
		Notes:      w.Notes,
		CreatedAt:  created,
		UpdatedAt:  updated,
	}, nil
}

// clone copies the document and its profile map. Profile values are shared;
// callers clone the profile they mutate.
func (d *storeJSON) clone() *storeJSON {
	cp := &storeJSON{
		Version:       d.Version,
		ActiveProfile: d.ActiveProfile,
		Profiles:      make(map[string]*profileJSON, len(d.Profiles)),
		extra:         d.extra,
	}
	for name, p := range d.Profiles {
		cp.Profiles[name] = p
	}
	return cp
}

// clone copies the profile and its waypoint slice. Waypoint records are
// shared; callers replace, not mutate, the record they change.
func (p *profileJSON) clone() *profileJSON {
	cp := &profileJSON{
		ProfileID: p.ProfileID,
		Seed:      p.Seed,
		CreatedAt: p.CreatedAt,
		Waypoints: make([]*waypointJSON, len(p.Waypoints)),
		extra:     p.extra,
	}
	copy(cp.Waypoints, p.Waypoints)
	return cp
}
