// Tests for record marshaling: unknown-field preservation and timestamp
// formats.
package sqlite

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestUnknownFieldsSurviveRoundTrip(t *testing.T) {
	input := `{
		"version": 1,
		"active_profile": "p1",
		"future_top_level": {"nested": [1, 2, 3]},
		"profiles": {
			"World": {
				"profile_id": "p1",
				"seed": "42",
				"created_at": "2026-01-01T00:00:00.000000000Z",
				"future_profile_field": "kept",
				"waypoints": [
					{
						"waypoint_id": "w1",
						"name": "Spawn",
						"category": "base",
						"x": 0, "y": 64, "z": 0,
						"dimension": "overworld",
						"icon": "",
						"notes": "",
						"created_at": "2026-01-01T00:00:00.000000000Z",
						"updated_at": "2026-01-01T00:00:00.000000000Z",
						"future_waypoint_field": 7
					}
				]
			}
		}
	}`

	var doc storeJSON
	if err := json.Unmarshal([]byte(input), &doc); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	out, err := json.Marshal(&doc)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	for _, field := range []string{
		`"future_top_level":{"nested":[1,2,3]}`,
		`"future_profile_field":"kept"`,
		`"future_waypoint_field":7`,
	} {
		if !strings.Contains(string(out), field) {
			t.Errorf("unknown field lost on round-trip: %s\noutput: %s", field, out)
		}
	}

	// Known fields still parse into their struct slots.
	if doc.ActiveProfile != "p1" {
		t.Errorf("active_profile = %q", doc.ActiveProfile)
	}
	p := doc.Profiles["World"]
	if p == nil || p.Seed != "42" || len(p.Waypoints) != 1 {
		t.Fatalf("profile parsed wrong: %+v", p)
	}
	if p.Waypoints[0].Y != 64 || p.Waypoints[0].Category != "base" {
		t.Errorf("waypoint parsed wrong: %+v", p.Waypoints[0])
	}
}

func TestUnknownFieldsSurviveMutation(t *testing.T) {
	input := `{"version": 1, "profiles": {"World": {
		"profile_id": "p1",
		"created_at": "2026-01-01T00:00:00.000000000Z",
		"future_field": true,
		"waypoints": []
	}}}`

	var doc storeJSON
	if err := json.Unmarshal([]byte(input), &doc); err != nil {
		t.Fatal(err)
	}

	// The copy-on-write path used by every mutation.
	updated := doc.clone()
	cp := updated.Profiles["World"].clone()
	cp.Seed = "99"
	updated.Profiles["World"] = cp

	out, err := json.Marshal(updated)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `"future_field":true`) {
		t.Errorf("unknown field lost through clone: %s", out)
	}
	if !strings.Contains(string(out), `"seed":"99"`) {
		t.Errorf("mutation lost through clone: %s", out)
	}
}

func TestFormatTimeLexicographicOrder(t *testing.T) {
	// The persisted form must sort as text the same way the times sort.
	a := time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC)
	pairs := []time.Time{
		a,
		a.Add(time.Nanosecond),
		a.Add(time.Millisecond),
		a.Add(time.Second),
		a.AddDate(0, 0, 1),
		a.AddDate(1, 0, 0),
	}
	for i := 1; i < len(pairs); i++ {
		before, after := formatTime(pairs[i-1]), formatTime(pairs[i])
		if !(before < after) {
			t.Errorf("string order broken: %q !< %q", before, after)
		}
	}
}

func TestFormatTimeRoundTrip(t *testing.T) {
	in := time.Date(2026, 8, 31, 23, 59, 59, 123456789, time.FixedZone("CEST", 2*3600))
	s := formatTime(in)
	if !strings.HasSuffix(s, "Z") {
		t.Errorf("expected UTC form, got %q", s)
	}
	out, err := parseTime(s)
	if err != nil {
		t.Fatalf("parseTime failed: %v", err)
	}
	if !out.Equal(in) {
		t.Errorf("round-trip changed the instant: %v != %v", out, in)
	}
}

func TestParseTimeAcceptsVariableFractions(t *testing.T) {
	for _, s := range []string{
		"2026-01-01T00:00:00Z",
		"2026-01-01T00:00:00.5Z",
		"2026-01-01T00:00:00.000000000Z",
		"2026-01-01T02:00:00+02:00",
	} {
		if _, err := parseTime(s); err != nil {
			t.Errorf("parseTime(%q) failed: %v", s, err)
		}
	}
	if _, err := parseTime("yesterday"); err == nil {
		t.Error("expected error for unparseable timestamp")
	}
}
