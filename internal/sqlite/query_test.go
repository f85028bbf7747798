// Tests for query compilation and end-to-end query behavior: text
// matching, filters, sort order, and the waypoint-ID tie-break.
package sqlite

import (
	"errors"
	"testing"

	"github.com/petar-djukic/waymark/pkg/types"
)

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"50%", `50\%`},
		{"under_score", `under\_score`},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildQuerySQL(t *testing.T) {
	sqlText, args := buildQuerySQL("p1", types.Query{
		Text:       "temple",
		Categories: []string{types.CategoryStructure, types.CategoryBase},
		Dimension:  types.DimensionNether,
	})
	if len(args) != 6 {
		t.Errorf("expected 6 args, got %d: %v", len(args), args)
	}
	wantSuffix := "ORDER BY name COLLATE NOCASE ASC, waypoint_id ASC"
	if len(sqlText) < len(wantSuffix) || sqlText[len(sqlText)-len(wantSuffix):] != wantSuffix {
		t.Errorf("expected default sort suffix %q, got: %s", wantSuffix, sqlText)
	}
}

// queryFixture seeds a profile with waypoints spanning categories,
// dimensions, and names that exercise filter and ordering edges.
func queryFixture(t *testing.T) (*Backend, string) {
	t.Helper()
	b := openBackend(t, t.TempDir())
	id, err := b.CreateProfile("Query World")
	if err != nil {
		t.Fatal(err)
	}

	drafts := []types.WaypointDraft{
		{
			Name:       "Desert Temple",
			Category:   types.CategoryStructure,
			Coordinate: types.Coordinate{X: 300, Y: 64, Z: -120, Dimension: types.DimensionOverworld},
			Notes:      "recommend TNT caution",
		},
		{
			Name:       "Mending Librarian",
			Category:   types.CategoryOther,
			Coordinate: types.Coordinate{X: 10, Y: 70, Z: 10, Dimension: types.DimensionOverworld},
		},
		{
			Name:       "fortress bridge",
			Category:   types.CategoryStructure,
			Coordinate: types.Coordinate{X: 40, Y: 70, Z: -30, Dimension: types.DimensionNether},
		},
		{
			Name:       "Iron farm",
			Category:   types.CategoryBase,
			Coordinate: types.Coordinate{X: 0, Y: 80, Z: 0, Dimension: types.DimensionOverworld},
			Notes:      "needs zombie re-mending", // matches text "mend" via notes
		},
	}
	for _, d := range drafts {
		if _, err := b.AddWaypoint(id, d); err != nil {
			t.Fatalf("AddWaypoint(%q) failed: %v", d.Name, err)
		}
	}
	return b, id
}

func names(ws []*types.Waypoint) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Name
	}
	return out
}

func TestQuery_TextMatchesNameAndNotes(t *testing.T) {
	b, id := queryFixture(t)

	got, err := b.Query(id, types.Query{Text: "mend"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	// Case-insensitive substring over both name and notes.
	want := []string{"Desert Temple", "Iron farm", "Mending Librarian"}
	assertNames(t, want, names(got))
}

func TestQuery_TextMetacharactersLiteral(t *testing.T) {
	b, id := queryFixture(t)

	got, err := b.Query(id, types.Query{Text: "100%"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("LIKE metacharacters matched as wildcards: %v", names(got))
	}
}

func TestQuery_CategoryFilter(t *testing.T) {
	b, id := queryFixture(t)

	got, err := b.Query(id, types.Query{
		Categories: []string{types.CategoryStructure, types.CategoryBase},
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	assertNames(t, []string{"Desert Temple", "fortress bridge", "Iron farm"}, names(got))
}

func TestQuery_DimensionFilter(t *testing.T) {
	b, id := queryFixture(t)

	got, err := b.Query(id, types.Query{Dimension: types.DimensionNether})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	assertNames(t, []string{"fortress bridge"}, names(got))

	got, err = b.Query(id, types.Query{Dimension: types.DimensionEnd})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", names(got))
	}
	if got == nil {
		t.Error("empty result must be a non-nil slice")
	}
}

func TestQuery_DefaultSortNameCaseInsensitive(t *testing.T) {
	b, id := queryFixture(t)

	got, err := b.Query(id, types.Query{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	// "fortress bridge" sorts between Desert and Iron despite lowercase.
	assertNames(t, []string{"Desert Temple", "fortress bridge", "Iron farm", "Mending Librarian"}, names(got))
}

func TestQuery_SortDescending(t *testing.T) {
	b, id := queryFixture(t)

	got, err := b.Query(id, types.Query{
		SortKey:       types.SortByName,
		SortDirection: types.SortDescending,
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	assertNames(t, []string{"Mending Librarian", "Iron farm", "fortress bridge", "Desert Temple"}, names(got))
}

func TestQuery_SortByCreatedAtFollowsInsertionOrder(t *testing.T) {
	b, id := queryFixture(t)

	got, err := b.Query(id, types.Query{SortKey: types.SortByCreatedAt})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	assertNames(t, []string{"Desert Temple", "Mending Librarian", "fortress bridge", "Iron farm"}, names(got))
}

func TestQuery_TieBreakByWaypointID(t *testing.T) {
	b := openBackend(t, t.TempDir())
	id, _ := b.CreateProfile("Ties")

	// Same name and category: ordering falls to waypoint IDs, which are
	// UUID v7 and therefore increase with creation order.
	ids := make([]string, 3)
	for i := range ids {
		wid, err := b.AddWaypoint(id, types.WaypointDraft{Name: "Portal"})
		if err != nil {
			t.Fatal(err)
		}
		ids[i] = wid
	}

	for n := 0; n < 3; n++ {
		got, err := b.Query(id, types.Query{SortKey: types.SortByName})
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 results, got %d", len(got))
		}
		for i, w := range got {
			if w.WaypointID != ids[i] {
				t.Fatalf("tie-break order unstable: got %v, want %v", names(got), ids)
			}
		}
	}
}

func TestQuery_ProfileIsolation(t *testing.T) {
	b := openBackend(t, t.TempDir())
	a, _ := b.CreateProfile("A")
	c, _ := b.CreateProfile("C")
	b.AddWaypoint(a, types.WaypointDraft{Name: "Only in A"})

	got, err := b.Query(c, types.Query{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("waypoints leaked across profiles: %v", names(got))
	}
}

func TestQuery_Validation(t *testing.T) {
	b, id := queryFixture(t)

	if _, err := b.Query(id, types.Query{SortKey: "distance"}); !errors.Is(err, types.ErrInvalidSortKey) {
		t.Errorf("expected ErrInvalidSortKey, got %v", err)
	}
	if _, err := b.Query("no-such-profile", types.Query{}); !errors.Is(err, types.ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}
}

func assertNames(t *testing.T, want, got []string) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
