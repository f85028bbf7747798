// Property tests for the persisted document format: any document built
// from valid entities survives a marshal/unmarshal round-trip unchanged.
package sqlite

import (
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genDimension() gopter.Gen {
	return gen.OneConstOf("overworld", "nether", "end")
}

func genCategory() gopter.Gen {
	return gen.OneConstOf("structure", "biome", "base", "resource", "other")
}

func TestProperty_WaypointRecordRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("waypoint record survives marshal/unmarshal", prop.ForAll(
		func(x, y, z int64, name, notes, category, dimension string) bool {
			in := &waypointJSON{
				WaypointID: "0192aaaa-0000-7000-8000-000000000001",
				Name:       name,
				Category:   category,
				X:          x,
				Y:          y,
				Z:          z,
				Dimension:  dimension,
				Notes:      notes,
				CreatedAt:  "2026-01-01T00:00:00.000000000Z",
				UpdatedAt:  "2026-01-01T00:00:00.000000000Z",
			}
			data, err := json.Marshal(in)
			if err != nil {
				return false
			}
			var out waypointJSON
			if err := json.Unmarshal(data, &out); err != nil {
				return false
			}
			return out.X == in.X && out.Y == in.Y && out.Z == in.Z &&
				out.Name == in.Name && out.Notes == in.Notes &&
				out.Category == in.Category && out.Dimension == in.Dimension
		},
		gen.Int64(), gen.Int64(), gen.Int64(),
		gen.AnyString(), gen.AnyString(),
		genCategory(), genDimension(),
	))

	properties.Property("document marshal is stable", prop.ForAll(
		func(profileName, seed string) bool {
			if profileName == "" {
				profileName = "World"
			}
			doc := newStoreDocument()
			doc.Profiles[profileName] = &profileJSON{
				ProfileID: "p1",
				Seed:      seed,
				CreatedAt: "2026-01-01T00:00:00.000000000Z",
			}
			first, err := json.Marshal(doc)
			if err != nil {
				return false
			}
			var reread storeJSON
			if err := json.Unmarshal(first, &reread); err != nil {
				return false
			}
			second, err := json.Marshal(&reread)
			if err != nil {
				return false
			}
			return string(first) == string(second)
		},
		gen.AlphaString(), gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestProperty_EscapeLikeMatchesLiteral(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	// Every escaped character still carries its original; no wildcard
	// survives unescaped.
	properties.Property("escaped text contains no bare wildcards", prop.ForAll(
		func(s string) bool {
			escaped := escapeLike(s)
			for i := 0; i < len(escaped); i++ {
				if escaped[i] == '%' || escaped[i] == '_' {
					if i == 0 || escaped[i-1] != '\\' {
						return false
					}
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
