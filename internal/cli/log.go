package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/petar-djukic/waymark/pkg/types"
)

// parseQuickLog turns free text of the form "X Y Z [dimension]" into a
// coordinate. The dimension token is optional and case-insensitive.
func parseQuickLog(text string) (types.Coordinate, error) {
	fields := strings.Fields(text)
	if len(fields) < 3 || len(fields) > 4 {
		return types.Coordinate{}, fmt.Errorf("expected \"X Y Z [dimension]\", got %q", text)
	}
	var coord types.Coordinate
	axes := []*int64{&coord.X, &coord.Y, &coord.Z}
	for i, dst := range axes {
		v, err := strconv.ParseInt(fields[i], 10, 64)
		if err != nil {
			return types.Coordinate{}, fmt.Errorf("coordinate %q is not an integer", fields[i])
		}
		*dst = v
	}
	if len(fields) == 4 {
		coord.Dimension = strings.ToLower(fields[3])
		if err := coord.Validate(); err != nil {
			return types.Coordinate{}, err
		}
	}
	return coord, nil
}

func newLogCmd() *cobra.Command {
	var notes string
	cmd := &cobra.Command{
		Use:   "log <x y z [dimension]>",
		Short: "Quick-log a position without naming it",
		Long: `Log records a position with an auto-generated name so a spot can be
captured in one line, for example:

  waymark log 120 64 -340 nether`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := activeProfile()
			if err != nil {
				return err
			}
			coord, err := parseQuickLog(strings.Join(args, " "))
			if err != nil {
				return err
			}
			name := "Logged " + time.Now().UTC().Format("2006-01-02 15:04")
			id, err := store.AddWaypoint(p.ProfileID, types.WaypointDraft{
				Name:       name,
				Category:   types.CategoryOther,
				Coordinate: coord,
				Notes:      notes,
			})
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return printJSON(cmd, map[string]string{"waypoint_id": id, "name": name})
			}
			cmd.Printf("logged %s as %q (%s)\n", coord, name, id)
			return nil
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "free-text notes")
	return cmd
}
