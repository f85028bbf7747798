// Waypoint commands: add, show, edit, delete against the active profile.
package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/petar-djukic/waymark/pkg/types"
)

// printJSON writes v to the command's stdout as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}

// printWaypoint renders one waypoint, including the teleport command and
// the portal-linked coordinate where one exists.
func printWaypoint(cmd *cobra.Command, w *types.Waypoint) {
	cmd.Printf("%s  [%s]  %s\n", w.Name, w.Category, w.Coordinate)
	cmd.Printf("  id: %s  icon: %s\n", w.WaypointID, w.EffectiveIcon())
	if w.Notes != "" {
		cmd.Printf("  notes: %s\n", w.Notes)
	}
	cmd.Printf("  %s\n", w.Coordinate.TeleportCommand())
	if linked, ok := w.Coordinate.Linked(); ok {
		cmd.Printf("  portal link: %s\n", linked)
	}
}

func parseInt64(s, label string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", label, s)
	}
	return v, nil
}

func newAddCmd() *cobra.Command {
	var (
		category  string
		dimension string
		icon      string
		notes     string
	)
	cmd := &cobra.Command{
		Use:   "add <name> <x> <y> <z>",
		Short: "Add a waypoint to the active profile",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := activeProfile()
			if err != nil {
				return err
			}
			x, err := parseInt64(args[1], "x")
			if err != nil {
				return err
			}
			y, err := parseInt64(args[2], "y")
			if err != nil {
				return err
			}
			z, err := parseInt64(args[3], "z")
			if err != nil {
				return err
			}
			id, err := store.AddWaypoint(p.ProfileID, types.WaypointDraft{
				Name:       args[0],
				Category:   category,
				Coordinate: types.Coordinate{X: x, Y: y, Z: z, Dimension: dimension},
				Icon:       icon,
				Notes:      notes,
			})
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return printJSON(cmd, map[string]string{"waypoint_id": id})
			}
			cmd.Printf("added waypoint %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "waypoint category (structure, biome, base, resource, other)")
	cmd.Flags().StringVar(&dimension, "dimension", "", "dimension (overworld, nether, end)")
	cmd.Flags().StringVar(&icon, "icon", "", "marker icon override")
	cmd.Flags().StringVar(&notes, "notes", "", "free-text notes")
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <waypoint-id>",
		Short: "Show one waypoint from the active profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := activeProfile()
			if err != nil {
				return err
			}
			w, err := store.GetWaypoint(p.ProfileID, args[0])
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return printJSON(cmd, w)
			}
			printWaypoint(cmd, w)
			return nil
		},
	}
}

func newEditCmd() *cobra.Command {
	var (
		name      string
		category  string
		icon      string
		notes     string
		x, y, z   string
		dimension string
	)
	cmd := &cobra.Command{
		Use:   "edit <waypoint-id>",
		Short: "Edit a waypoint in the active profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := activeProfile()
			if err != nil {
				return err
			}

			var patch types.WaypointPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("category") {
				patch.Category = &category
			}
			if cmd.Flags().Changed("icon") {
				patch.Icon = &icon
			}
			if cmd.Flags().Changed("notes") {
				patch.Notes = &notes
			}

			// Coordinate fields patch as a unit: unchanged axes keep their
			// stored values.
			if cmd.Flags().Changed("x") || cmd.Flags().Changed("y") ||
				cmd.Flags().Changed("z") || cmd.Flags().Changed("dimension") {
				current, err := store.GetWaypoint(p.ProfileID, args[0])
				if err != nil {
					return err
				}
				coord := current.Coordinate
				if cmd.Flags().Changed("x") {
					if coord.X, err = parseInt64(x, "x"); err != nil {
						return err
					}
				}
				if cmd.Flags().Changed("y") {
					if coord.Y, err = parseInt64(y, "y"); err != nil {
						return err
					}
				}
				if cmd.Flags().Changed("z") {
					if coord.Z, err = parseInt64(z, "z"); err != nil {
						return err
					}
				}
				if cmd.Flags().Changed("dimension") {
					coord.Dimension = dimension
				}
				patch.Coordinate = &coord
			}

			if err := store.UpdateWaypoint(p.ProfileID, args[0], patch); err != nil {
				return err
			}
			cmd.Printf("updated waypoint %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	cmd.Flags().StringVar(&icon, "icon", "", "new icon override (empty restores the category default)")
	cmd.Flags().StringVar(&notes, "notes", "", "new notes")
	cmd.Flags().StringVar(&x, "x", "", "new X coordinate")
	cmd.Flags().StringVar(&y, "y", "", "new Y coordinate")
	cmd.Flags().StringVar(&z, "z", "", "new Z coordinate")
	cmd.Flags().StringVar(&dimension, "dimension", "", "new dimension")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <waypoint-id>",
		Short: "Delete a waypoint from the active profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := activeProfile()
			if err != nil {
				return err
			}
			if err := store.DeleteWaypoint(p.ProfileID, args[0]); err != nil {
				return err
			}
			cmd.Printf("deleted waypoint %s\n", args[0])
			return nil
		},
	}
}
