package cli

import (
	"github.com/spf13/cobra"

	"github.com/petar-djukic/waymark/pkg/types"
)

func newListCmd() *cobra.Command {
	var (
		text       string
		categories []string
		dimension  string
		sortKey    string
		desc       bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List waypoints in the active profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := activeProfile()
			if err != nil {
				return err
			}
			q := types.Query{
				Text:       text,
				Categories: categories,
				Dimension:  dimension,
				SortKey:    sortKey,
			}
			if desc {
				q.SortDirection = types.SortDescending
			}
			waypoints, err := store.Query(p.ProfileID, q)
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return printJSON(cmd, waypoints)
			}
			if len(waypoints) == 0 {
				cmd.Println("no waypoints")
				return nil
			}
			for _, w := range waypoints {
				cmd.Printf("%s  %-10s %s  %s\n", w.WaypointID, w.Category, w.Coordinate, w.Name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "match names and notes containing this text")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "only these categories (repeatable)")
	cmd.Flags().StringVar(&dimension, "dimension", "", "only this dimension")
	cmd.Flags().StringVar(&sortKey, "sort", "", "sort key (name, created_at, updated_at, category)")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	return cmd
}
