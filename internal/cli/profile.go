// Profile management commands: the world switcher surface.
package cli

import (
	"github.com/spf13/cobra"
)

func newProfileCmd() *cobra.Command {
	profile := &cobra.Command{
		Use:   "profile",
		Short: "Manage world profiles",
	}
	profile.AddCommand(newProfileCreateCmd())
	profile.AddCommand(newProfileListCmd())
	profile.AddCommand(newProfileUseCmd())
	profile.AddCommand(newProfileRenameCmd())
	profile.AddCommand(newProfileDeleteCmd())
	profile.AddCommand(newProfileSeedCmd())
	return profile
}

func newProfileCreateCmd() *cobra.Command {
	var use bool
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new world profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := store.CreateProfile(args[0])
			if err != nil {
				return err
			}
			if use {
				if err := store.SetActiveProfile(id); err != nil {
					return err
				}
			}
			if flags.jsonMode {
				return printJSON(cmd, map[string]string{"profile_id": id, "name": args[0]})
			}
			cmd.Printf("created profile %q (%s)\n", args[0], id)
			return nil
		},
	}
	cmd.Flags().BoolVar(&use, "use", false, "make the new profile active")
	return cmd
}

func newProfileListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List world profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := store.Profiles()
			if err != nil {
				return err
			}
			active, err := store.ActiveProfile()
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return printJSON(cmd, profiles)
			}
			for _, p := range profiles {
				marker := " "
				if active != nil && active.ProfileID == p.ProfileID {
					marker = "*"
				}
				cmd.Printf("%s %s (%d waypoints)\n", marker, p.Name, p.WaypointCount)
			}
			return nil
		},
	}
}

func newProfileUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Switch the active profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := profileByName(args[0])
			if err != nil {
				return err
			}
			if err := store.SetActiveProfile(p.ProfileID); err != nil {
				return err
			}
			cmd.Printf("active profile: %s\n", p.Name)
			return nil
		},
	}
}

func newProfileRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name> <new-name>",
		Short: "Rename a profile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := profileByName(args[0])
			if err != nil {
				return err
			}
			if err := store.RenameProfile(p.ProfileID, args[1]); err != nil {
				return err
			}
			cmd.Printf("renamed %q to %q\n", args[0], args[1])
			return nil
		},
	}
}

func newProfileDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a profile and all its waypoints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := profileByName(args[0])
			if err != nil {
				return err
			}
			if err := store.DeleteProfile(p.ProfileID); err != nil {
				return err
			}
			cmd.Printf("deleted profile %q\n", args[0])
			return nil
		},
	}
}

func newProfileSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <value>",
		Short: "Record the world seed on the active profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := activeProfile()
			if err != nil {
				return err
			}
			if err := store.SetProfileSeed(p.ProfileID, args[0]); err != nil {
				return err
			}
			cmd.Printf("seed recorded for %s\n", p.Name)
			return nil
		},
	}
}
