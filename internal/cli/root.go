// Package cli implements the waymark command-line launcher: the thin UI
// collaborator around the store. It opens the store before each command,
// closes it after, and surfaces load warnings on stderr.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petar-djukic/waymark/internal/paths"
	"github.com/petar-djukic/waymark/pkg/sqlite"
	"github.com/petar-djukic/waymark/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
}

var flags rootFlags

// store is the global Store instance, opened by PersistentPreRunE.
var store types.Store

// NewRootCmd creates the top-level "waymark" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "waymark",
		Short:   "Waymark is a personal registry of in-game coordinates",
		Long:    "Waymark keeps per-world profiles of named, categorized coordinates\nand answers filtered, sorted queries over them.",
		Version: Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:       true,
		PersistentPreRunE:  openStore,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return closeStore() },
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newProfileCmd())
	root.AddCommand(newAddCmd())
	root.AddCommand(newLogCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newEditCmd())
	root.AddCommand(newDeleteCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitUserError)
	}
}

// openStore resolves directories, loads config.yaml, and opens the store.
func openStore(cmd *cobra.Command, args []string) error {
	// Version and help do not touch the store.
	if cmd.Name() == "version" || cmd.Name() == "help" {
		return nil
	}
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return fmt.Errorf("resolving config dir: %w", err)
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	dataDir, err := paths.ResolveDataDir(flags.dataDir, cfg.GetString(cfgKeyDataDir))
	if err != nil {
		return fmt.Errorf("resolving data dir: %w", err)
	}

	store = sqlite.NewBackend()
	if err := store.Open(types.Config{
		Backend: cfg.GetString(cfgKeyBackend),
		DataDir: dataDir,
	}); err != nil {
		return err
	}
	for _, w := range store.Warnings() {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
	}
	return nil
}

// closeStore closes the global store if it was opened.
func closeStore() error {
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	return err
}

// activeProfile returns the active profile or an error telling the user to
// pick one.
func activeProfile() (*types.Profile, error) {
	p, err := store.ActiveProfile()
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("no active profile; run \"waymark profile use <name>\" first")
	}
	return p, nil
}

// profileByName resolves a profile name, case-insensitively.
func profileByName(name string) (*types.Profile, error) {
	profiles, err := store.Profiles()
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		if strings.EqualFold(profiles[i].Name, name) {
			return &profiles[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", types.ErrProfileNotFound, name)
}
