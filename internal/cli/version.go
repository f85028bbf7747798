package cli

import "github.com/spf13/cobra"

// Version is the waymark release version.
const Version = "0.2.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the waymark version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("waymark", Version)
		},
	}
}
