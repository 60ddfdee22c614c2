// Package cmd wires the twitter-mcp command tree.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X .../internal/cmd.Version=...".
var Version = "dev"

// NewRoot builds the top-level `twitter-mcp` command. Running it without a
// subcommand starts the server.
//
// Errors and usage are silent; main decides how to report them.
func NewRoot() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "twitter-mcp",
		Short:         "Twitter tools for agents over the Model Context Protocol",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file with credentials (ignored when missing)")

	root.AddCommand(
		newServeCmd(opts),
		newToolsCmd(),
		newVersionCmd(),
	)
	return root
}

type rootOptions struct {
	configFile string
	envFile    string
}
