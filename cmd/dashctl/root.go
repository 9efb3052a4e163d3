package main

import (
	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dashctl",
		Short: "dashctl - offline dashboard resolver",
		Long: `dashctl runs a registry export and a Lovelace document through the
graydash pipeline without a broker or database.

Example:
  dashctl resolve --registry registry.json --document lovelace.yaml --width 1280
  dashctl validate lovelace.yaml`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newResolveCmd())
	root.AddCommand(newValidateCmd())
	return root
}
