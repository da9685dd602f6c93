package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X ...cmd.version=v1.2.3".
var version = "dev"

// rootCmd is the gqlkit entry point; the work happens in subcommands.
var rootCmd = &cobra.Command{
	Use:          "gqlkit",
	Short:        "GraphQL request context and structured logging toolkit.",
	SilenceUsage: true,
	Version:      version,
}

// Execute runs the gqlkit CLI and exits with non-zero status on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
