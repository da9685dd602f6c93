package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Station-Manager/gqlkit/internal/server"
)

var serveOpts server.Options

var serveCmd = &cobra.Command{
	Use:   "serve [listen-address]",
	Short: "Serve the GraphQL endpoint.",
	Long: `Starts the HTTP server exposing the GraphQL endpoint.

Settings come from defaults, then the optional YAML file, then the .env file,
then the process environment. A listen address argument overrides HTTP_ADDR.
When DATABASE_URL is set, callers are resolved from bearer session tokens;
otherwise every request is anonymous.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		opts := serveOpts
		if len(args) > 0 {
			opts.ListenAddress = args[0]
		}
		return server.Run(ctx, &opts)
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	serveCmd.Flags().StringVarP(&serveOpts.ConfigPath, "config", "c", "", "path to YAML configuration file")
	serveCmd.Flags().StringVar(&serveOpts.EnvFile, "env-file", "", "path to dotenv file (default ./.env when present)")
	rootCmd.AddCommand(serveCmd)
}
