package main

import (
	"context"

	"github.com/aretw0/gobarber/internal/cli"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect the stored session",
	Long:  `List the persisted keys, draw the session lifecycle or follow session changes.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List persisted keys (token values are masked)",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, app *cli.App, args []string) error {
		return app.StorageList(ctx)
	}),
}

var sessionGraphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the session lifecycle as a Mermaid diagram",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, app *cli.App, args []string) error {
		app.Graph()
		return nil
	}),
}

var sessionWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print every session change until interrupted",
	Long: `Follows the session in this process until Ctrl+C. Combine with metrics.addr
(or GOBARBER_METRICS_ADDR) to expose Prometheus metrics meanwhile.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, app *cli.App, args []string) error {
		return app.Watch(ctx)
	}),
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionGraphCmd)
	sessionCmd.AddCommand(sessionWatchCmd)
}
