package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/gobarber/internal/cli"
	"github.com/aretw0/gobarber/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gobarber",
	Short: "GoBarber client: sign in, browse providers and book appointments",
	Long: `gobarber keeps your GoBarber session between runs and talks to the GoBarber API.

Configuration is read from gobarber.yaml (or --config), GOBARBER_* environment
variables and the flags below, in increasing order of precedence.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		tui.PrintBanner(cmd.OutOrStdout())
		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./gobarber.yaml)")
	rootCmd.PersistentFlags().String("api-url", "", "GoBarber API base URL")
	rootCmd.PersistentFlags().String("store", "", "Session store driver: memory, file, sqlite or redis")
	rootCmd.PersistentFlags().String("store-path", "", "Path of the file or sqlite store")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("plain", false, "Print plain markdown instead of styled output")
}

func optionsFromFlags(cmd *cobra.Command) cli.Options {
	flags := cmd.Flags()
	var opts cli.Options
	opts.ConfigPath, _ = flags.GetString("config")
	opts.APIURL, _ = flags.GetString("api-url")
	opts.Store, _ = flags.GetString("store")
	opts.StorePath, _ = flags.GetString("store-path")
	opts.LogLevel, _ = flags.GetString("log-level")
	opts.Debug, _ = flags.GetBool("debug")
	opts.Plain, _ = flags.GetBool("plain")
	return opts
}

// withApp opens the client (restoring any saved session), runs fn and closes it.
func withApp(fn func(ctx context.Context, cmd *cobra.Command, app *cli.App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		opts := optionsFromFlags(cmd)
		cfg, err := cli.LoadConfig(opts)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}

		ctx, stop := cli.WithInterrupt(cmd.Context())
		defer stop()

		app, err := cli.Open(ctx, cfg, opts, cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer app.Close()

		return fn(ctx, cmd, app, args)
	}
}
