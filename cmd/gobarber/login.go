package main

import (
	"context"

	"github.com/aretw0/gobarber/internal/cli"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in and remember the session",
	Long: `Signs in with your GoBarber account. The password is prompted without echo
unless --password is given. The token and profile are stored so later commands
start signed in.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, app *cli.App, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		return app.Login(ctx, args[0], password)
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, app *cli.App, args []string) error {
		app.Logout(ctx)
		return nil
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user and token expiry",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, app *cli.App, args []string) error {
		return app.WhoAmI()
	}),
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	loginCmd.Flags().String("password", "", "Password (prompted when empty)")
}
