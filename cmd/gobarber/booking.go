package main

import (
	"context"
	"time"

	"github.com/aretw0/gobarber/internal/cli"
	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the service providers",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, app *cli.App, args []string) error {
		return app.Providers(ctx)
	}),
}

var availabilityCmd = &cobra.Command{
	Use:   "availability <provider-id>",
	Short: "Show a provider's morning and afternoon hours for a day",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, app *cli.App, args []string) error {
		day, err := dayFlag(cmd)
		if err != nil {
			return err
		}
		return app.Availability(ctx, args[0], day)
	}),
}

var bookCmd = &cobra.Command{
	Use:   "book <provider-id>",
	Short: "Book an appointment with a provider",
	Long:  `Books the given hour (0-23) on --date. The hour must be available in the provider's schedule.`,
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, app *cli.App, args []string) error {
		day, err := dayFlag(cmd)
		if err != nil {
			return err
		}
		hour, _ := cmd.Flags().GetInt("hour")
		return app.Book(ctx, args[0], day, hour)
	}),
}

func dayFlag(cmd *cobra.Command) (time.Time, error) {
	s, _ := cmd.Flags().GetString("date")
	return cli.ParseDay(s, time.Now())
}

func init() {
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(availabilityCmd)
	rootCmd.AddCommand(bookCmd)

	availabilityCmd.Flags().String("date", "", "Day as YYYY-MM-DD (default today)")
	bookCmd.Flags().String("date", "", "Day as YYYY-MM-DD (default today)")
	bookCmd.Flags().Int("hour", -1, "Hour to book (0-23)")
	_ = bookCmd.MarkFlagRequired("hour")
}
