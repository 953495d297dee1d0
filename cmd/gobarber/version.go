package main

import (
	"fmt"

	"github.com/aretw0/gobarber"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gobarber",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gobarber version %s\n", gobarber.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
