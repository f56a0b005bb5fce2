package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "support-api",
		Short: "PureIoT support ticket API",
		Long:  `Accepts support tickets, emails them to the support desk and serves the staff status update form.`,
		RunE:  runServe,
	}

	rootCmd.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
