package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/bikepark/internal/cli"
	"github.com/example/bikepark/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "bikepark",
		Short:   "bikepark - front desk ledger for a bicycle parking",
		Version: version.String(),
		Long: `bikepark records bikes checked in and out of a parking, finds every stay
for a person, lists stays by day, and archives the ledger to a SQL file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Ledger commands
	rootCmd.AddCommand(cli.CheckInCmd())
	rootCmd.AddCommand(cli.CheckOutCmd())
	rootCmd.AddCommand(cli.ShowCmd())
	rootCmd.AddCommand(cli.FindCmd())
	rootCmd.AddCommand(cli.ListCmd())
	rootCmd.AddCommand(cli.PendingCmd())

	// Administration
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.ArchiveCmd())
	rootCmd.AddCommand(cli.RestoreCmd())

	// Developer tools
	rootCmd.AddCommand(cli.DevCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
