package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/bikepark/internal/db"
)

// DevCmd returns the dev command group for development utilities.
func DevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "dev",
		Short:  "Development utilities",
		Hidden: true,
		Long: `Development utilities for working with a scratch ledger.

These commands require BIKEPARK_DB_PATH to be set explicitly, so the
ledger next to the executable is never reset by accident.`,
	}

	cmd.AddCommand(devResetCmd())
	return cmd
}

func devResetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset dev database with fresh fixtures",
		Long: `Delete the dev database and recreate it with fixture stays.

This command:
1. Deletes the existing dev database file
2. Creates a fresh database with the current schema
3. Seeds stays over the last three days, two of them still open in box 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			// Safety check: require BIKEPARK_DB_PATH to be set
			dbPath := os.Getenv("BIKEPARK_DB_PATH")
			if dbPath == "" {
				return fmt.Errorf("BIKEPARK_DB_PATH not set\n\nThis safety check prevents accidental reset of the real ledger")
			}

			// Confirmation unless --force
			if !force {
				fmt.Fprintf(out, "This will delete and recreate: %s\n", dbPath)
				fmt.Fprint(out, "Continue? [y/N] ")
				var response string
				fmt.Fscanln(cmd.InOrStdin(), &response)
				if response != "y" && response != "Y" {
					fmt.Fprintln(out, "Aborted.")
					return nil
				}
			}

			if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to delete database: %w", err)
			}
			fmt.Fprintf(out, "✓ Deleted %s\n", dbPath)

			database, err := db.Open(dbPath)
			if err != nil {
				return fmt.Errorf("failed to create database: %w", err)
			}
			defer database.Close()
			fmt.Fprintln(out, "✓ Created fresh database with schema")

			if err := db.SeedFixtures(database, time.Now()); err != nil {
				return fmt.Errorf("failed to seed fixtures: %w", err)
			}
			fmt.Fprintln(out, "✓ Seeded 5 stays (2 pending in box 7)")

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}
