package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/bikepark/internal/config"
	"github.com/example/bikepark/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var (
		secret string
		dbPath string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the bikepark ledger",
		Long: `Write a .env file in the current directory with the ledger settings and
create the database with the required schema.

Without --db the ledger lives next to the bikepark executable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			envPath := filepath.Join(cwd, config.EnvFileName)
			if _, err := os.Stat(envPath); err == nil && !force {
				return fmt.Errorf("%s already exists\nHint: use --force to overwrite it", envPath)
			}

			cfg := &config.Config{
				DBPath:      dbPath,
				AdminSecret: secret,
				TimeZone:    "Local",
				LogLevel:    "warn",
			}
			if err := cfg.Resolve(); err != nil {
				return err
			}

			if err := config.SaveConfig(cwd, cfg); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Wrote %s\n", envPath)

			database, err := db.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			database.Close()
			fmt.Fprintf(out, "✓ Database ready at %s\n", cfg.DBPath)

			if cfg.AdminSecret == "" {
				fmt.Fprintln(out, "  ! No admin secret set: archive is disabled until BIKEPARK_ADMIN_SECRET is configured")
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  bikepark checkin Ana Silva red 12")
			fmt.Fprintln(out, "  bikepark pending")

			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "Admin secret required to archive the ledger")
	cmd.Flags().StringVar(&dbPath, "db", "", "Database file (default: next to the executable)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing .env")
	return cmd
}
