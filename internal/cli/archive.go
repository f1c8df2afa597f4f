package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	cliadapter "github.com/example/bikepark/internal/adapters/cli"
	"github.com/example/bikepark/internal/wire"
)

// ArchiveCmd returns the archive command
func ArchiveCmd() *cobra.Command {
	var secret string

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Export the ledger to a SQL file and empty it",
		Long: `Write the whole ledger to exportbkp/ledger_export_DDMMYYYY.sql and then
delete every stay. Requires the admin secret (BIKEPARK_ADMIN_SECRET).

A second archive on the same day replaces that day's file. If the file
cannot be written, nothing is deleted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				typed, err := readSecret(cmd.InOrStdin(), cmd.OutOrStdout())
				if err != nil {
					return err
				}
				secret = typed
			}

			return withLedger(cmd, func(ctx context.Context, ledger *cliadapter.LedgerAdapter) error {
				return ledger.Archive(ctx, secret)
			})
		},
	}

	cmd.Flags().StringVarP(&secret, "secret", "s", "", "Admin secret (prompted when omitted)")
	return cmd
}

// readSecret prompts for the admin secret. Input from a terminal is not
// echoed; piped input is read up to the first newline.
func readSecret(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Admin secret: ")

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		typed, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}
		return string(typed), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("no secret given")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// RestoreCmd returns the restore command
func RestoreCmd() *cobra.Command {
	var into string

	cmd := &cobra.Command{
		Use:   "restore [archive-file]",
		Short: "Rebuild a ledger from an archive file",
		Long: `Replay an archive produced by 'bikepark archive' into a new database file.
The live ledger is never touched.`,
		Example: `  bikepark restore exportbkp/ledger_export_10052024.sql --into /tmp/may10.db`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if into == "" {
				return fmt.Errorf("--into is required")
			}

			restored, err := wire.RestoreArchive(cmd.Context(), args[0], into)
			if err != nil {
				return fmt.Errorf("failed to restore archive: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Restored %d stay(s) into %s\n", restored, into)
			return nil
		},
	}

	cmd.Flags().StringVar(&into, "into", "", "Database file to create")
	return cmd
}
