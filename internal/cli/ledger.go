package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/bikepark/internal/adapters/cli"
	"github.com/example/bikepark/internal/wire"
)

// openApp loads configuration from the working directory and wires the ledger.
func openApp() (*wire.App, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return wire.Load(cwd)
}

// withLedger runs fn against a LedgerAdapter bound to the command's streams.
func withLedger(cmd *cobra.Command, fn func(ctx context.Context, ledger *cliadapter.LedgerAdapter) error) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(cmd.Context(), a.LedgerAdapterWithIO(cmd.OutOrStdout(), cmd.InOrStdin()))
}

// CheckInCmd returns the checkin command
func CheckInCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkin [first-name] [last-name] [bike-color] [box]",
		Short: "Check a bike in",
		Long: `Record a bike arriving now. Names are stored as typed and matched
ignoring case. Several bikes may share a box.`,
		Example: `  bikepark checkin Ana Silva red 12`,
		Args:    cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd, func(ctx context.Context, ledger *cliadapter.LedgerAdapter) error {
				return ledger.CheckIn(ctx, args[0], args[1], args[2], args[3])
			})
		},
	}
}

// CheckOutCmd returns the checkout command
func CheckOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout [stay-id]",
		Short: "Check a bike out",
		Long:  `Record a bike leaving now. Checking out a stay twice keeps the first checkout time.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd, func(ctx context.Context, ledger *cliadapter.LedgerAdapter) error {
				return ledger.CheckOut(ctx, args[0])
			})
		},
	}
}

// ShowCmd returns the show command
func ShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [stay-id]",
		Short: "Show stay details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd, func(ctx context.Context, ledger *cliadapter.LedgerAdapter) error {
				_, err := ledger.Show(ctx, args[0])
				return err
			})
		},
	}
}

// FindCmd returns the find command
func FindCmd() *cobra.Command {
	var resolve bool

	cmd := &cobra.Command{
		Use:   "find [first-name] [last-name]",
		Short: "Find every stay for a person",
		Long: `List every stay, open or closed, for a first and last name, ignoring case.

With --resolve, asks for each open stay whether the bike has been collected
and records the checkout of those confirmed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd, func(ctx context.Context, ledger *cliadapter.LedgerAdapter) error {
				if resolve {
					return ledger.Resolve(ctx, args[0], args[1])
				}
				return ledger.Find(ctx, args[0], args[1])
			})
		},
	}

	cmd.Flags().BoolVarP(&resolve, "resolve", "r", false, "Prompt to check out each open stay")
	return cmd
}

// ListCmd returns the list command
func ListCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stays",
		Long:  `List every stay in check-in order, or only those checked in on --date.`,
		Example: `  bikepark list
  bikepark list --date 2024-05-10
  bikepark list --date 10-05-2024`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd, func(ctx context.Context, ledger *cliadapter.LedgerAdapter) error {
				if date != "" {
					return ledger.ListByDate(ctx, date)
				}
				return ledger.List(ctx)
			})
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Check-in day (YYYY-MM-DD or DD-MM-YYYY)")
	return cmd
}

// PendingCmd returns the pending command
func PendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List bikes still in the rack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd, func(ctx context.Context, ledger *cliadapter.LedgerAdapter) error {
				return ledger.Pending(ctx)
			})
		},
	}
}
