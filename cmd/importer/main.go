// Command importer uploads CSV exports to the transactions service and keeps
// a local ledger of what was imported.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rocjay1/finance-tracker/internal/client"
	"github.com/rocjay1/finance-tracker/internal/importer"
	"github.com/rocjay1/finance-tracker/internal/ledger"
	"github.com/rocjay1/finance-tracker/internal/logging"
	"github.com/rocjay1/finance-tracker/internal/models"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const defaultLedgerPath = "transactions.json"

type options struct {
	endpoint       string
	deleteEndpoint string
	ledgerPath     string
	timeout        time.Duration
	logLevel       string
}

func main() {
	decimal.MarshalJSONWithoutQuotes = true
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "importer",
		Short:        "Import transaction CSV files into the finance tracker",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupWriter(cmd.ErrOrStderr(), opts.logLevel, os.Getenv("LOG_FORMAT"))
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.endpoint, "endpoint", os.Getenv("IMPORT_ENDPOINT"), "Bulk import endpoint URL (env IMPORT_ENDPOINT)")
	flags.StringVar(&opts.deleteEndpoint, "delete-endpoint", os.Getenv("DELETE_ENDPOINT"), "Delete endpoint URL (env DELETE_ENDPOINT)")
	flags.StringVar(&opts.ledgerPath, "ledger", envOr("LEDGER_PATH", defaultLedgerPath), "Local ledger file (env LEDGER_PATH)")
	flags.DurationVar(&opts.timeout, "timeout", 60*time.Second, "HTTP timeout for remote calls")
	flags.StringVar(&opts.logLevel, "log-level", envOr("LOG_LEVEL", "warn"), "Log level: debug, info, warn, error")

	cmd.AddCommand(newImportCmd(opts), newListCmd(opts), newDeleteCmd(opts))
	return cmd
}

func (o *options) repository() *ledger.Repository {
	return ledger.NewRepository(ledger.NewFileBackend(o.ledgerPath))
}

func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Parse a CSV file, upload it as one batch and record it locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.endpoint == "" {
				return fmt.Errorf("--endpoint or IMPORT_ENDPOINT is required")
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			c := client.New(opts.endpoint, opts.deleteEndpoint, opts.timeout)
			coord := importer.NewCoordinator(c, opts.repository())

			outcome, err := coord.Import(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), importer.Banner(outcome))
			return nil
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the local ledger and totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			txns, err := opts.repository().All(cmd.Context())
			if err != nil {
				return err
			}
			printLedger(cmd.OutOrStdout(), txns)
			return nil
		},
	}
}

func newDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <local-id>",
		Short: "Delete a transaction locally and from the remote store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			localID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid local id %q: %w", args[0], err)
			}

			repo := opts.repository()
			txns, err := repo.All(cmd.Context())
			if err != nil {
				return err
			}
			idx := slices.IndexFunc(txns, func(t models.LocalTransaction) bool { return t.ID == localID })
			if idx < 0 {
				return fmt.Errorf("transaction %d: %w", localID, ledger.ErrNotFound)
			}

			// The local record is kept when the remote delete fails.
			dbID := txns[idx].DBID
			if dbID != nil {
				c := client.New(opts.endpoint, opts.deleteEndpoint, opts.timeout)
				if err := c.Delete(cmd.Context(), *dbID); err != nil {
					return fmt.Errorf("remote delete of %s failed: %w", *dbID, err)
				}
			}

			if _, err := repo.Delete(cmd.Context(), localID); err != nil {
				return err
			}
			if dbID == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d locally (no remote id)\n", localID)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d (remote id %s)\n", localID, *dbID)
			return nil
		},
	}
}

func printLedger(w io.Writer, txns []models.LocalTransaction) {
	for _, t := range txns {
		dbID := "-"
		if t.DBID != nil {
			dbID = string(*t.DBID)
		}
		fmt.Fprintf(w, "%d\t%s\t%-7s\t%10s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Date, t.Type, t.Amount.StringFixed(2), t.Name, models.CategoryLabel(t.Type, t.Category), models.PaymentModeLabel(t.PaymentMode), dbID)
	}

	s := ledger.Summarize(txns)
	fmt.Fprintf(w, "\nIncome: %s  Expense: %s  Balance: %s\n",
		s.Income.StringFixed(2), s.Expense.StringFixed(2), s.Balance.StringFixed(2))
}
