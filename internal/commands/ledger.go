package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ogahribetzz/transparansi/internal/donations"
	"github.com/ogahribetzz/transparansi/internal/ledger"
	"github.com/ogahribetzz/transparansi/internal/model"
)

func newSummaryCommand(configPath *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show approved income, expense and balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, *configPath)
			if err != nil {
				return err
			}

			res := a.svc.Summary(cmd.Context())
			warnFallback(cmd, res.Outcome)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res.Items)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Pemasukan\t%s\n", donations.FormatRupiah(res.Items.Income))
			fmt.Fprintf(tw, "Pengeluaran\t%s\n", donations.FormatRupiah(res.Items.Expense))
			fmt.Fprintf(tw, "Saldo\t%s\n", donations.FormatRupiah(res.Items.Balance))
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

// ledgerFlags are the filters shared by transactions and export.
type ledgerFlags struct {
	all      bool
	typ      string
	query    string
	from     string
	to       string
	category string
}

func (f *ledgerFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.all, "all", false, "include pending transactions")
	cmd.Flags().StringVar(&f.typ, "type", "", "INCOME or EXPENSE")
	cmd.Flags().StringVar(&f.query, "q", "", "name contains (case-insensitive)")
	cmd.Flags().StringVar(&f.from, "from", "", "earliest date, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.to, "to", "", "latest date, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.category, "category", "", "exact category")
}

func (f *ledgerFlags) criteria() (ledger.Criteria, error) {
	c := ledger.Criteria{
		Type:      model.TransactionType(strings.ToUpper(strings.TrimSpace(f.typ))),
		NameQuery: f.query,
		From:      strings.TrimSpace(f.from),
		To:        strings.TrimSpace(f.to),
		Category:  f.category,
	}
	return c, c.Validate()
}

func (f *ledgerFlags) read(cmd *cobra.Command, a *app) ([]model.Transaction, error) {
	c, err := f.criteria()
	if err != nil {
		return nil, err
	}
	var res donations.Result[[]model.Transaction]
	if f.all {
		res = a.svc.AllTransactions(cmd.Context(), c)
	} else {
		res = a.svc.PublicLedger(cmd.Context(), c)
	}
	warnFallback(cmd, res.Outcome)
	return res.Items, nil
}

func newTransactionsCommand(configPath *string) *cobra.Command {
	var flags ledgerFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List ledger transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, *configPath)
			if err != nil {
				return err
			}
			txns, err := flags.read(cmd, a)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), txns)
			}
			return printTransactions(cmd.OutOrStdout(), txns)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

func newExportCommand(configPath *string) *cobra.Command {
	var flags ledgerFlags
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ledger as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, *configPath)
			if err != nil {
				return err
			}
			txns, err := flags.read(cmd, a)
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				return ledger.WriteTransactions(cmd.OutOrStdout(), txns)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			if err := ledger.WriteTransactions(f, txns); err != nil {
				f.Close()
				return fmt.Errorf("writing %s: %w", out, err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transactions to %s\n", len(txns), out)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&out, "out", "", "output file (stdout when empty)")

	return cmd
}

func printTransactions(w io.Writer, txns []model.Transaction) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTYPE\tSTATUS\tAMOUNT\tCATEGORY\tNAME")
	for _, t := range txns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Date, t.Type, t.Status, donations.FormatRupiah(t.Amount), t.Category, t.Name)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
