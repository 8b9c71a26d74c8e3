package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ogahribetzz/transparansi/internal/donations"
)

func newApproveCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a pending transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, *configPath)
			if err != nil {
				return err
			}
			tx, err := a.svc.ApproveTransaction(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Approved %s (%s, %s)\n", tx.ID, tx.Name, donations.FormatRupiah(tx.Amount))
			return nil
		},
	}
}

func newAuditCommand(configPath *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the admin action log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, *configPath)
			if err != nil {
				return err
			}
			entries, err := a.svc.AuditEntries()
			if err != nil {
				return err
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tACTOR\tACTION\tOUTCOME\tTRANSACTION\tDETAILS")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					e.Timestamp.Format(time.RFC3339), e.Actor, e.Action, e.Outcome, e.TransactionID, e.Details)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "show only the last N entries")

	return cmd
}
