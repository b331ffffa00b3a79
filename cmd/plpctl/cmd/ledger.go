package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/price-list-publisher/internal/report"
)

func ledgerCmd() *cobra.Command {
	var date string

	c := &cobra.Command{
		Use:   "ledger",
		Short: "Show the published messages recorded for a day",
		Example: `  plpctl ledger
  plpctl ledger --date 2024-08-03 --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			entries, err := newClient().Ledger(context.Background(), date)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return report.JSON(os.Stdout, entries)
			}
			if len(entries) == 0 {
				fmt.Println("No ledger entries found.")
				return nil
			}
			return report.Ledger(os.Stdout, entries)
		},
	}
	c.Flags().StringVar(&date, "date", "", "publication day (YYYY-MM-DD), default the server's today")

	return c
}
