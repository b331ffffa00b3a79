package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/price-list-publisher/internal/report"
)

func ledgerCommand() *cobra.Command {
	var date string

	c := &cobra.Command{
		Use:   "ledger",
		Short: "List the published messages recorded for a day",
		Example: `  price-list-publisher ledger
  price-list-publisher ledger --date 2024-08-03 --json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			ctx := context.Background()
			s, err := openStore(ctx, cfg.Storage.Driver, &cfg.Storage)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			if date == "" {
				loc, err := cfg.Publish.Location()
				if err != nil {
					return err
				}
				date = time.Now().In(loc).Format(time.DateOnly)
			}
			log.Debug("listing ledger", "date", date)

			entries, err := s.ListEntries(ctx, date)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return report.JSON(os.Stdout, entries)
			}
			if len(entries) == 0 {
				fmt.Printf("No ledger entries for %s.\n", date)
				return nil
			}
			return report.Ledger(os.Stdout, entries)
		},
	}
	c.Flags().StringVar(&date, "date", "", "publication day (YYYY-MM-DD), default today")

	return c
}
