package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/price-list-publisher/internal/report"
	"github.com/donaldgifford/price-list-publisher/internal/store"
)

func runsCommand() *cobra.Command {
	var (
		status string
		limit  int
	)

	c := &cobra.Command{
		Use:   "runs",
		Short: "List recent publication runs",
		Example: `  price-list-publisher runs
  price-list-publisher runs --status failed --limit 5`,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			newLogger(cfg)

			ctx := context.Background()
			s, err := openStore(ctx, cfg.Storage.Driver, &cfg.Storage)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			q := &store.RunQuery{Limit: limit}
			if status != "" {
				q.Status = &status
			}
			runs, err := s.ListRuns(ctx, q)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return report.JSON(os.Stdout, runs)
			}
			if len(runs) == 0 {
				fmt.Println("No runs recorded.")
				return nil
			}
			return report.Runs(os.Stdout, runs)
		},
	}
	c.Flags().StringVar(&status, "status", "", "status filter (succeeded, partial, failed, no_data, crashed)")
	c.Flags().IntVar(&limit, "limit", 20, "number of runs")

	return c
}
