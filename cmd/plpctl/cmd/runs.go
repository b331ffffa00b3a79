package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/price-list-publisher/internal/api/client"
	"github.com/donaldgifford/price-list-publisher/internal/report"
)

func runsCmd() *cobra.Command {
	runsRoot := &cobra.Command{
		Use:   "runs",
		Short: "View publication run history",
		Long: "View the history of publication runs. Each run records its status,\n" +
			"item count, whether it changed the channel and any errors.",
	}

	runsRoot.AddCommand(
		runsListCmd(),
		runsGetCmd(),
	)

	return runsRoot
}

func runsListCmd() *cobra.Command {
	var (
		status  string
		changed string
		since   time.Duration
		limit   int
	)

	c := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		Example: `  plpctl runs list
  plpctl runs list --status failed --since 24h
  plpctl runs list --changed true --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			f := apiclient.RunFilter{Status: status, Limit: limit}
			if changed != "" {
				b, err := strconv.ParseBool(changed)
				if err != nil {
					return fmt.Errorf("invalid --changed %q: %w", changed, err)
				}
				f.Changed = &b
			}
			if since > 0 {
				f.Since = time.Now().Add(-since)
			}

			runs, err := newClient().ListRuns(context.Background(), f)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return report.JSON(os.Stdout, runs)
			}
			if len(runs) == 0 {
				fmt.Println("No runs found.")
				return nil
			}
			return report.Runs(os.Stdout, runs)
		},
	}
	c.Flags().StringVar(&status, "status", "", "status filter (running, succeeded, partial, failed, no_data, crashed)")
	c.Flags().StringVar(&changed, "changed", "", "only runs that did (true) or did not (false) change the channel")
	c.Flags().DurationVar(&since, "since", 0, "only runs started within this window, e.g. 24h")
	c.Flags().IntVar(&limit, "limit", 20, "number of runs")

	return c
}

func runsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <run_id>",
		Short: "Show a single run",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			run, err := newClient().GetRun(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return report.JSON(os.Stdout, run)
			}
			return report.Run(os.Stdout, run)
		},
	}
}
