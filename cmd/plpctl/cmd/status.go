package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/price-list-publisher/internal/report"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the server is up and its ledger store reachable",
		RunE: func(_ *cobra.Command, _ []string) error {
			s, err := newClient().Ready(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return report.JSON(os.Stdout, s)
			}
			fmt.Println(s.Status)
			return nil
		},
	}
}
