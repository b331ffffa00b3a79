package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/price-list-publisher/internal/api/client"
	"github.com/donaldgifford/price-list-publisher/internal/report"
	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

var errRunFailed = errors.New("publication run did not succeed")

func publishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Trigger a publication run",
		Long: "Asks the server to scrape, format and reconcile the channel now and\n" +
			"prints the per-category outcome. Fails if a run is already in progress.",
		Example: `  plpctl publish
  plpctl publish --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			s, err := c.Publish(context.Background())
			if apiclient.IsStatus(err, http.StatusConflict) {
				fmt.Fprintln(os.Stderr, "A publication run is already in progress.")
				return err
			}
			if err != nil {
				return err
			}

			if jsonOutput() {
				err = report.JSON(os.Stdout, s)
			} else {
				err = report.RunSummary(os.Stdout, s)
			}
			if err != nil {
				return err
			}

			switch s.Status {
			case domain.RunStatusFailed, domain.RunStatusPartial:
				return fmt.Errorf("%w: %s", errRunFailed, s.Status)
			}
			return nil
		},
	}
}
