package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/price-list-publisher/internal/engine"
	"github.com/donaldgifford/price-list-publisher/internal/report"
	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

func previewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Scrape and print the formatted messages without publishing",
		Long: "Scrapes the configured source (or snapshots) and prints every message block " +
			"that a run would publish. Neither the ledger nor the channel is touched.",
		RunE: runPreview,
	}
}

func runPreview(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, cfg, log, appOptions{memoryStore: true, dryRun: true})
	if err != nil {
		return err
	}
	defer func() { _ = a.close() }()

	comp, err := a.engine.Compose(ctx)
	if errors.Is(err, engine.ErrNoData) {
		fmt.Fprintln(os.Stderr, "No data scraped.")
		return nil
	}
	if err != nil {
		return err
	}

	if jsonOutput() {
		return report.JSON(os.Stdout, comp)
	}

	fmt.Printf("%s: %d items, %d orphan lines, %d messages\n", comp.Date, comp.Items, comp.Orphans, comp.Parts())
	for _, c := range domain.Categories() {
		for _, b := range comp.Blocks[c] {
			fmt.Printf("\n===== %s part %d =====\n%s\n", c, b.Index, b.Text)
		}
	}
	return nil
}
