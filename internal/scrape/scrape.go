package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/donaldgifford/price-list-publisher/internal/metrics"
	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

// Scraper returns the current price list in page order. An empty result
// means the source had no data.
type Scraper interface {
	Scrape(ctx context.Context) ([]domain.RawItem, error)
}

// SnapshotScraper replays saved page HTML. It backs offline previews and
// tests.
type SnapshotScraper struct {
	paths  []string
	parser Parser
	logger *slog.Logger
}

// NewSnapshotScraper creates a SnapshotScraper over the given HTML files,
// read in order on every Scrape.
func NewSnapshotScraper(paths []string, parser Parser, logger *slog.Logger) *SnapshotScraper {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotScraper{paths: paths, parser: parser, logger: logger}
}

// Scrape parses every snapshot file.
func (s *SnapshotScraper) Scrape(ctx context.Context) ([]domain.RawItem, error) {
	if len(s.paths) == 0 {
		return nil, errors.New("no snapshot files configured")
	}

	start := time.Now()
	var items []domain.RawItem
	for _, path := range s.paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := s.readFile(path)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("snapshot parsed", "path", path, "items", len(page))
		items = append(items, page...)
	}

	metrics.ScrapeDuration.Observe(time.Since(start).Seconds())
	metrics.ScrapedItemsTotal.Add(float64(len(items)))
	return items, nil
}

func (s *SnapshotScraper) readFile(path string) ([]domain.RawItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	items, err := s.parser.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return items, nil
}
