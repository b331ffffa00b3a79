package scrape_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/price-list-publisher/internal/scrape"
	"github.com/donaldgifford/price-list-publisher/pkg/logger"
)

func fixture(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", "mobile.html"))
	require.NoError(t, err)
	return string(b)
}

func TestSnapshotScraper(t *testing.T) {
	t.Parallel()

	p := scrape.DefaultParser()
	p.SkipLeading = 2
	path := filepath.Join("testdata", "mobile.html")

	s := scrape.NewSnapshotScraper([]string{path, path}, p, logger.Discard())
	items, err := s.Scrape(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 14, "pages are concatenated in order")
	assert.Equal(t, "Galaxy", items[7].Brand)
}

func TestSnapshotScraper_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		paths []string
	}{
		{name: "no files", paths: nil},
		{name: "missing file", paths: []string{filepath.Join("testdata", "missing.html")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := scrape.NewSnapshotScraper(tt.paths, scrape.DefaultParser(), nil)
			_, err := s.Scrape(context.Background())
			require.Error(t, err)
		})
	}
}

func TestSnapshotScraper_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := scrape.NewSnapshotScraper([]string{filepath.Join("testdata", "mobile.html")}, scrape.DefaultParser(), nil)
	_, err := s.Scrape(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestChromeScraper_NoURLs(t *testing.T) {
	t.Parallel()

	s := scrape.NewChromeScraper(nil, scrape.WithLogger(logger.Discard()))
	_, err := s.Scrape(context.Background())
	require.Error(t, err)
}

func TestFindChromeBinary_Env(t *testing.T) {
	t.Setenv("CHROME_BIN", "/opt/custom/chrome")
	assert.Equal(t, "/opt/custom/chrome", scrape.FindChromeBinary())
}
