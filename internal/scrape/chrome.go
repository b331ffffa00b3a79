package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/donaldgifford/price-list-publisher/internal/metrics"
	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

const (
	defaultPageTimeout = 60 * time.Second
	defaultScrollPause = 2 * time.Second
	defaultMaxScrolls  = 50
)

// ChromeScraper renders each category page in headless Chrome, scrolls until
// the lazy-loaded list stops growing and parses the resulting HTML.
type ChromeScraper struct {
	urls        []string
	parser      Parser
	execPath    string
	pageTimeout time.Duration
	scrollPause time.Duration
	maxScrolls  int
	logger      *slog.Logger
}

// ChromeOption configures a ChromeScraper.
type ChromeOption func(*ChromeScraper)

// WithParser overrides the page parser.
func WithParser(p Parser) ChromeOption {
	return func(s *ChromeScraper) {
		s.parser = p
	}
}

// WithExecPath sets the Chrome binary. When unset the scraper looks on PATH
// and in the usual install locations.
func WithExecPath(path string) ChromeOption {
	return func(s *ChromeScraper) {
		s.execPath = path
	}
}

// WithPageTimeout bounds the time spent on a single page.
func WithPageTimeout(d time.Duration) ChromeOption {
	return func(s *ChromeScraper) {
		if d > 0 {
			s.pageTimeout = d
		}
	}
}

// WithScrollPause sets the wait between scrolls.
func WithScrollPause(d time.Duration) ChromeOption {
	return func(s *ChromeScraper) {
		if d > 0 {
			s.scrollPause = d
		}
	}
}

// WithMaxScrolls caps scrolling on pages that never settle.
func WithMaxScrolls(n int) ChromeOption {
	return func(s *ChromeScraper) {
		if n > 0 {
			s.maxScrolls = n
		}
	}
}

// WithLogger sets the scraper's logger.
func WithLogger(l *slog.Logger) ChromeOption {
	return func(s *ChromeScraper) {
		s.logger = l
	}
}

// NewChromeScraper creates a ChromeScraper for the given category pages.
func NewChromeScraper(urls []string, opts ...ChromeOption) *ChromeScraper {
	s := &ChromeScraper{
		urls:        urls,
		parser:      DefaultParser(),
		pageTimeout: defaultPageTimeout,
		scrollPause: defaultScrollPause,
		maxScrolls:  defaultMaxScrolls,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scrape visits every page in order. Any page failure fails the whole
// scrape: publishing a partial list would delete the missing categories.
func (s *ChromeScraper) Scrape(ctx context.Context) ([]domain.RawItem, error) {
	if len(s.urls) == 0 {
		return nil, errors.New("no source urls configured")
	}

	start := time.Now()
	defer func() {
		metrics.ScrapeDuration.Observe(time.Since(start).Seconds())
	}()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if bin := s.chromeBinary(); bin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...any) {}))
	defer cancelBrowser()

	var items []domain.RawItem
	for _, u := range s.urls {
		html, err := s.fetch(browserCtx, u)
		if err != nil {
			return nil, fmt.Errorf("scraping %s: %w", u, err)
		}

		page, err := s.parser.Parse(strings.NewReader(html))
		if err != nil {
			return nil, fmt.Errorf("scraping %s: %w", u, err)
		}
		s.logger.Info("page scraped", "url", u, "items", len(page))
		items = append(items, page...)
	}

	metrics.ScrapedItemsTotal.Add(float64(len(items)))
	return items, nil
}

func (s *ChromeScraper) fetch(browserCtx context.Context, url string) (string, error) {
	tabCtx, cancelTab := chromedp.NewContext(browserCtx)
	defer cancelTab()

	ctx, cancel := context.WithTimeout(tabCtx, s.pageTimeout)
	defer cancel()

	if err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady(s.parser.Selector, chromedp.ByQuery),
	); err != nil {
		return "", fmt.Errorf("loading page: %w", err)
	}

	if err := s.scrollToEnd(ctx); err != nil {
		return "", err
	}

	var html string
	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("reading page html: %w", err)
	}
	return html, nil
}

// scrollToEnd scrolls to the bottom until the document height stops
// changing.
func (s *ChromeScraper) scrollToEnd(ctx context.Context) error {
	var last float64
	if err := chromedp.Run(ctx, chromedp.Evaluate(`document.body.scrollHeight`, &last)); err != nil {
		return fmt.Errorf("measuring page: %w", err)
	}

	for i := 0; i < s.maxScrolls; i++ {
		var height float64
		if err := chromedp.Run(ctx,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(s.scrollPause),
			chromedp.Evaluate(`document.body.scrollHeight`, &height),
		); err != nil {
			return fmt.Errorf("scrolling page: %w", err)
		}
		if height == last {
			return nil
		}
		last = height
	}

	s.logger.Warn("page still growing after max scrolls", "max_scrolls", s.maxScrolls)
	return nil
}

func (s *ChromeScraper) chromeBinary() string {
	if s.execPath != "" {
		return s.execPath
	}
	return FindChromeBinary()
}

// FindChromeBinary locates a Chrome or Chromium executable, honouring
// CHROME_BIN. It returns "" when none is found, leaving chromedp's own
// lookup in charge.
func FindChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	for _, name := range []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	for _, p := range []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
