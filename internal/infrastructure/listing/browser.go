package listing

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/dealscope/backend/internal/domain"
)

// Config holds the browser fetcher settings. The selectors describe where a
// listing page keeps each product's title, price text and detail link.
type Config struct {
	BrowserBin    string
	Headless      bool
	PageTimeout   time.Duration
	ItemSelector  string
	TitleSelector string
	PriceSelector string
	LinkSelector  string
}

// BrowserFetcher extracts product listings with a headless browser. The
// source storefront renders its listings client-side, so a plain HTTP fetch
// sees an empty shell. One browser instance is shared across requests; each
// fetch opens and closes its own page.
type BrowserFetcher struct {
	browser *rod.Browser
	cfg     Config
	logger  *zap.SugaredLogger
}

// NewBrowserFetcher launches the browser and connects to it. Call Close when
// done to release the browser process.
func NewBrowserFetcher(cfg Config, logger *zap.SugaredLogger) (*BrowserFetcher, error) {
	if cfg.PageTimeout <= 0 {
		cfg.PageTimeout = 30 * time.Second
	}

	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(true).
		Leakless(false)

	bin := cfg.BrowserBin
	if bin == "" {
		// System Chromium in containers, auto-detect otherwise.
		if _, err := os.Stat("/usr/bin/chromium-browser"); err == nil {
			bin = "/usr/bin/chromium-browser"
		}
	}
	if bin != "" {
		l = l.Bin(bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	logger.Infow("browser connected", "control", controlURL, "headless", cfg.Headless)
	return &BrowserFetcher{browser: browser, cfg: cfg, logger: logger}, nil
}

// FetchListingPage loads a listing URL and extracts its product entries.
// Returns an error when the page cannot be loaded or no recognizable product
// markup is present after the bounded wait.
func (f *BrowserFetcher) FetchListingPage(ctx context.Context, pageURL string) ([]domain.ScrapedItem, error) {
	page, err := f.browser.Page(proto.TargetCreateTarget{URL: pageURL})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer page.Close()

	page = page.Context(ctx).Timeout(f.cfg.PageTimeout)
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("page load failed: %w", err)
	}

	elements, err := page.Elements(f.cfg.ItemSelector)
	if err != nil {
		return nil, fmt.Errorf("product lookup failed: %w", err)
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("no product markup found at %s", pageURL)
	}

	items := make([]domain.ScrapedItem, 0, len(elements))
	for _, el := range elements {
		item := domain.ScrapedItem{
			Title:     f.elementText(el, f.cfg.TitleSelector),
			PriceText: f.elementText(el, f.cfg.PriceSelector),
			Link:      f.elementAttr(el, f.cfg.LinkSelector, "href"),
		}
		if item.Title == "" {
			continue
		}
		items = append(items, item)
	}

	f.logger.Debugw("listing page scraped", "url", pageURL, "items", len(items))
	return items, nil
}

// Close shuts the shared browser down.
func (f *BrowserFetcher) Close() error {
	return f.browser.Close()
}

func (f *BrowserFetcher) elementText(el *rod.Element, selector string) string {
	child, err := el.Element(selector)
	if err != nil {
		return ""
	}
	text, err := child.Text()
	if err != nil {
		return ""
	}
	return text
}

func (f *BrowserFetcher) elementAttr(el *rod.Element, selector, attr string) string {
	child, err := el.Element(selector)
	if err != nil {
		return ""
	}
	value, err := child.Attribute(attr)
	if err != nil || value == nil {
		return ""
	}
	return *value
}
