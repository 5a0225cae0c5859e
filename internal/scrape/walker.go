package scrape

import (
	"context"
	"fmt"
	"strconv"

	"github.com/nmarzin/gourmand/internal/domain"
	"github.com/nmarzin/gourmand/internal/fetch"
	"github.com/nmarzin/gourmand/internal/logger"
)

// Walker paginates a category listing, discovers recipe links and extracts
// each linked page. It performs no deduplication; that is the document
// store's concern.
type Walker struct {
	fetcher  *fetch.Fetcher
	maxPages int
}

// NewWalker creates a Walker that visits at most maxPages listing pages per
// category.
func NewWalker(fetcher *fetch.Fetcher, maxPages int) *Walker {
	if maxPages <= 0 {
		maxPages = 3
	}
	return &Walker{fetcher: fetcher, maxPages: maxPages}
}

// Walk fetches listing pages 1..maxPages for the category, extracts every
// recipe-card link and yields one recipe per link. A failure on a single
// card is logged and skipped; a failed listing page ends the category. The
// walk stops early when yield returns an error.
func (w *Walker) Walk(ctx context.Context, category, baseURL string, yield func(domain.Recipe) error) error {
	for page := 1; page <= w.maxPages; page++ {
		url := baseURL + strconv.Itoa(page)
		logger.CtxInfo(ctx, "Scraping category %s - page %d with URL %s", category, page, url)

		listing, err := w.fetcher.GetDocument(ctx, url)
		if err != nil {
			return fmt.Errorf("listing page %d for %s: %w", page, category, err)
		}

		for _, card := range fetch.FindAllByClass(listing, "div", "recipe-card") {
			link := fetch.FindByClass(card, "a", "recipe-card-link")
			href := fetch.Attr(link, "href")
			if href == "" {
				continue
			}

			doc, err := w.fetcher.GetDocument(ctx, href)
			if err != nil {
				logger.CtxWarn(ctx, "Skipping recipe %s: %v", href, err)
				continue
			}

			recipe := ExtractRecipePage(doc).Recipe(category)
			if err := yield(recipe); err != nil {
				return err
			}
		}
	}
	return nil
}
