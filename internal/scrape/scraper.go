package scrape

import (
	"context"
	"log"

	"github.com/jonathan/job-tracker/internal/fetch"
	"github.com/jonathan/job-tracker/internal/types"
)

// Scraper fetches a URL and extracts a candidate job record from the
// response body. It degrades rather than fails: any fetch or parse problem
// yields a minimal record carrying only the URL, so callers can always
// proceed to manual entry.
type Scraper struct {
	opts       *fetch.Options
	useBrowser bool
	verbose    bool
}

// NewScraper builds a Scraper. opts may be nil for defaults. When useBrowser
// is set, pages that yield an empty candidate from the plain HTTP fetch are
// retried through a headless browser render.
func NewScraper(opts *fetch.Options, useBrowser, verbose bool) *Scraper {
	if opts == nil {
		opts = fetch.DefaultOptions()
	}
	return &Scraper{opts: opts, useBrowser: useBrowser, verbose: verbose}
}

// ScrapeJobFromURL fetches urlStr and parses its HTML. It never returns an
// error: failures are logged and collapse to a record with only the URL set.
func (s *Scraper) ScrapeJobFromURL(ctx context.Context, urlStr string) types.CandidateJob {
	result, err := fetch.URL(ctx, urlStr, s.opts)
	if err != nil {
		log.Printf("[scrape] fetch failed for %s: %v", urlStr, err)
		return types.CandidateJob{URL: urlStr}
	}

	candidate := ParseJobFromHTML(result.HTML, urlStr)

	if s.useBrowser && candidate.IsEmpty() {
		if s.verbose {
			log.Printf("[scrape] static fetch empty for %s, retrying with browser", urlStr)
		}
		html, berr := fetch.BrowserSimple(ctx, urlStr, s.verbose)
		if berr != nil {
			log.Printf("[scrape] browser fetch failed for %s: %v", urlStr, berr)
			return candidate
		}
		candidate = ParseJobFromHTML(html, urlStr)
	}

	return candidate
}
