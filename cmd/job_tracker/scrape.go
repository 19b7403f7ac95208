package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/fetch"
	"github.com/jonathan/job-tracker/internal/scrape"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape a job posting URL and print the extracted fields",
	Long:  "Fetches a job posting page, extracts title, company, location and other fields from its metadata, and prints them as JSON without saving anything.",
	RunE:  runScrape,
}

var (
	scrapeURL        string
	scrapeOutputFile string
	scrapeUseBrowser bool
	scrapeTimeout    int
)

func init() {
	scrapeCmd.Flags().StringVarP(&scrapeURL, "url", "u", "", "Job posting URL (required)")
	scrapeCmd.Flags().StringVarP(&scrapeOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	scrapeCmd.Flags().BoolVar(&scrapeUseBrowser, "use-browser", false, "Use a headless browser for JavaScript-rendered pages")
	scrapeCmd.Flags().IntVar(&scrapeTimeout, "timeout", 30, "Fetch timeout in seconds")

	if err := scrapeCmd.MarkFlagRequired("url"); err != nil {
		panic(fmt.Sprintf("failed to mark url flag as required: %v", err))
	}

	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(_ *cobra.Command, _ []string) error {
	opts := fetch.DefaultOptions()
	if scrapeTimeout > 0 {
		opts.Timeout = time.Duration(scrapeTimeout) * time.Second
	}

	scraper := scrape.NewScraper(opts, scrapeUseBrowser, false)
	candidate := scraper.ScrapeJobFromURL(context.Background(), scrapeURL)

	if candidate.IsEmpty() {
		return fmt.Errorf("no job fields could be extracted from %s", scrapeURL)
	}

	output, err := json.MarshalIndent(candidate, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scraped fields to JSON: %w", err)
	}

	if scrapeOutputFile == "" {
		_, _ = fmt.Fprintln(os.Stdout, string(output))
		return nil
	}

	if err := os.WriteFile(scrapeOutputFile, output, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", scrapeOutputFile, err)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Scraped fields written to %s\n", scrapeOutputFile)

	return nil
}
