package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/dedup"
	"github.com/jonathan/job-tracker/internal/server"
)

var (
	servePort       int
	serveUseBrowser bool
	serveVerbose    bool
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for capturing and listing job postings.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveUseBrowser, "use-browser", false, "Use a headless browser for JavaScript-rendered job pages")
	serveCmd.Flags().BoolVar(&serveVerbose, "verbose", false, "Print detailed debug information")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	fileCfg := &config.Config{}
	if serveConfigPath != "" {
		loaded, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		fileCfg = loaded
	}

	// Get database URL from environment
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		databaseURL = fileCfg.DatabaseURL
	}
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	port := servePort
	if fileCfg.Port != 0 && port == 8080 {
		port = fileCfg.Port
	}

	dedupCfg := dedup.DefaultResolverConfig()
	if fileCfg.DedupWindowDays > 0 {
		dedupCfg.Window = time.Duration(fileCfg.DedupWindowDays) * 24 * time.Hour
	}
	if fileCfg.DedupMaxCandidates > 0 {
		dedupCfg.MaxCandidates = fileCfg.DedupMaxCandidates
	}
	if fileCfg.TitleThreshold > 0 {
		dedupCfg.TitleThreshold = fileCfg.TitleThreshold
	}

	cfg := server.Config{
		Port:        port,
		DatabaseURL: databaseURL,
		UseBrowser:  serveUseBrowser || fileCfg.UseBrowser,
		Verbose:     serveVerbose || fileCfg.Verbose,
		Dedup:       dedupCfg,
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
