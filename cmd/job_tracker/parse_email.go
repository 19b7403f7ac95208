package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/email"
)

var parseEmailCmd = &cobra.Command{
	Use:   "parse-email",
	Short: "Parse a job alert email into structured job fields",
	Long:  "Reads a job alert email body from a text file, extracts title, company, location and URL using the provider-specific parsers, and prints the result as JSON.",
	RunE:  runParseEmail,
}

var (
	parseEmailInputFile  string
	parseEmailOutputFile string
	parseEmailSubject    string
	parseEmailFrom       string
)

func init() {
	parseEmailCmd.Flags().StringVarP(&parseEmailInputFile, "in", "i", "", "Path to email body text file (required)")
	parseEmailCmd.Flags().StringVarP(&parseEmailOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	parseEmailCmd.Flags().StringVar(&parseEmailSubject, "subject", "", "Email subject line")
	parseEmailCmd.Flags().StringVar(&parseEmailFrom, "from", "", "Sender address, used to pick a provider parser")

	if err := parseEmailCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(parseEmailCmd)
}

func runParseEmail(_ *cobra.Command, _ []string) error {
	body, err := os.ReadFile(parseEmailInputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	candidate := email.ParseJobEmailAuto(string(body), parseEmailSubject, parseEmailFrom)
	if candidate.Title == "" {
		return fmt.Errorf("no job title could be extracted from %s", parseEmailInputFile)
	}

	output, err := json.MarshalIndent(candidate, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal parsed fields to JSON: %w", err)
	}

	if parseEmailOutputFile == "" {
		_, _ = fmt.Fprintln(os.Stdout, string(output))
		return nil
	}

	if err := os.WriteFile(parseEmailOutputFile, output, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", parseEmailOutputFile, err)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Parsed fields written to %s\n", parseEmailOutputFile)

	return nil
}
