package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/schemas"
)

var validateImportCmd = &cobra.Command{
	Use:   "validate-import",
	Short: "Validate a bulk job import JSON file",
	Long:  "Checks that a JSON file matches the bulk import schema before it is sent to the import endpoint, and reports each field that fails.",
	RunE:  runValidateImport,
}

var validateImportInputFile string

func init() {
	validateImportCmd.Flags().StringVarP(&validateImportInputFile, "in", "i", "", "Path to import JSON file (required)")

	if err := validateImportCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(validateImportCmd)
}

func runValidateImport(_ *cobra.Command, _ []string) error {
	err := schemas.ValidateJSONFile(validateImportInputFile)
	if err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			_, _ = fmt.Fprintf(os.Stderr, "Validation failed for %s:\n", validateImportInputFile)
			for _, fieldErr := range validationErr.Errors {
				_, _ = fmt.Fprintf(os.Stderr, "  - %s: %s\n", fieldErr.Field, fieldErr.Message)
			}
			return fmt.Errorf("%d validation error(s)", len(validationErr.Errors))
		}
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s is valid\n", validateImportInputFile)
	return nil
}
