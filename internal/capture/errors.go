// Package capture orchestrates the job capture pipeline: parse, normalize,
// resolve entities, check duplicates, commit.
package capture

import "fmt"

// ValidationError indicates a request failed input validation
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ConfigurationError indicates required server-side configuration is missing,
// such as the default job status row
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Message)
}
