package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunValidateImport(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantError   bool
		errorString string
	}{
		{
			name:    "Valid import file",
			content: `{"jobs": [{"jobTitle": "Engineer", "company": "Acme"}]}`,
		},
		{
			name:        "Missing required field",
			content:     `{"jobs": [{"company": "Acme"}]}`,
			wantError:   true,
			errorString: "validation error",
		},
		{
			name:        "Empty jobs array",
			content:     `{"jobs": []}`,
			wantError:   true,
			errorString: "validation error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "import.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			validateImportInputFile = path
			err := runValidateImport(nil, nil)

			if tt.wantError {
				assert.Error(t, err)
				if tt.errorString != "" {
					assert.Contains(t, err.Error(), tt.errorString)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRunValidateImport_MissingFile(t *testing.T) {
	validateImportInputFile = filepath.Join(t.TempDir(), "does-not-exist.json")

	err := runValidateImport(nil, nil)
	assert.Error(t, err)
}
