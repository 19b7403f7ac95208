package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJobImportValid(t *testing.T) {
	payload := `{
		"jobs": [
			{"jobTitle": "Platform Engineer", "company": "Acme Corp"},
			{"jobTitle": "SRE", "company": "Acme Corp", "location": "Remote", "jobUrl": "https://acme.example/jobs/2"}
		]
	}`

	assert.NoError(t, ValidateJobImport(payload))
}

func TestValidateJobImportMissingRequiredField(t *testing.T) {
	payload := `{"jobs": [{"company": "Acme Corp"}]}`

	err := ValidateJobImport(payload)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.NotEmpty(t, verr.Errors)
	assert.Contains(t, verr.Error(), "jobTitle")
}

func TestValidateJobImportEmptyJobsArray(t *testing.T) {
	err := ValidateJobImport(`{"jobs": []}`)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestValidateJobImportUnknownField(t *testing.T) {
	payload := `{"jobs": [{"jobTitle": "Engineer", "company": "Acme", "rating": 5}]}`

	err := ValidateJobImport(payload)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestValidateJobImportMalformedJSON(t *testing.T) {
	err := ValidateJobImport(`{not json`)

	var lerr *SchemaLoadError
	require.ErrorAs(t, err, &lerr)
}
