package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"strips tracking params", "https://example.com/job?utm_source=linkedin&utm_medium=social&ref=twitter", "example.com/job"},
		{"preserves meaningful params", "https://example.com/job?id=123&location=nyc", "example.com/job?id=123&location=nyc"},
		{"drops scheme and www", "https://www.example.com/careers/42", "example.com/careers/42"},
		{"strips all trailing slashes", "https://example.com/job///", "example.com/job"},
		{"lowercases", "HTTPS://Example.COM/Jobs/Backend", "example.com/jobs/backend"},
		{"unparsable falls back to lowercase trim", "  Not A URL  ", "not a url"},
		{"no scheme falls back", "example.com/job", "example.com/job"},
		{"tracking params only drops query", "http://example.com/j?utm_campaign=x&utm_content=y&utm_term=z&source=a", "example.com/j"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeURL(tt.in))
		})
	}
}

func TestNormalizeURL_Idempotent(t *testing.T) {
	inputs := []string{
		"https://www.example.com/job?utm_source=linkedin&id=9",
		"https://example.com/job/",
		"not a url at all",
		"",
		"HTTP://EXAMPLE.COM/X?B=2&A=1",
	}
	for _, in := range inputs {
		once := NormalizeURL(in)
		assert.Equal(t, once, NormalizeURL(once), "normalize(normalize(%q))", in)
	}
}

func TestNormalizeJobTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lowercase and trim", "  Software Engineer  ", "software engineer"},
		{"collapses whitespace", "Software   \t Engineer", "software engineer"},
		{"strips trailing parenthetical", "Software Engineer (Remote)", "software engineer"},
		{"keeps mid-string parenthetical", "Engineer (Platform) Lead", "engineer (platform) lead"},
		{"plain title unchanged", "data scientist", "data scientist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeJobTitle(tt.in))
		})
	}
}

func TestNormalizeJobTitle_Idempotent(t *testing.T) {
	inputs := []string{"Software Engineer (Remote)", "  Staff   SRE ", "", "engineer (platform) lead"}
	for _, in := range inputs {
		once := NormalizeJobTitle(in)
		assert.Equal(t, once, NormalizeJobTitle(once))
	}
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "", NormalizeText(""))
	assert.Equal(t, "acme corp", NormalizeText("  Acme   Corp "))
	// No parenthetical stripping, unlike NormalizeJobTitle.
	assert.Equal(t, "acme (uk)", NormalizeText("Acme (UK)"))
}
