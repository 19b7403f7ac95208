// Package scrape derives candidate job records from raw HTML documents.
// Three independent extraction strategies run over one document and are
// merged field-by-field with a fixed priority: JSON-LD structured data, then
// OpenGraph tags, then basic metadata.
package scrape

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/job-tracker/internal/types"
)

// jobPostingType is the schema.org type tag the structured-data strategy
// looks for.
const jobPostingType = "JobPosting"

// ParseJobFromHTML extracts a candidate job record from an HTML document.
// Each strategy is best-effort; the merge is a field-by-field override, so a
// document can take its title from structured data and its description from
// OpenGraph. The caller-supplied URL is attached verbatim.
func ParseJobFromHTML(html, url string) types.CandidateJob {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return types.CandidateJob{URL: url}
	}

	return mergeByPriority(url,
		extractStructuredData(doc),
		extractOpenGraphData(doc),
		extractBasicMetadata(doc),
	)
}

// mergeByPriority merges candidates field by field: the first (highest
// priority) candidate with a non-empty value for a field wins it.
func mergeByPriority(url string, ordered ...types.CandidateJob) types.CandidateJob {
	merged := types.CandidateJob{URL: url}
	for _, c := range ordered {
		merged.Title = firstNonEmpty(merged.Title, c.Title)
		merged.Company = firstNonEmpty(merged.Company, c.Company)
		merged.Location = firstNonEmpty(merged.Location, c.Location)
		merged.Description = firstNonEmpty(merged.Description, c.Description)
		merged.LogoURL = firstNonEmpty(merged.LogoURL, c.LogoURL)
		merged.SalaryRange = firstNonEmpty(merged.SalaryRange, c.SalaryRange)
	}
	return merged
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// extractStructuredData scans all embedded JSON-LD script blocks. Each block
// is parsed independently so a malformed block is skipped, never fatal to
// the whole document. Successes are folded in document order; the first
// JobPosting item with a non-empty title wins, with a titleless JobPosting
// kept as fallback.
func extractStructuredData(doc *goquery.Document) types.CandidateJob {
	var found, fallback types.CandidateJob

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		job, ok, err := parseJobPostingBlock(sel.Text())
		if err != nil || !ok {
			return true // skip malformed or non-JobPosting block
		}
		if job.Title != "" {
			found = job
			return false
		}
		if fallback.IsEmpty() {
			fallback = job
		}
		return true
	})

	if found.Title != "" {
		return found
	}
	return fallback
}

// parseJobPostingBlock parses one JSON-LD block. It returns ok=false when
// the block holds no JobPosting item, and a non-nil error when the JSON
// itself is malformed.
func parseJobPostingBlock(raw string) (types.CandidateJob, bool, error) {
	var parsed any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return types.CandidateJob{}, false, err
	}

	// A block may hold a single item or an array of items.
	items, ok := parsed.([]any)
	if !ok {
		items = []any{parsed}
	}

	var fallback types.CandidateJob
	haveFallback := false

	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok || getString(m, "@type") != jobPostingType {
			continue
		}

		job := candidateFromJobPosting(m)
		if job.Title != "" {
			return job, true, nil
		}
		if !haveFallback {
			fallback = job
			haveFallback = true
		}
	}

	return fallback, haveFallback, nil
}

func candidateFromJobPosting(m map[string]any) types.CandidateJob {
	job := types.CandidateJob{
		Title:       getString(m, "title"),
		Description: getString(m, "description"),
	}

	if org, ok := m["hiringOrganization"].(map[string]any); ok {
		job.Company = getString(org, "name")
		job.LogoURL = logoURL(org["logo"])
	}

	job.Location = jobLocation(m["jobLocation"])
	job.SalaryRange = baseSalary(m["baseSalary"])

	return job
}

// jobLocation joins the non-empty locality and region parts of a JobPosting
// location with ", ". Accepts a single place or an array of places (first
// one wins).
func jobLocation(v any) string {
	place, ok := v.(map[string]any)
	if !ok {
		if arr, isArr := v.([]any); isArr && len(arr) > 0 {
			place, ok = arr[0].(map[string]any)
		}
		if !ok {
			return ""
		}
	}

	addr, ok := place["address"].(map[string]any)
	if !ok {
		return ""
	}

	var parts []string
	for _, key := range []string{"addressLocality", "addressRegion"} {
		if part := getString(addr, key); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

func logoURL(v any) string {
	switch logo := v.(type) {
	case string:
		return logo
	case map[string]any:
		return getString(logo, "url")
	default:
		return ""
	}
}

func baseSalary(v any) string {
	salary, ok := v.(map[string]any)
	if !ok {
		return ""
	}

	switch value := salary["value"].(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case map[string]any:
		minV := numberOrString(value["minValue"])
		maxV := numberOrString(value["maxValue"])
		if minV != "" && maxV != "" {
			return fmt.Sprintf("%s - %s", minV, maxV)
		}
		return firstNonEmpty(numberOrString(value["value"]), firstNonEmpty(minV, maxV))
	default:
		return ""
	}
}

func numberOrString(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return ""
	}
}

func getString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

// extractOpenGraphData pulls og:* meta tags: title, description, image (used
// as logo), and site_name (often the company).
func extractOpenGraphData(doc *goquery.Document) types.CandidateJob {
	return types.CandidateJob{
		Title:       metaContent(doc, `meta[property="og:title"]`),
		Description: metaContent(doc, `meta[property="og:description"]`),
		LogoURL:     metaContent(doc, `meta[property="og:image"]`),
		Company:     metaContent(doc, `meta[property="og:site_name"]`),
	}
}

// extractBasicMetadata pulls the page <title> and the plain meta description.
func extractBasicMetadata(doc *goquery.Document) types.CandidateJob {
	return types.CandidateJob{
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		Description: metaContent(doc, `meta[name="description"]`),
	}
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}
