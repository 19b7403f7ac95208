package email

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/job-tracker/internal/types"
)

var (
	linkedInTitleRe    = regexp.MustCompile(`(?i)(?:Job title|Position):\s*([^` + "\n" + `]+)`)
	linkedInCompanyRe  = regexp.MustCompile(`(?i)(?:Company|Employer):\s*([^` + "\n" + `]+)`)
	linkedInLocationRe = regexp.MustCompile(`(?i)Location:\s*([^` + "\n" + `]+)`)

	indeedTitleRe = regexp.MustCompile(`(?i)(?:Job Alert|New Job):\s*([^` + "\n" + `]+?)(?:` + "\n" + `|$)`)
	// Bounded capture so a greedy match cannot swallow a whole sentence.
	indeedCompanyRe = regexp.MustCompile(fmt.Sprintf(`(?im)^([A-Z][a-zA-Z\s&]{1,%d}?)\s+is hiring`, MaxCompanyNameLength))
)

// ParseLinkedInJobAlert parses the labelled-field template LinkedIn job
// alert emails use, and selects the linkedin.com URL from the body.
func ParseLinkedInJobAlert(body string) types.CandidateJob {
	var parsed types.CandidateJob

	if m := linkedInTitleRe.FindStringSubmatch(body); m != nil {
		parsed.Title = strings.TrimSpace(m[1])
	}
	if m := linkedInCompanyRe.FindStringSubmatch(body); m != nil {
		parsed.Company = strings.TrimSpace(m[1])
	}
	if m := linkedInLocationRe.FindStringSubmatch(body); m != nil {
		parsed.Location = strings.TrimSpace(m[1])
	}

	parsed.URL = firstURLContaining(body, "linkedin.com")

	return parsed
}

// ParseIndeedJobAlert parses the Indeed job alert template and selects the
// indeed.com URL from the body.
func ParseIndeedJobAlert(body string) types.CandidateJob {
	var parsed types.CandidateJob

	if m := indeedTitleRe.FindStringSubmatch(body); m != nil {
		parsed.Title = strings.TrimSpace(m[1])
	}
	if m := indeedCompanyRe.FindStringSubmatch(body); m != nil {
		parsed.Company = collapseSpaces(m[1])
	}

	parsed.URL = firstURLContaining(body, "indeed.com")

	return parsed
}

func firstURLContaining(body, domain string) string {
	for _, u := range ExtractURLs(body) {
		if strings.Contains(u, domain) {
			return u
		}
	}
	return ""
}

// providerParser binds a sender/body predicate to a template-specific
// parser. The table is ordered; the first predicate that fires wins, and the
// generic parser is the implicit default. Adding a provider is a data
// change.
type providerParser struct {
	domain string
	parse  func(body string) types.CandidateJob
}

var providerParsers = []providerParser{
	{domain: "linkedin.com", parse: ParseLinkedInJobAlert},
	{domain: "indeed.com", parse: ParseIndeedJobAlert},
}

// ParseJobEmailAuto detects the source of a job email and parses it with the
// matching template parser, falling back to the generic parser. Detection is
// substring containment on the sender address or body, not strict domain
// parsing.
func ParseJobEmailAuto(body, subject, fromAddress string) types.CandidateJob {
	for _, p := range providerParsers {
		if strings.Contains(fromAddress, p.domain) || strings.Contains(body, p.domain) {
			return p.parse(body)
		}
	}
	return ParseJobFromEmail(body, subject, fromAddress)
}
