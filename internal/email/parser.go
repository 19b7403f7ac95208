// Package email extracts candidate job records from raw email text. Field
// extraction runs ordered regex cascades: patterns are evaluated
// top-to-bottom and the first hit wins, so adding or reordering a pattern is
// a data change, not a new branch.
package email

import (
	"regexp"
	"strings"

	"github.com/jonathan/job-tracker/internal/types"
)

// MaxDescriptionLength caps the description stored for email-ingested jobs.
const MaxDescriptionLength = 1000

// MaxCompanyNameLength bounds company-name captures so greedy patterns do not
// swallow whole sentences.
const MaxCompanyNameLength = 40

var (
	hrefRe    = regexp.MustCompile(`href=["']([^"']+)["']`)
	bareURLRe = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)

	brTagRe        = regexp.MustCompile(`(?i)<br\s*/?>`)
	blockCloseRe   = regexp.MustCompile(`(?i)</p>|</div>|</h\d>`)
	anyTagRe       = regexp.MustCompile(`<[^>]*>`)
	lineSpacesRe   = regexp.MustCompile(`\s+`)
	senderDomainRe = regexp.MustCompile(`@([^.]+)\.`)
)

// fieldPattern pairs a regular expression with a transform over its match
// groups. transform receives the full submatch slice and returns the
// extracted value, or "" to fall through to the next pattern.
type fieldPattern struct {
	re        *regexp.Regexp
	transform func(groups []string) string
}

func firstGroup(groups []string) string {
	if len(groups) > 1 && groups[1] != "" {
		return collapseSpaces(groups[1])
	}
	return ""
}

func firstGroupOrWhole(groups []string) string {
	if len(groups) > 1 && strings.TrimSpace(groups[1]) != "" {
		return strings.TrimSpace(groups[1])
	}
	return strings.TrimSpace(groups[0])
}

func collapseSpaces(s string) string {
	return lineSpacesRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

var titlePatterns = []fieldPattern{
	{regexp.MustCompile(`(?i)(?:position|role|job title|title|opening):\s*([^` + "\n" + `]+?)(?:` + "\n" + `|$)`), firstGroup},
	{regexp.MustCompile(`(?i)(?:we're hiring|we are hiring|now hiring)(?:\s+a|\s+an)?\s+([A-Z][^` + "\n" + `]+?)(?:\s+at\s+|$)`), firstGroup},
	{regexp.MustCompile(`(?i)(?:looking for|seeking)(?:\s+a|\s+an)?\s+([^` + "\n" + `]+?)(?:` + "\n" + `|$)`), firstGroup},
}

var companyPatterns = []fieldPattern{
	{regexp.MustCompile(`(?i)(?:company|organization|employer):\s*([^` + "\n" + `]+?)(?:` + "\n" + `|$)`), firstGroup},
	// Case-sensitive on purpose: the capitalized word is the signal.
	{regexp.MustCompile(`(?:at|@)\s+([A-Z][a-zA-Z\s&]+?)(?:\s+is\s+hiring|\s+hiring|\s+seeks|\s+looking)`), firstGroup},
}

var locationPatterns = []fieldPattern{
	{regexp.MustCompile(`(?i)(?:location|where|city|based in):\s*([^` + "\n" + `]+)`), firstGroupOrWhole},
	{regexp.MustCompile(`(?i)remote|hybrid|on-site|onsite`), firstGroupOrWhole},
}

var salaryPatterns = []fieldPattern{
	{regexp.MustCompile(`(?i)(?:salary|compensation|pay):\s*([^` + "\n" + `]+)`), firstGroupOrWhole},
	{regexp.MustCompile(`(?i)\$[\d,]+\s*[-–—to]+\s*\$[\d,]+`), firstGroupOrWhole},
	{regexp.MustCompile(`(?i)[\d,]+k?\s*[-–—to]+\s*[\d,]+k`), firstGroupOrWhole},
}

func applyPatterns(patterns []fieldPattern, text string) string {
	for _, p := range patterns {
		if groups := p.re.FindStringSubmatch(text); groups != nil {
			if v := p.transform(groups); v != "" {
				return v
			}
		}
	}
	return ""
}

// ExtractURLs collects URLs from href attributes and from bare http(s)
// occurrences in text, deduplicated in first-seen order.
func ExtractURLs(text string) []string {
	var urls []string
	seen := make(map[string]struct{})

	add := func(u string) {
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}

	for _, m := range hrefRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, u := range bareURLRe.FindAllString(text, -1) {
		add(u)
	}

	return urls
}

// extractCompany runs the company cascade and, when no explicit pattern
// matches, derives a name from the sender's email domain: the label before
// the first dot, capitalized.
func extractCompany(text, fromAddress string) string {
	if company := applyPatterns(companyPatterns, text); company != "" {
		return company
	}

	if fromAddress != "" {
		if m := senderDomainRe.FindStringSubmatch(fromAddress); m != nil && m[1] != "" {
			return strings.ToUpper(m[1][:1]) + m[1][1:]
		}
	}

	return ""
}

// stripHTML removes HTML tags while converting block-level closing tags and
// <br> into newlines, so line-anchored patterns keep working on HTML email
// bodies.
func stripHTML(text string) string {
	text = brTagRe.ReplaceAllString(text, "\n")
	text = blockCloseRe.ReplaceAllString(text, "\n")
	return anyTagRe.ReplaceAllString(text, "")
}

// normalizeLines collapses whitespace within each line, drops blank lines,
// and preserves line breaks.
func normalizeLines(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = collapseSpaces(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// truncateRunes caps s at n runes. The description keeps the original body,
// not the stripped text.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// ParseJobFromEmail derives a candidate job record from raw email text using
// the generic pattern cascades. Subject and body are concatenated (subject
// first) before extraction so subject-only signals are still found; if no
// title pattern matches, the raw subject line becomes the title.
func ParseJobFromEmail(body, subject, fromAddress string) types.CandidateJob {
	fullText := body
	if subject != "" {
		fullText = subject + "\n\n" + body
	}

	// Collect URLs before stripping HTML so href attributes are still visible.
	var jobURL string
	if urls := ExtractURLs(fullText); len(urls) > 0 {
		jobURL = urls[0]
	}

	plain := normalizeLines(stripHTML(fullText))

	title := applyPatterns(titlePatterns, plain)
	if title == "" {
		title = subject
	}

	return types.CandidateJob{
		Title:       title,
		Company:     extractCompany(plain, fromAddress),
		Location:    applyPatterns(locationPatterns, plain),
		URL:         jobURL,
		Description: truncateRunes(body, MaxDescriptionLength),
		SalaryRange: applyPatterns(salaryPatterns, plain),
	}
}
