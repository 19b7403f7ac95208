// Package dedup provides normalization, similarity scoring, and the duplicate
// decision policy for captured job postings.
package dedup

import (
	"net/url"
	"regexp"
	"strings"
)

// trackingParams are query parameters that never distinguish one posting from
// another and are stripped before URL comparison.
var trackingParams = []string{
	"utm_source", "utm_medium", "utm_campaign", "utm_content", "utm_term",
	"ref", "source",
}

var (
	whitespaceRe          = regexp.MustCompile(`\s+`)
	trailingParentheticRe = regexp.MustCompile(`\s+\(.*?\)$`)
)

// NormalizeURL canonicalizes a URL for comparison. It strips tracking query
// parameters, the scheme, a leading "www." host label, and all trailing
// slashes, then lowercases the result. Input that does not parse as an
// absolute URL falls back to lowercase(trim(input)). The function is pure and
// idempotent and never fails; empty input yields "".
func NormalizeURL(raw string) string {
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return strings.ToLower(strings.TrimSpace(raw))
	}

	query := u.Query()
	for _, param := range trackingParams {
		query.Del(param)
	}

	normalized := strings.TrimPrefix(u.Hostname(), "www.") + u.EscapedPath()
	normalized = strings.TrimRight(normalized, "/")

	if encoded := query.Encode(); encoded != "" {
		normalized += "?" + encoded
	}

	return strings.ToLower(normalized)
}

// NormalizeJobTitle canonicalizes a job title for comparison: lowercase,
// trimmed, inner whitespace collapsed, and a trailing parenthetical clause
// removed ("Software Engineer (Remote)" -> "software engineer"). Only a
// parenthetical at the end of the string is stripped.
func NormalizeJobTitle(title string) string {
	if title == "" {
		return ""
	}

	normalized := strings.TrimSpace(strings.ToLower(title))
	normalized = whitespaceRe.ReplaceAllString(normalized, " ")
	normalized = trailingParentheticRe.ReplaceAllString(normalized, "")

	return strings.TrimSpace(normalized)
}

// NormalizeText canonicalizes free text for equality checks: lowercase,
// trimmed, whitespace runs collapsed to a single space. Weaker than
// NormalizeJobTitle (no parenthetical stripping).
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(strings.ToLower(text)), " ")
}
