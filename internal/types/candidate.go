// Package types provides shared type definitions for the job tracker system.
package types

// CandidateJob is the ephemeral job record produced by an extractor before
// duplicate resolution. It is never persisted as-is: once a capture decision
// is reached it either seeds a new job record or is discarded in favor of the
// existing record it matched.
type CandidateJob struct {
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	LogoURL     string `json:"logoUrl,omitempty"`
	SalaryRange string `json:"salaryRange,omitempty"`
}

// IsEmpty reports whether extraction produced no usable fields beyond the URL.
func (c CandidateJob) IsEmpty() bool {
	return c.Title == "" && c.Company == "" && c.Location == "" &&
		c.Description == "" && c.LogoURL == "" && c.SalaryRange == ""
}
