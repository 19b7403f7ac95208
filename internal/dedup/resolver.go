package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MatchReason identifies which signal triggered a duplicate decision.
type MatchReason string

const (
	// MatchReasonURL means the normalized job URLs were identical.
	MatchReasonURL MatchReason = "url"
	// MatchReasonTitle means the normalized job titles were similar enough.
	MatchReasonTitle MatchReason = "title"
)

// Match is the outcome of a successful duplicate decision. Absence of a
// match means "proceed to create".
type Match struct {
	JobID  uuid.UUID
	Reason MatchReason
}

// JobKey is the comparison projection of a job record: the fields the
// duplicate predicate looks at and nothing else.
type JobKey struct {
	CompanyID  uuid.UUID
	TitleValue string // already-normalized title value
	JobURL     string
}

// JobView is a read projection of a persisted job record supplied by the
// record store. It is never mutated by the dedup core.
type JobView struct {
	ID         uuid.UUID
	CompanyID  uuid.UUID
	TitleValue string
	JobURL     string
	CreatedAt  time.Time
}

// Key returns the comparison projection of the view.
func (v JobView) Key() JobKey {
	return JobKey{CompanyID: v.CompanyID, TitleValue: v.TitleValue, JobURL: v.JobURL}
}

// ArePotentialDuplicates applies the duplicate-match policy to a pair of
// jobs. Company equality is required first: two postings at different
// companies are never duplicates regardless of title or URL. The company
// check is redundant with the resolver's query scope but re-checked here so
// the predicate stays safe to reuse outside that query.
func ArePotentialDuplicates(a, b JobKey, titleThreshold float64) (MatchReason, bool) {
	if a.CompanyID != b.CompanyID {
		return "", false
	}

	if a.JobURL != "" && b.JobURL != "" && AreURLsSimilar(a.JobURL, b.JobURL) {
		return MatchReasonURL, true
	}

	if AreJobTitlesSimilar(a.TitleValue, b.TitleValue, titleThreshold) {
		return MatchReasonTitle, true
	}

	return "", false
}

// RecordStore is the read side the resolver needs from the external record
// store.
type RecordStore interface {
	// ListRecentJobsByCompany returns the acting user's jobs at a company
	// created at or after since, most recent first, capped at limit.
	ListRecentJobsByCompany(ctx context.Context, userID, companyID uuid.UUID, since time.Time, limit int) ([]JobView, error)
}

// ResolverConfig bounds the candidate window the resolver examines. The
// bounds keep resolver cost independent of total history size: a duplicate
// older than the window, or beyond the candidate cap, is accepted as a
// false negative by policy.
type ResolverConfig struct {
	// Window is how far back to look for duplicate candidates.
	Window time.Duration
	// MaxCandidates caps how many recent records are compared.
	MaxCandidates int
	// TitleThreshold is the similarity ratio for title matches.
	TitleThreshold float64
}

// DefaultResolverConfig returns the standard candidate window: 30 days,
// 50 records, 0.85 title similarity.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		Window:         30 * 24 * time.Hour,
		MaxCandidates:  50,
		TitleThreshold: DefaultTitleSimilarityThreshold,
	}
}

func (c *ResolverConfig) normalize() {
	if c.Window <= 0 {
		c.Window = 30 * 24 * time.Hour
	}
	if c.MaxCandidates <= 0 {
		c.MaxCandidates = 50
	}
	if c.TitleThreshold <= 0 || c.TitleThreshold > 1 {
		c.TitleThreshold = DefaultTitleSimilarityThreshold
	}
}

// Resolver retrieves bounded recent records for a company scope and applies
// the duplicate-match policy against an incoming candidate.
type Resolver struct {
	store RecordStore
	cfg   ResolverConfig
}

// NewResolver creates a resolver over the given record store. Zero config
// fields fall back to the defaults.
func NewResolver(store RecordStore, cfg ResolverConfig) *Resolver {
	cfg.normalize()
	return &Resolver{store: store, cfg: cfg}
}

// FindDuplicate checks an incoming candidate against the user's recent jobs
// at the given company. The first qualifying match in recency order wins;
// ambiguity among multiple plausible duplicates is never surfaced. A nil
// match with nil error means "proceed to create".
func (r *Resolver) FindDuplicate(ctx context.Context, userID, companyID uuid.UUID, normalizedTitle, jobURL string) (*Match, error) {
	since := time.Now().Add(-r.cfg.Window)

	existing, err := r.store.ListRecentJobsByCompany(ctx, userID, companyID, since, r.cfg.MaxCandidates)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent jobs: %w", err)
	}

	candidate := JobKey{CompanyID: companyID, TitleValue: normalizedTitle, JobURL: jobURL}

	for _, job := range existing {
		if reason, ok := ArePotentialDuplicates(candidate, job.Key(), r.cfg.TitleThreshold); ok {
			return &Match{JobID: job.ID, Reason: reason}, nil
		}
	}

	return nil, nil
}
