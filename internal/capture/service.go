package capture

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-tracker/internal/db"
	"github.com/jonathan/job-tracker/internal/dedup"
	"github.com/jonathan/job-tracker/internal/email"
	"github.com/jonathan/job-tracker/internal/types"
)

// Placeholders applied when a capture path leaves a required field empty.
const (
	PlaceholderTitle    = "Unknown Position"
	PlaceholderCompany  = "Unknown Company"
	PlaceholderLocation = "Remote"
)

// Capture sources recorded on created jobs.
const (
	SourceExtensionLabel = "Browser Extension"
	SourceExtensionValue = "browser-extension"
	SourceEmailLabel     = "Email Alert"
	SourceEmailValue     = "email"
)

// DefaultStatus is the status every captured job starts in. The row must
// exist in the statuses table.
const DefaultStatus = "draft"

// DefaultDueDays is the follow-up window applied to URL captures.
const DefaultDueDays = 7

// Store is the persistence surface the capture pipeline needs.
type Store interface {
	FindOrCreateEntity(ctx context.Context, kind, label string, userID uuid.UUID) (*db.Entity, error)
	FindOrCreateSource(ctx context.Context, label, value string) (*db.Source, error)
	GetStatusByValue(ctx context.Context, value string) (*db.Status, error)
	CreateJob(ctx context.Context, job db.NewJob) (*db.Job, error)
	GetJobSummary(ctx context.Context, id uuid.UUID) (*db.JobSummary, error)
	ListRecentJobsByCompany(ctx context.Context, userID, companyID uuid.UUID, since time.Time, limit int) ([]dedup.JobView, error)
}

// Scraper extracts a candidate job from a URL. Implementations never fail:
// they degrade to a candidate holding only the URL.
type Scraper interface {
	ScrapeJobFromURL(ctx context.Context, url string) types.CandidateJob
}

// Service runs the capture pipeline for all three entry points.
type Service struct {
	store    Store
	scraper  Scraper
	resolver *dedup.Resolver
}

// NewService builds a capture service. cfg controls the duplicate detection
// window; zero values take defaults.
func NewService(store Store, scraper Scraper, cfg dedup.ResolverConfig) *Service {
	return &Service{
		store:    store,
		scraper:  scraper,
		resolver: dedup.NewResolver(store, cfg),
	}
}

// CaptureURLInput is the input for URL-based capture. Scraped, when set,
// skips the server-side scrape (the extension already extracted the page).
type CaptureURLInput struct {
	URL     string
	Scraped *types.CandidateJob
}

// StructuredInput is the input for extension captures that send fields
// directly.
type StructuredInput struct {
	Title       string
	Company     string
	Location    string
	URL         string
	Description string
	LogoURL     string
	SalaryRange string
	JobType     string
	Source      string
}

// EmailInput is the input for email ingestion.
type EmailInput struct {
	Body    string
	Subject string
	From    string
}

// Result reports the outcome of a capture: either a created job or the
// duplicate it collided with. Parsed echoes the extracted candidate on the
// email path.
type Result struct {
	Duplicate     bool
	ExistingJobID uuid.UUID
	MatchReason   dedup.MatchReason
	Job           *db.JobSummary
	Parsed        *types.CandidateJob
}

// CaptureFromURL captures a job from a URL, scraping the page unless the
// caller already supplied scraped fields. Jobs created this way get a
// follow-up due date one week out.
func (s *Service) CaptureFromURL(ctx context.Context, userID uuid.UUID, input CaptureURLInput) (*Result, error) {
	url := strings.TrimSpace(input.URL)
	if url == "" {
		return nil, &ValidationError{Field: "url", Message: "url is required"}
	}

	var candidate types.CandidateJob
	if input.Scraped != nil {
		candidate = *input.Scraped
	} else {
		candidate = s.scraper.ScrapeJobFromURL(ctx, url)
	}
	if candidate.URL == "" {
		candidate.URL = url
	}

	if strings.TrimSpace(candidate.Title) == "" {
		candidate.Title = PlaceholderTitle
	}
	if strings.TrimSpace(candidate.Company) == "" {
		candidate.Company = PlaceholderCompany
	}
	if strings.TrimSpace(candidate.Location) == "" {
		candidate.Location = PlaceholderLocation
	}
	if strings.TrimSpace(candidate.Description) == "" {
		candidate.Description = fmt.Sprintf("Job captured from: %s", url)
	}

	dueDate := time.Now().AddDate(0, 0, DefaultDueDays)
	return s.run(ctx, userID, candidate, pipelineOpts{
		sourceLabel: SourceExtensionLabel,
		sourceValue: SourceExtensionValue,
		dueDate:     &dueDate,
	})
}

// CaptureStructured captures a job from fields the extension extracted
// client-side. Title and company are required.
func (s *Service) CaptureStructured(ctx context.Context, userID uuid.UUID, input StructuredInput) (*Result, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, &ValidationError{Field: "jobTitle", Message: "job title is required"}
	}
	if strings.TrimSpace(input.Company) == "" {
		return nil, &ValidationError{Field: "company", Message: "company is required"}
	}

	sourceValue := strings.TrimSpace(input.Source)
	sourceLabel := SourceExtensionLabel
	if sourceValue == "" {
		sourceValue = SourceExtensionValue
	}

	candidate := types.CandidateJob{
		Title:       input.Title,
		Company:     input.Company,
		Location:    input.Location,
		URL:         input.URL,
		Description: input.Description,
		LogoURL:     input.LogoURL,
		SalaryRange: input.SalaryRange,
	}

	return s.run(ctx, userID, candidate, pipelineOpts{
		sourceLabel: sourceLabel,
		sourceValue: sourceValue,
		jobType:     input.JobType,
	})
}

// CaptureFromEmail parses a job alert email and captures the job it
// describes. The parsed candidate is echoed in the result, including on the
// validation failure when no title could be extracted.
func (s *Service) CaptureFromEmail(ctx context.Context, userID uuid.UUID, input EmailInput) (*Result, error) {
	if strings.TrimSpace(input.Body) == "" {
		return nil, &ValidationError{Field: "body", Message: "email body is required"}
	}

	candidate := email.ParseJobEmailAuto(input.Body, input.Subject, input.From)

	if strings.TrimSpace(candidate.Title) == "" {
		return &Result{Parsed: &candidate}, &ValidationError{
			Field:   "title",
			Message: "could not extract a job title from the email",
		}
	}
	if strings.TrimSpace(candidate.Company) == "" {
		candidate.Company = PlaceholderCompany
	}

	result, err := s.run(ctx, userID, candidate, pipelineOpts{
		sourceLabel: SourceEmailLabel,
		sourceValue: SourceEmailValue,
	})
	if err != nil {
		return nil, err
	}
	result.Parsed = &candidate
	return result, nil
}

type pipelineOpts struct {
	sourceLabel string
	sourceValue string
	jobType     string
	dueDate     *time.Time
}

// run is the shared tail of the pipeline: resolve entities, check for a
// duplicate in the company's recent jobs, commit.
func (s *Service) run(ctx context.Context, userID uuid.UUID, candidate types.CandidateJob, opts pipelineOpts) (*Result, error) {
	var company, title, location *db.Entity

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		company, err = s.store.FindOrCreateEntity(gctx, db.EntityKindCompany, candidate.Company, userID)
		return err
	})
	g.Go(func() error {
		var err error
		title, err = s.store.FindOrCreateEntity(gctx, db.EntityKindTitle, candidate.Title, userID)
		return err
	})
	if strings.TrimSpace(candidate.Location) != "" {
		g.Go(func() error {
			var err error
			location, err = s.store.FindOrCreateEntity(gctx, db.EntityKindLocation, candidate.Location, userID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to resolve entities: %w", err)
	}

	// A placeholder title stands in for a failed extraction; letting it
	// participate in title similarity would merge every failed scrape into
	// one record. URL matching still applies.
	matchTitle := dedup.NormalizeJobTitle(candidate.Title)
	if candidate.Title == PlaceholderTitle {
		matchTitle = ""
	}

	match, err := s.resolver.FindDuplicate(ctx, userID, company.ID,
		matchTitle, candidate.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicates: %w", err)
	}
	if match != nil {
		return &Result{
			Duplicate:     true,
			ExistingJobID: match.JobID,
			MatchReason:   match.Reason,
		}, nil
	}

	status, err := s.store.GetStatusByValue(ctx, DefaultStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to look up default status: %w", err)
	}
	if status == nil {
		return nil, &ConfigurationError{Message: fmt.Sprintf("default status %q is not configured", DefaultStatus)}
	}

	source, err := s.store.FindOrCreateSource(ctx, opts.sourceLabel, opts.sourceValue)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source: %w", err)
	}

	jobType := strings.TrimSpace(opts.jobType)
	if jobType == "" {
		jobType = db.JobTypeFullTime
	}

	newJob := db.NewJob{
		UserID:      userID,
		CompanyID:   company.ID,
		TitleID:     title.ID,
		StatusID:    status.ID,
		SourceID:    &source.ID,
		URL:         candidate.URL,
		Description: candidate.Description,
		LogoURL:     candidate.LogoURL,
		SalaryRange: candidate.SalaryRange,
		JobType:     jobType,
		DueDate:     opts.dueDate,
	}
	if location != nil {
		newJob.LocationID = &location.ID
	}

	job, err := s.store.CreateJob(ctx, newJob)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	summary, err := s.store.GetJobSummary(ctx, job.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job summary: %w", err)
	}

	return &Result{Job: summary}, nil
}
