package db

import (
	"time"

	"github.com/google/uuid"
)

// Entity kinds stored in the entities table.
const (
	EntityKindCompany  = "company"
	EntityKindTitle    = "title"
	EntityKindLocation = "location"
)

// Entity is a user-scoped company, job title, or location. Value holds the
// normalized form used for lookups; Label keeps the original casing.
type Entity struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Label     string    `json:"label"`
	Value     string    `json:"value"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Source identifies where a job record came from (browser extension, email).
type Source struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// Status is an application pipeline stage ("draft", "applied", ...).
type Status struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	Value     string    `json:"value"`
	SortOrder int       `json:"sort_order"`
}

// JobTypeFullTime is the default employment type for captured jobs.
const JobTypeFullTime = "FT"

// NewJob holds the fields required to insert a job record.
type NewJob struct {
	UserID      uuid.UUID
	CompanyID   uuid.UUID
	TitleID     uuid.UUID
	LocationID  *uuid.UUID
	StatusID    uuid.UUID
	SourceID    *uuid.UUID
	URL         string
	Description string
	LogoURL     string
	SalaryRange string
	JobType     string
	DueDate     *time.Time
}

// Job is a stored job record.
type Job struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	CompanyID   uuid.UUID  `json:"company_id"`
	TitleID     uuid.UUID  `json:"title_id"`
	LocationID  *uuid.UUID `json:"location_id,omitempty"`
	StatusID    uuid.UUID  `json:"status_id"`
	SourceID    *uuid.UUID `json:"source_id,omitempty"`
	URL         string     `json:"url,omitempty"`
	Description string     `json:"description,omitempty"`
	LogoURL     string     `json:"logo_url,omitempty"`
	SalaryRange string     `json:"salary_range,omitempty"`
	JobType     string     `json:"job_type"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// JobSummary is a denormalized view of a job for API responses, with entity
// labels resolved.
type JobSummary struct {
	ID          uuid.UUID  `json:"id"`
	Company     string     `json:"company"`
	Title       string     `json:"title"`
	Location    string     `json:"location,omitempty"`
	Status      string     `json:"status"`
	Source      string     `json:"source,omitempty"`
	URL         string     `json:"url,omitempty"`
	SalaryRange string     `json:"salary_range,omitempty"`
	JobType     string     `json:"job_type"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// User represents an account
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize to JSON
	PasswordSet  bool      `json:"password_set"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
