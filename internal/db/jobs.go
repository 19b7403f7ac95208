package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-tracker/internal/dedup"
)

// CreateJob inserts a job record and returns the stored row
func (db *DB) CreateJob(ctx context.Context, job NewJob) (*Job, error) {
	var j Job
	err := db.pool.QueryRow(ctx,
		`INSERT INTO jobs (user_id, company_id, title_id, location_id, status_id, source_id,
		                   url, description, logo_url, salary_range, job_type, due_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, user_id, company_id, title_id, location_id, status_id, source_id,
		           url, description, logo_url, salary_range, job_type, due_date, created_at, updated_at`,
		job.UserID, job.CompanyID, job.TitleID, job.LocationID, job.StatusID, job.SourceID,
		job.URL, job.Description, job.LogoURL, job.SalaryRange, job.JobType, job.DueDate,
	).Scan(&j.ID, &j.UserID, &j.CompanyID, &j.TitleID, &j.LocationID, &j.StatusID, &j.SourceID,
		&j.URL, &j.Description, &j.LogoURL, &j.SalaryRange, &j.JobType, &j.DueDate, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return &j, nil
}

// GetJobSummary retrieves a job with its entity labels resolved
func (db *DB) GetJobSummary(ctx context.Context, id uuid.UUID) (*JobSummary, error) {
	var s JobSummary
	err := db.pool.QueryRow(ctx,
		`SELECT j.id, c.label, t.label, COALESCE(l.label, ''), st.value, COALESCE(src.label, ''),
		        COALESCE(j.url, ''), COALESCE(j.salary_range, ''), j.job_type, j.due_date, j.created_at
		 FROM jobs j
		 JOIN entities c ON c.id = j.company_id
		 JOIN entities t ON t.id = j.title_id
		 LEFT JOIN entities l ON l.id = j.location_id
		 JOIN statuses st ON st.id = j.status_id
		 LEFT JOIN sources src ON src.id = j.source_id
		 WHERE j.id = $1`,
		id,
	).Scan(&s.ID, &s.Company, &s.Title, &s.Location, &s.Status, &s.Source,
		&s.URL, &s.SalaryRange, &s.JobType, &s.DueDate, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job summary: %w", err)
	}
	return &s, nil
}

// ListRecentJobsByCompany returns the user's jobs for a company created after
// since, most recent first, capped at limit. The title value comes from the
// entities table so duplicate checks compare normalized titles.
func (db *DB) ListRecentJobsByCompany(ctx context.Context, userID, companyID uuid.UUID, since time.Time, limit int) ([]dedup.JobView, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT j.id, j.company_id, t.value, COALESCE(j.url, ''), j.created_at
		 FROM jobs j
		 JOIN entities t ON t.id = j.title_id
		 WHERE j.user_id = $1 AND j.company_id = $2 AND j.created_at >= $3
		 ORDER BY j.created_at DESC
		 LIMIT $4`,
		userID, companyID, since, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent jobs: %w", err)
	}
	defer rows.Close()

	var jobs []dedup.JobView
	for rows.Next() {
		var v dedup.JobView
		if err := rows.Scan(&v.ID, &v.CompanyID, &v.TitleValue, &v.JobURL, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, v)
	}
	return jobs, nil
}

// ListJobSummaries retrieves recent jobs for a user with labels resolved
func (db *DB) ListJobSummaries(ctx context.Context, userID uuid.UUID, limit int) ([]JobSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT j.id, c.label, t.label, COALESCE(l.label, ''), st.value, COALESCE(src.label, ''),
		        COALESCE(j.url, ''), COALESCE(j.salary_range, ''), j.job_type, j.due_date, j.created_at
		 FROM jobs j
		 JOIN entities c ON c.id = j.company_id
		 JOIN entities t ON t.id = j.title_id
		 LEFT JOIN entities l ON l.id = j.location_id
		 JOIN statuses st ON st.id = j.status_id
		 LEFT JOIN sources src ON src.id = j.source_id
		 WHERE j.user_id = $1
		 ORDER BY j.created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var summaries []JobSummary
	for rows.Next() {
		var s JobSummary
		if err := rows.Scan(&s.ID, &s.Company, &s.Title, &s.Location, &s.Status, &s.Source,
			&s.URL, &s.SalaryRange, &s.JobType, &s.DueDate, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}
