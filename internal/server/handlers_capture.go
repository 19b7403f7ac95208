package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jonathan/job-tracker/internal/capture"
	"github.com/jonathan/job-tracker/internal/server/middleware"
	"github.com/jonathan/job-tracker/internal/types"
)

// CaptureURLRequest is the body for URL-based capture. ScrapedData lets the
// extension send fields it already extracted, skipping the server-side
// scrape.
type CaptureURLRequest struct {
	URL         string              `json:"url" validate:"required,min=1"`
	ScrapedData *types.CandidateJob `json:"scrapedData,omitempty"`
}

// ExtensionCaptureRequest is the structured payload from the browser
// extension.
type ExtensionCaptureRequest struct {
	JobTitle    string `json:"jobTitle" validate:"required,min=1"`
	Company     string `json:"company" validate:"required,min=1"`
	Location    string `json:"location,omitempty"`
	URL         string `json:"jobUrl,omitempty"`
	Description string `json:"description,omitempty"`
	LogoURL     string `json:"logoUrl,omitempty"`
	SalaryRange string `json:"salaryRange,omitempty"`
	JobType     string `json:"jobType,omitempty"`
	Source      string `json:"source,omitempty"`
}

// EmailIngestRequest is the body for email ingestion.
type EmailIngestRequest struct {
	Body    string `json:"emailBody" validate:"required,min=1"`
	Subject string `json:"emailSubject,omitempty"`
	From    string `json:"fromAddress,omitempty"`
}

// handleCaptureURL captures a job from a URL, scraping unless scraped fields
// were provided.
func (s *Server) handleCaptureURL(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CaptureURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	result, err := s.capture.CaptureFromURL(r.Context(), userID, capture.CaptureURLInput{
		URL:     req.URL,
		Scraped: req.ScrapedData,
	})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if result.Duplicate {
		s.jsonResponse(w, http.StatusOK, map[string]any{
			"success":       false,
			"isDuplicate":   true,
			"existingJobId": result.ExistingJobID,
			"matchReason":   result.MatchReason,
			"message":       "This job was already captured",
		})
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Job captured successfully",
		"jobId":   result.Job.ID,
		"job":     result.Job,
	})
}

// handlePreviewScrape scrapes a URL and returns the extracted fields without
// saving anything.
func (s *Server) handlePreviewScrape(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		s.errorResponse(w, http.StatusBadRequest, "url query parameter is required")
		return
	}

	candidate := s.scraper.ScrapeJobFromURL(r.Context(), url)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    candidate,
	})
}

// handleExtensionCapture captures a job from fields the extension extracted.
func (s *Server) handleExtensionCapture(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req ExtensionCaptureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	result, err := s.capture.CaptureStructured(r.Context(), userID, capture.StructuredInput{
		Title:       req.JobTitle,
		Company:     req.Company,
		Location:    req.Location,
		URL:         req.URL,
		Description: req.Description,
		LogoURL:     req.LogoURL,
		SalaryRange: req.SalaryRange,
		JobType:     req.JobType,
		Source:      req.Source,
	})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if result.Duplicate {
		s.jsonResponse(w, http.StatusOK, map[string]any{
			"duplicate":     true,
			"existingJobId": result.ExistingJobID,
			"matchReason":   result.MatchReason,
		})
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"duplicate": false,
		"job":       result.Job,
	})
}

// handleEmailIngest captures a job from a forwarded job alert email. The
// parsed candidate is echoed in every response so callers can inspect what
// was extracted.
func (s *Server) handleEmailIngest(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req EmailIngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	result, err := s.capture.CaptureFromEmail(r.Context(), userID, capture.EmailInput{
		Body:    req.Body,
		Subject: req.Subject,
		From:    req.From,
	})
	if err != nil {
		response := map[string]any{"error": err.Error()}
		if result != nil && result.Parsed != nil {
			response["parsedData"] = result.Parsed
		}
		s.jsonResponse(w, HTTPStatus(err), response)
		return
	}

	if result.Duplicate {
		s.jsonResponse(w, http.StatusOK, map[string]any{
			"success":       false,
			"isDuplicate":   true,
			"existingJobId": result.ExistingJobID,
			"matchReason":   result.MatchReason,
			"parsedData":    result.Parsed,
		})
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"success":    true,
		"jobId":      result.Job.ID,
		"job":        result.Job,
		"parsedData": result.Parsed,
	})
}

// handleListJobs lists the authenticated user's captured jobs.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	jobs, err := s.store.ListJobSummaries(r.Context(), userID, limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"jobs":  jobs,
		"count": len(jobs),
	})
}
