package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/jonathan/job-tracker/internal/capture"
	"github.com/jonathan/job-tracker/internal/schemas"
	"github.com/jonathan/job-tracker/internal/server/middleware"
)

// maxImportBody caps bulk import payloads at 5 MB.
const maxImportBody = 5 << 20

// ImportRequest is a bulk job import payload.
type ImportRequest struct {
	Jobs []ExtensionCaptureRequest `json:"jobs"`
}

// ImportRowResult reports the outcome of a single imported row.
type ImportRowResult struct {
	Index         int    `json:"index"`
	Status        string `json:"status"` // created | duplicate | failed
	JobID         string `json:"jobId,omitempty"`
	ExistingJobID string `json:"existingJobId,omitempty"`
	Error         string `json:"error,omitempty"`
}

// handleImport bulk-imports jobs. The payload is validated against the job
// import schema up front; each valid row then runs the same dedupe/create
// flow as a single capture, and a failing row does not abort the rest.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBody))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	if err := schemas.ValidateJobImport(string(body)); err != nil {
		var verr *schemas.ValidationError
		if errors.As(err, &verr) {
			s.jsonResponse(w, http.StatusBadRequest, map[string]any{
				"error":   "import payload failed validation",
				"details": importErrorDetails(verr),
			})
			return
		}
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var req ImportRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var created, duplicates, failed int
	results := make([]ImportRowResult, 0, len(req.Jobs))

	for i, row := range req.Jobs {
		result, err := s.capture.CaptureStructured(r.Context(), userID, capture.StructuredInput{
			Title:       row.JobTitle,
			Company:     row.Company,
			Location:    row.Location,
			URL:         row.URL,
			Description: row.Description,
			LogoURL:     row.LogoURL,
			SalaryRange: row.SalaryRange,
			JobType:     row.JobType,
			Source:      row.Source,
		})
		switch {
		case err != nil:
			failed++
			results = append(results, ImportRowResult{Index: i, Status: "failed", Error: err.Error()})
		case result.Duplicate:
			duplicates++
			results = append(results, ImportRowResult{
				Index:         i,
				Status:        "duplicate",
				ExistingJobID: result.ExistingJobID.String(),
			})
		default:
			created++
			results = append(results, ImportRowResult{
				Index:  i,
				Status: "created",
				JobID:  result.Job.ID.String(),
			})
		}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"total":      len(req.Jobs),
		"created":    created,
		"duplicates": duplicates,
		"failed":     failed,
		"results":    results,
	})
}

func importErrorDetails(verr *schemas.ValidationError) []map[string]string {
	details := make([]map[string]string, 0, len(verr.Errors))
	for _, fe := range verr.Errors {
		details = append(details, map[string]string{
			"field":   fe.Field,
			"message": fe.Message,
		})
	}
	return details
}
