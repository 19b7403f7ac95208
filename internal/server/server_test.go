package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-tracker/internal/db"
	"github.com/jonathan/job-tracker/internal/dedup"
	"github.com/jonathan/job-tracker/internal/types"
)

// memStore is an in-memory Store and UserStore for handler tests.
type memStore struct {
	mu       sync.Mutex
	entities map[string]*db.Entity
	sources  map[string]*db.Source
	statuses map[string]*db.Status
	jobs     []*db.Job
	labels   map[uuid.UUID]string
	values   map[uuid.UUID]string
	users    map[uuid.UUID]*db.User
}

func newMemStore() *memStore {
	s := &memStore{
		entities: make(map[string]*db.Entity),
		sources:  make(map[string]*db.Source),
		statuses: make(map[string]*db.Status),
		labels:   make(map[uuid.UUID]string),
		values:   make(map[uuid.UUID]string),
		users:    make(map[uuid.UUID]*db.User),
	}
	s.statuses["draft"] = &db.Status{ID: uuid.New(), Label: "Draft", Value: "draft"}
	return s
}

func (s *memStore) FindOrCreateEntity(_ context.Context, kind, label string, userID uuid.UUID) (*db.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value := dedup.NormalizeText(label)
	key := kind + "|" + value + "|" + userID.String()
	if e, ok := s.entities[key]; ok {
		return e, nil
	}
	e := &db.Entity{ID: uuid.New(), Kind: kind, Label: label, Value: value, CreatedBy: userID}
	s.entities[key] = e
	s.labels[e.ID] = label
	s.values[e.ID] = value
	return e, nil
}

func (s *memStore) FindOrCreateSource(_ context.Context, label, value string) (*db.Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if src, ok := s.sources[value]; ok {
		return src, nil
	}
	src := &db.Source{ID: uuid.New(), Label: label, Value: value}
	s.sources[value] = src
	return src, nil
}

func (s *memStore) GetStatusByValue(_ context.Context, value string) (*db.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statuses[value], nil
}

func (s *memStore) CreateJob(_ context.Context, job db.NewJob) (*db.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j := &db.Job{
		ID: uuid.New(), UserID: job.UserID, CompanyID: job.CompanyID, TitleID: job.TitleID,
		LocationID: job.LocationID, StatusID: job.StatusID, SourceID: job.SourceID,
		URL: job.URL, Description: job.Description, LogoURL: job.LogoURL,
		SalaryRange: job.SalaryRange, DueDate: job.DueDate, CreatedAt: time.Now(),
	}
	s.jobs = append(s.jobs, j)
	return j, nil
}

func (s *memStore) GetJobSummary(_ context.Context, id uuid.UUID) (*db.JobSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.jobs {
		if j.ID == id {
			summary := &db.JobSummary{
				ID: j.ID, Company: s.labels[j.CompanyID], Title: s.labels[j.TitleID],
				Status: "draft", URL: j.URL, DueDate: j.DueDate, CreatedAt: j.CreatedAt,
			}
			if j.LocationID != nil {
				summary.Location = s.labels[*j.LocationID]
			}
			return summary, nil
		}
	}
	return nil, nil
}

func (s *memStore) ListRecentJobsByCompany(_ context.Context, userID, companyID uuid.UUID, since time.Time, limit int) ([]dedup.JobView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var views []dedup.JobView
	for i := len(s.jobs) - 1; i >= 0 && len(views) < limit; i-- {
		j := s.jobs[i]
		if j.UserID != userID || j.CompanyID != companyID || j.CreatedAt.Before(since) {
			continue
		}
		views = append(views, dedup.JobView{
			ID: j.ID, CompanyID: j.CompanyID, TitleValue: s.values[j.TitleID],
			JobURL: j.URL, CreatedAt: j.CreatedAt,
		})
	}
	return views, nil
}

func (s *memStore) ListJobSummaries(_ context.Context, userID uuid.UUID, limit int) ([]db.JobSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []db.JobSummary
	for i := len(s.jobs) - 1; i >= 0 && len(out) < limit; i-- {
		j := s.jobs[i]
		if j.UserID != userID {
			continue
		}
		out = append(out, db.JobSummary{
			ID: j.ID, Company: s.labels[j.CompanyID], Title: s.labels[j.TitleID],
			Status: "draft", URL: j.URL, CreatedAt: j.CreatedAt,
		})
	}
	return out, nil
}

func (s *memStore) CreateUser(_ context.Context, name, email string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &db.User{ID: uuid.New(), Name: name, Email: email, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.users[u.ID] = u
	return u.ID, nil
}

func (s *memStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id], nil
}

func (s *memStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *memStore) CheckEmailExists(_ context.Context, email string) (bool, error) {
	u, _ := s.GetUserByEmail(context.Background(), email)
	return u != nil, nil
}

func (s *memStore) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return &ErrUserNotFound{UserID: userID}
	}
	u.PasswordHash = passwordHash
	u.PasswordSet = true
	return nil
}

type stubScraper struct {
	candidate types.CandidateJob
}

func (f *stubScraper) ScrapeJobFromURL(_ context.Context, url string) types.CandidateJob {
	c := f.candidate
	if c.URL == "" {
		c.URL = url
	}
	return c
}

func newTestServer(t *testing.T, store *memStore, scraper *stubScraper) *Server {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret-for-handlers")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	srv, err := newServer(store, store, scraper, Config{Port: 0})
	require.NoError(t, err)
	return srv
}

func authToken(t *testing.T, srv *Server, userID uuid.UUID) string {
	t.Helper()
	token, err := srv.jwtService.GenerateToken(userID)
	require.NoError(t, err)
	return token
}

func doJSON(srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, newMemStore(), &stubScraper{})

	rec := doJSON(srv, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestCaptureRequiresAuth(t *testing.T) {
	srv := newTestServer(t, newMemStore(), &stubScraper{})

	rec := doJSON(srv, http.MethodPost, "/api/jobs/capture", "", map[string]any{"url": "https://x.example"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCaptureURLCreatesJob(t *testing.T) {
	store := newMemStore()
	srv := newTestServer(t, store, &stubScraper{candidate: types.CandidateJob{
		Title:   "Platform Engineer",
		Company: "Acme Corp",
	}})
	token := authToken(t, srv, uuid.New())

	rec := doJSON(srv, http.MethodPost, "/api/jobs/capture", token, map[string]any{
		"url": "https://acme.example/jobs/1",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["jobId"])
	require.Len(t, store.jobs, 1)
}

func TestCaptureURLReportsDuplicate(t *testing.T) {
	store := newMemStore()
	srv := newTestServer(t, store, &stubScraper{candidate: types.CandidateJob{
		Title:   "Platform Engineer",
		Company: "Acme Corp",
	}})
	userID := uuid.New()
	token := authToken(t, srv, userID)

	rec := doJSON(srv, http.MethodPost, "/api/jobs/capture", token, map[string]any{
		"url": "https://acme.example/jobs/1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(srv, http.MethodPost, "/api/jobs/capture", token, map[string]any{
		"url": "https://acme.example/jobs/1?utm_source=alerts",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, true, body["isDuplicate"])
	assert.NotEmpty(t, body["existingJobId"])
	assert.Len(t, store.jobs, 1)
}

func TestCaptureURLUsesScrapedData(t *testing.T) {
	store := newMemStore()
	srv := newTestServer(t, store, &stubScraper{})
	token := authToken(t, srv, uuid.New())

	rec := doJSON(srv, http.MethodPost, "/api/jobs/capture", token, map[string]any{
		"url": "https://acme.example/jobs/2",
		"scrapedData": map[string]any{
			"title":   "Backend Engineer",
			"company": "Acme Corp",
		},
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	job := decodeBody(t, rec)["job"].(map[string]any)
	assert.Equal(t, "Backend Engineer", job["title"])
}

func TestExtensionCaptureValidation(t *testing.T) {
	srv := newTestServer(t, newMemStore(), &stubScraper{})
	token := authToken(t, srv, uuid.New())

	rec := doJSON(srv, http.MethodPost, "/api/jobs/extension", token, map[string]any{
		"company": "Acme Corp",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "JobTitle")
}

func TestExtensionCaptureCreatesJob(t *testing.T) {
	store := newMemStore()
	srv := newTestServer(t, store, &stubScraper{})
	token := authToken(t, srv, uuid.New())

	rec := doJSON(srv, http.MethodPost, "/api/jobs/extension", token, map[string]any{
		"jobTitle": "Staff Engineer",
		"company":  "Acme Corp",
		"location": "Toronto, ON",
		"jobUrl":   "https://acme.example/jobs/3",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["duplicate"])
	job := body["job"].(map[string]any)
	assert.Equal(t, "Staff Engineer", job["title"])
	assert.Equal(t, "Toronto, ON", job["location"])
}

func TestEmailIngestNoTitleReturns400WithParsedData(t *testing.T) {
	srv := newTestServer(t, newMemStore(), &stubScraper{})
	token := authToken(t, srv, uuid.New())

	rec := doJSON(srv, http.MethodPost, "/api/jobs/email-ingest", token, map[string]any{
		"emailBody": "nothing useful in here",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body, "parsedData")
	assert.Contains(t, body["error"], "title")
}

func TestEmailIngestCreatesJob(t *testing.T) {
	store := newMemStore()
	srv := newTestServer(t, store, &stubScraper{})
	token := authToken(t, srv, uuid.New())

	rec := doJSON(srv, http.MethodPost, "/api/jobs/email-ingest", token, map[string]any{
		"emailBody":    "Job Title: Data Engineer\nCompany: Acme Corp\nLocation: Remote\nhttps://acme.example/jobs/4",
		"emailSubject": "New job alert",
		"fromAddress":  "alerts@linkedin.com",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	parsed := body["parsedData"].(map[string]any)
	assert.Equal(t, "Data Engineer", parsed["title"])
	assert.Equal(t, "Acme Corp", parsed["company"])
}

func TestImportMixedRows(t *testing.T) {
	store := newMemStore()
	srv := newTestServer(t, store, &stubScraper{})
	token := authToken(t, srv, uuid.New())

	rec := doJSON(srv, http.MethodPost, "/api/jobs/import", token, map[string]any{
		"jobs": []map[string]any{
			{"jobTitle": "Platform Engineer", "company": "Acme Corp", "jobUrl": "https://acme.example/jobs/1"},
			{"jobTitle": "Platform Engineer", "company": "Acme Corp", "jobUrl": "https://acme.example/jobs/1"},
			{"jobTitle": "Data Engineer", "company": "Globex", "jobUrl": "https://globex.example/jobs/9"},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(3), body["total"])
	assert.Equal(t, float64(2), body["created"])
	assert.Equal(t, float64(1), body["duplicates"])
	assert.Equal(t, float64(0), body["failed"])
}

func TestImportSchemaValidation(t *testing.T) {
	srv := newTestServer(t, newMemStore(), &stubScraper{})
	token := authToken(t, srv, uuid.New())

	rec := doJSON(srv, http.MethodPost, "/api/jobs/import", token, map[string]any{
		"jobs": []map[string]any{{"company": "Acme Corp"}},
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["details"])
}

func TestListJobs(t *testing.T) {
	store := newMemStore()
	srv := newTestServer(t, store, &stubScraper{})
	userID := uuid.New()
	token := authToken(t, srv, userID)

	rec := doJSON(srv, http.MethodPost, "/api/jobs/extension", token, map[string]any{
		"jobTitle": "Engineer",
		"company":  "Acme",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(srv, http.MethodGet, "/api/jobs", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])
}

func TestRegisterLoginFlow(t *testing.T) {
	srv := newTestServer(t, newMemStore(), &stubScraper{})

	rec := doJSON(srv, http.MethodPost, "/auth/register", "", map[string]any{
		"name":     "Jordan",
		"email":    "jordan@example.com",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["token"])

	// Registering the same email again conflicts.
	rec = doJSON(srv, http.MethodPost, "/auth/register", "", map[string]any{
		"name":     "Jordan",
		"email":    "jordan@example.com",
		"password": "hunter2hunter2",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(srv, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    "jordan@example.com",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	token, ok := body["token"].(string)
	require.True(t, ok)

	// The issued token works against protected routes.
	rec = doJSON(srv, http.MethodGet, "/api/jobs", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(srv, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    "jordan@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
