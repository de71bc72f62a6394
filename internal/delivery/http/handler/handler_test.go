package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/varon-ai/sitecrawler/internal/delivery/http/handler"
	"github.com/varon-ai/sitecrawler/internal/delivery/http/response"
	"github.com/varon-ai/sitecrawler/internal/delivery/http/router"
	"github.com/varon-ai/sitecrawler/internal/entity"
	"github.com/varon-ai/sitecrawler/internal/repository"
	"github.com/varon-ai/sitecrawler/internal/usecase"
)

type fakeExtractor struct {
	result   *entity.Extraction
	err      error
	force    bool
	failures []*entity.FailedPage
	limit    int
}

func (f *fakeExtractor) Extract(_ context.Context, url string, budget int, force bool) (*entity.Extraction, error) {
	f.force = force
	if f.err != nil {
		return nil, f.err
	}
	e := *f.result
	e.URL = url
	e.PageBudget = budget
	return &e, nil
}

func (f *fakeExtractor) Run(context.Context, *entity.Extraction) error { return nil }

func (f *fakeExtractor) RecentFailures(_ context.Context, limit int) ([]*entity.FailedPage, error) {
	f.limit = limit
	return f.failures, f.err
}

func (f *fakeExtractor) Limits() usecase.RequestLimits {
	return usecase.RequestLimits{DefaultBudget: 5, MaxBudget: 10}
}

type fakeJobs struct {
	submitted []string
	records   map[string]*entity.Extraction
	err       error
}

func (f *fakeJobs) Submit(_ context.Context, url string, _ int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.submitted = append(f.submitted, url)
	return "job-1", nil
}

func (f *fakeJobs) Status(_ context.Context, id string) (*entity.Extraction, error) {
	if e, ok := f.records[id]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("extraction %s: %w", id, repository.ErrNotFound)
}

func newServer(t *testing.T, ex *fakeExtractor, jobs *fakeJobs, checks map[string]handler.HealthCheck) *httptest.Server {
	t.Helper()
	logger := zaptest.NewLogger(t)
	srv := httptest.NewServer(router.New(handler.NewHandler(ex, jobs, checks, logger), logger, time.Minute))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHealthCheck(t *testing.T) {
	srv := newServer(t, &fakeExtractor{}, &fakeJobs{}, nil)

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, map[string]string{"status": "ok"}, body)
}

func TestHealthCheckReportsUnhealthyDependency(t *testing.T) {
	checks := map[string]handler.HealthCheck{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	}
	srv := newServer(t, &fakeExtractor{}, &fakeJobs{}, checks)

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "healthy", body["postgres"])
	assert.Equal(t, "unhealthy", body["redis"])
}

func TestExtractReturnsCorpus(t *testing.T) {
	ex := &fakeExtractor{result: &entity.Extraction{
		ID:            "abc",
		Status:        entity.ExtractionCompleted,
		Corpus:        "=== Source: https://example.com/ ===\nhello\n",
		SourceURLs:    []string{"https://example.com/"},
		PagesRendered: 1,
	}}
	srv := newServer(t, ex, &fakeJobs{}, nil)

	resp := post(t, srv.URL+"/api/extract", `{"url":"https://example.com/","page_budget":3,"force":true}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body response.ExtractionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "completed", body.Status)
	assert.Equal(t, 3, body.PageBudget)
	assert.Equal(t, []string{"https://example.com/"}, body.SourceURLs)
	assert.Contains(t, body.Corpus, "=== Source: https://example.com/ ===")
	assert.True(t, ex.force)
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"malformed body", `{"url":`, nil, http.StatusBadRequest},
		{"invalid url", `{"url":"ftp://example.com"}`, fmt.Errorf("%w: %q", usecase.ErrInvalidStartURL, "ftp://example.com"), http.StatusBadRequest},
		{"budget too large", `{"url":"https://example.com","page_budget":99}`, usecase.ErrInvalidBudget, http.StatusBadRequest},
		{"browser launch", `{"url":"https://example.com"}`, fmt.Errorf("%w: no chrome", repository.ErrBrowserLaunch), http.StatusBadGateway},
		{"unexpected", `{"url":"https://example.com"}`, errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, &fakeExtractor{err: tt.err}, &fakeJobs{}, nil)
			resp := post(t, srv.URL+"/api/extract", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestSubmitJob(t *testing.T) {
	jobs := &fakeJobs{}
	srv := newServer(t, &fakeExtractor{}, jobs, nil)

	resp := post(t, srv.URL+"/api/jobs", `{"url":"https://example.com/","page_budget":2}`)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	var body response.SubmitJobResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "job-1", body.JobID)
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, []string{"https://example.com/"}, jobs.submitted)
}

func TestSubmitJobInvalid(t *testing.T) {
	srv := newServer(t, &fakeExtractor{}, &fakeJobs{err: usecase.ErrInvalidBudget}, nil)

	resp := post(t, srv.URL+"/api/jobs", `{"url":"https://example.com/","page_budget":-1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetJob(t *testing.T) {
	jobs := &fakeJobs{records: map[string]*entity.Extraction{
		"job-1": {ID: "job-1", URL: "https://example.com/", Status: entity.ExtractionPending},
	}}
	srv := newServer(t, &fakeExtractor{}, jobs, nil)

	resp, err := http.Get(srv.URL + "/api/jobs/job-1")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body response.ExtractionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "pending", body.Status)
	assert.Equal(t, []string{}, body.SourceURLs)

	missing, err := http.Get(srv.URL + "/api/jobs/unknown")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newServer(t, &fakeExtractor{}, &fakeJobs{}, nil)

	health, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	_ = health.Body.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListFailedPages(t *testing.T) {
	ex := &fakeExtractor{failures: []*entity.FailedPage{
		{URL: "https://example.com/slow", ExtractionID: "abc", Kind: entity.FailureTimeout, Reason: "page navigation timed out", AttemptCount: 2},
	}}
	srv := newServer(t, ex, &fakeJobs{}, nil)

	resp, err := http.Get(srv.URL + "/api/failed-pages?limit=5")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, ex.limit)

	var body []response.FailedPageResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, "timeout", body[0].Kind)
	assert.Equal(t, 2, body[0].AttemptCount)

	bad, err := http.Get(srv.URL + "/api/failed-pages?limit=abc")
	require.NoError(t, err)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}
