package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/common/logger"
	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/common/ratelimit"
	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/sync"
	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/teamtailor"
)

type mockSyncer struct {
	mock.Mock
}

func (m *mockSyncer) Synchronize(ctx context.Context, submission *sync.Submission, jobID string) *sync.Report {
	args := m.Called(ctx, submission, jobID)
	return args.Get(0).(*sync.Report)
}

type mockJobs struct {
	mock.Mock
}

func (m *mockJobs) GetJob(ctx context.Context, jobID string) (*teamtailor.Job, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*teamtailor.Job), args.Error(1)
}

type recordingNotifier struct {
	reports  []*sync.Report
	titles   []string
	requests []string
}

func (n *recordingNotifier) Dispatch(r *sync.Report, jobTitle, requestID string) {
	n.reports = append(n.reports, r)
	n.titles = append(n.titles, jobTitle)
	n.requests = append(n.requests, requestID)
}

const testSecret = "sekrit"

func newTestHandler(syncer Synchronizer, jobs JobGetter, notifier Notifier, limiter ratelimit.Limiter) http.Handler {
	h := NewHandler(syncer, jobs, notifier, limiter, nil, testSecret, "test-app", "dev", logger.NewNoOpLogger())
	mux := http.NewServeMux()
	h.Register(mux)
	return mux
}

func postWebhook(t *testing.T, handler http.Handler, token, query, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/webhook/"+token+query, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func successReport() *sync.Report {
	return &sync.Report{
		Success:        true,
		Email:          "erik@example.com",
		JobID:          "job-9",
		CandidateID:    "cand-1",
		Candidate:      sync.StatusSuccess,
		JobApplication: sync.StatusSuccess,
	}
}

func TestHandleWebhook_Success(t *testing.T) {
	syncer := new(mockSyncer)
	syncer.On("Synchronize", mock.Anything, mock.Anything, "job-9").Return(successReport())

	jobs := new(mockJobs)
	jobs.On("GetJob", mock.Anything, "job-9").Return(&teamtailor.Job{ID: "job-9", Title: "Backend Engineer"}, nil)

	notifier := &recordingNotifier{}
	handler := newTestHandler(syncer, jobs, notifier, nil)

	rec := postWebhook(t, handler, testSecret, "?job_id=job-9", `{"tt_email": "erik@example.com"}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "cand-1", resp["candidate_id"])
	assert.NotNil(t, resp["report"])

	require.Len(t, notifier.reports, 1)
	assert.Equal(t, "Backend Engineer", notifier.titles[0])
	assert.NotEmpty(t, notifier.requests[0])
	syncer.AssertExpectations(t)
}

func TestHandleWebhook_WrongToken(t *testing.T) {
	syncer := new(mockSyncer)
	handler := newTestHandler(syncer, nil, nil, nil)

	rec := postWebhook(t, handler, "wrong-token", "?job_id=job-9", `{"tt_email": "erik@example.com"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	syncer.AssertNotCalled(t, "Synchronize", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleWebhook_MissingJobID(t *testing.T) {
	syncer := new(mockSyncer)
	handler := newTestHandler(syncer, nil, nil, nil)

	rec := postWebhook(t, handler, testSecret, "", `{"tt_email": "erik@example.com"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "job_id")
	syncer.AssertNotCalled(t, "Synchronize", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleWebhook_ParseFailure(t *testing.T) {
	syncer := new(mockSyncer)
	handler := newTestHandler(syncer, nil, nil, nil)

	rec := postWebhook(t, handler, testSecret, "?job_id=job-9", `{"tt_first_name": "Erik"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "tt_email")
	syncer.AssertNotCalled(t, "Synchronize", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleWebhook_UnknownJob(t *testing.T) {
	syncer := new(mockSyncer)
	jobs := new(mockJobs)
	jobs.On("GetJob", mock.Anything, "job-404").Return(nil, teamtailor.ErrNotFound)

	handler := newTestHandler(syncer, jobs, nil, nil)

	rec := postWebhook(t, handler, testSecret, "?job_id=job-404", `{"tt_email": "erik@example.com"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown job_id")
	syncer.AssertNotCalled(t, "Synchronize", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleWebhook_JobLookupOutageIsAdvisory(t *testing.T) {
	syncer := new(mockSyncer)
	syncer.On("Synchronize", mock.Anything, mock.Anything, "job-9").Return(successReport())

	jobs := new(mockJobs)
	jobs.On("GetJob", mock.Anything, "job-9").Return(nil, context.DeadlineExceeded)

	notifier := &recordingNotifier{}
	handler := newTestHandler(syncer, jobs, notifier, nil)

	rec := postWebhook(t, handler, testSecret, "?job_id=job-9", `{"tt_email": "erik@example.com"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, notifier.titles, 1)
	assert.Empty(t, notifier.titles[0])
}

func TestHandleWebhook_SyncFailure(t *testing.T) {
	failed := &sync.Report{
		Email:          "erik@example.com",
		JobID:          "job-9",
		Candidate:      sync.StatusFailed,
		JobApplication: sync.StatusSkipped,
		Error:          "teamtailor api error (status 500): boom",
	}

	syncer := new(mockSyncer)
	syncer.On("Synchronize", mock.Anything, mock.Anything, "job-9").Return(failed)

	handler := newTestHandler(syncer, nil, nil, nil)

	rec := postWebhook(t, handler, testSecret, "?job_id=job-9", `{"tt_email": "erik@example.com"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Contains(t, resp["error"], "status 500")
}

func TestHandleWebhook_RateLimited(t *testing.T) {
	syncer := new(mockSyncer)
	syncer.On("Synchronize", mock.Anything, mock.Anything, "job-9").Return(successReport())

	limiter := ratelimit.NewMemoryLimiter(2)
	handler := newTestHandler(syncer, nil, nil, limiter)

	for i := 0; i < 2; i++ {
		rec := postWebhook(t, handler, testSecret, "?job_id=job-9", `{"tt_email": "erik@example.com"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := postWebhook(t, handler, testSecret, "?job_id=job-9", `{"tt_email": "erik@example.com"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestHandleHealth(t *testing.T) {
	handler := newTestHandler(new(mockSyncer), nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test-app")
}
