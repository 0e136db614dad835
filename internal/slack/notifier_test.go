package slack

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/common/logger"
	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/sync"
)

func notesPtr(s sync.FieldStatus) *sync.FieldStatus { return &s }

func sampleReport() *sync.Report {
	return &sync.Report{
		Success:        true,
		Email:          "erik@example.com",
		JobID:          "job-9",
		CandidateID:    "cand-1",
		Candidate:      sync.StatusSuccess,
		JobApplication: sync.StatusAlreadyExists,
		Answers: []sync.FieldResult{
			{Field: "1", Value: "Yes", Status: sync.StatusSuccess},
			{Field: "2", Value: "x", Status: sync.StatusFailed, Error: "boom"},
		},
		CustomFields: []sync.FieldResult{
			{Field: "drivers_license", Value: "yes", Status: sync.StatusUpdated},
		},
		Notes: notesPtr(sync.StatusSuccess),
	}
}

func TestNotifySyncResult_PostsSummary(t *testing.T) {
	var received string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var p payload
		require.NoError(t, json.Unmarshal(body, &p))
		received = p.Text

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewNotifier(server.URL, "acme", logger.NewNoOpLogger())
	err := notifier.NotifySyncResult(context.Background(), sampleReport(), "Backend Engineer", "req-123")
	require.NoError(t, err)

	assert.Contains(t, received, "erik@example.com")
	assert.Contains(t, received, "https://app.teamtailor.com/companies/acme/candidates/cand-1")
	assert.Contains(t, received, "Job: Backend Engineer (job-9)")
	assert.Contains(t, received, "Answers: 1/2")
	assert.Contains(t, received, "Custom fields: 1/1")
	assert.Contains(t, received, "Request: req-123")
}

func TestNotifySyncResult_FailureReport(t *testing.T) {
	var received string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p payload
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &p)
		received = p.Text
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	r := &sync.Report{
		Email:          "erik@example.com",
		JobID:          "job-9",
		Candidate:      sync.StatusFailed,
		JobApplication: sync.StatusSkipped,
		Error:          "candidate create failed",
	}

	notifier := NewNotifier(server.URL, "acme", logger.NewNoOpLogger())
	require.NoError(t, notifier.NotifySyncResult(context.Background(), r, "", "req-456"))

	assert.Contains(t, received, "❌ Candidate sync failed")
	assert.Contains(t, received, "Job: job-9")
	assert.Contains(t, received, "Error: candidate create failed")
	assert.NotContains(t, received, "app.teamtailor.com")
}

func TestNotifySyncResult_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	notifier := NewNotifier(server.URL, "acme", logger.NewNoOpLogger())
	err := notifier.NotifySyncResult(context.Background(), sampleReport(), "", "req-789")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOTIFICATION_SEND_FAILED")
}

func TestNotifier_DisabledWhenURLEmpty(t *testing.T) {
	notifier := NewNotifier("", "acme", logger.NewNoOpLogger())
	assert.False(t, notifier.Enabled())
	assert.NoError(t, notifier.NotifySyncResult(context.Background(), sampleReport(), "", "req-1"))
}
