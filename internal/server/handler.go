// Package server exposes the webhook HTTP surface. The handler is a thin
// adapter: it authenticates, rate limits, parses, delegates to the sync
// engine, and renders the report. All business rules live in internal/sync.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/common/logger"
	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/common/metrics"
	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/common/observability"
	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/common/ratelimit"
	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/report"
	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/sync"
	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/teamtailor"
)

const maxBodySize = 1 << 20 // 1 MiB

// Synchronizer runs one sync pass per submission.
type Synchronizer interface {
	Synchronize(ctx context.Context, submission *sync.Submission, jobID string) *sync.Report
}

// JobGetter resolves a job for pre-sync verification and notification titles.
type JobGetter interface {
	GetJob(ctx context.Context, jobID string) (*teamtailor.Job, error)
}

// Notifier dispatches a non-blocking notification after a sync pass.
type Notifier interface {
	Dispatch(r *sync.Report, jobTitle, requestID string)
}

// Handler serves the webhook endpoint and health checks.
type Handler struct {
	syncer     Synchronizer
	jobs       JobGetter
	notifier   Notifier
	limiter    ratelimit.Limiter
	obs        *observability.Observability
	secret     string
	appName    string
	appVersion string
	logger     logger.Logger
}

func NewHandler(
	syncer Synchronizer,
	jobs JobGetter,
	notifier Notifier,
	limiter ratelimit.Limiter,
	obs *observability.Observability,
	secret, appName, appVersion string,
	log logger.Logger,
) *Handler {
	return &Handler{
		syncer:     syncer,
		jobs:       jobs,
		notifier:   notifier,
		limiter:    limiter,
		obs:        obs,
		secret:     secret,
		appName:    appName,
		appVersion: appVersion,
		logger:     log,
	}
}

// Register wires the handler's routes onto the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/webhook/{token}", h.handleWebhook)
	mux.HandleFunc("GET /healthz", h.handleHealth)
}

type webhookResponse struct {
	Success     bool               `json:"success"`
	CandidateID string             `json:"candidate_id,omitempty"`
	Report      *report.JSONReport `json:"report,omitempty"`
	Error       string             `json:"error,omitempty"`
}

func (h *Handler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	log := h.logger.WithFields(map[string]interface{}{"requestId": requestID})

	token := r.PathValue("token")
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) != 1 {
		log.Warn("Webhook token mismatch", nil)
		metrics.WebhookRequestsTotal.WithLabelValues("unauthorized").Inc()
		writeJSON(w, http.StatusUnauthorized, webhookResponse{Error: "invalid token"})
		return
	}

	jobID := r.URL.Query().Get("job_id")
	if jobID == "" {
		metrics.WebhookRequestsTotal.WithLabelValues("bad_request").Inc()
		writeJSON(w, http.StatusBadRequest, webhookResponse{Error: "job_id query parameter is required"})
		return
	}

	if h.limiter != nil {
		result, err := h.limiter.Allow(r.Context(), token)
		if err != nil {
			// Limiter outage must not take the webhook down.
			log.WithError(err).Warn("Rate limiter unavailable, allowing request", nil)
		} else if !result.Allowed {
			log.Warn("Rate limit exceeded", map[string]interface{}{"jobId": jobID})
			metrics.WebhookRequestsTotal.WithLabelValues("rate_limited").Inc()
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, webhookResponse{Error: "rate limit exceeded"})
			return
		}
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		metrics.WebhookRequestsTotal.WithLabelValues("bad_request").Inc()
		writeJSON(w, http.StatusBadRequest, webhookResponse{Error: "failed to read request body"})
		return
	}

	submission, err := sync.Parse(body)
	if err != nil {
		log.WithError(err).Warn("Payload rejected", nil)
		metrics.WebhookRequestsTotal.WithLabelValues("bad_request").Inc()
		writeJSON(w, http.StatusBadRequest, webhookResponse{Error: err.Error()})
		return
	}

	// Job verification is advisory: a lookup failure other than a definite
	// miss does not block the sync.
	jobTitle := ""
	if h.jobs != nil {
		job, err := h.jobs.GetJob(r.Context(), jobID)
		switch {
		case err == nil:
			jobTitle = job.Title
		case errors.Is(err, teamtailor.ErrNotFound):
			metrics.WebhookRequestsTotal.WithLabelValues("bad_request").Inc()
			writeJSON(w, http.StatusBadRequest, webhookResponse{Error: "unknown job_id"})
			return
		default:
			log.WithError(err).Warn("Job lookup failed, continuing without title", map[string]interface{}{
				"jobId": jobID,
			})
		}
	}

	log.Info("Processing webhook submission", map[string]interface{}{
		"email": submission.Candidate.Email,
		"jobId": jobID,
	})

	syncStart := time.Now()
	syncReport := h.syncer.Synchronize(r.Context(), submission, jobID)

	if h.obs != nil {
		status := "success"
		if !syncReport.Success {
			status = "failed"
		}
		h.obs.RecordSyncProcessed(r.Context(), status)
		h.obs.RecordSyncDuration(r.Context(), time.Since(syncStart), status)
	}

	log.Debug("Sync report", map[string]interface{}{
		"report": report.FormatText(syncReport),
	})

	if h.notifier != nil {
		h.notifier.Dispatch(syncReport, jobTitle, requestID)
	}

	if !syncReport.Success {
		metrics.WebhookRequestsTotal.WithLabelValues("sync_failed").Inc()
		writeJSON(w, http.StatusInternalServerError, webhookResponse{
			Success: false,
			Report:  report.FormatJSONWithError(syncReport),
			Error:   syncReport.Error,
		})
		return
	}

	metrics.WebhookRequestsTotal.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, webhookResponse{
		Success:     true,
		CandidateID: syncReport.CandidateID,
		Report:      report.FormatJSON(syncReport),
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"name":    h.appName,
		"version": h.appVersion,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
