// Package slack posts sync summaries to a Slack incoming webhook. Delivery is
// best effort: a failed notification is logged and never affects the sync
// outcome.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/common/errors"
	httpclient "github.com/Thread-Recruitment/thread-recruitment-integration/internal/common/http"
	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/common/logger"
	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/sync"
)

const defaultTimeout = 10 * time.Second

// Notifier sends one message per sync pass. A Notifier with an empty webhook
// URL is valid and silently drops every notification.
type Notifier struct {
	webhookURL string
	companyID  string
	client     *httpclient.Client
	logger     logger.Logger
}

func NewNotifier(webhookURL, companyID string, log logger.Logger) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		companyID:  companyID,
		client:     httpclient.NewClient(defaultTimeout),
		logger:     log,
	}
}

// Enabled reports whether a webhook URL is configured.
func (n *Notifier) Enabled() bool {
	return n.webhookURL != ""
}

type payload struct {
	Text string `json:"text"`
}

// NotifySyncResult posts a summary of the report. jobTitle may be empty when
// the job lookup failed; requestID ties the message back to the server logs
// for the same webhook call.
func (n *Notifier) NotifySyncResult(ctx context.Context, r *sync.Report, jobTitle, requestID string) error {
	if !n.Enabled() {
		return nil
	}

	body, err := json.Marshal(payload{Text: n.buildMessage(r, jobTitle, requestID)})
	if err != nil {
		return errors.NewNotificationSendFailedError("slack", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return errors.NewNotificationSendFailedError("slack", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return errors.NewNotificationSendFailedError("slack", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.NewNotificationSendFailedError("slack",
			fmt.Errorf("webhook returned status %d", resp.StatusCode))
	}

	return nil
}

// Dispatch fires NotifySyncResult in the background and logs any failure.
// The caller never waits on Slack.
func (n *Notifier) Dispatch(r *sync.Report, jobTitle, requestID string) {
	if !n.Enabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()
		if err := n.NotifySyncResult(ctx, r, jobTitle, requestID); err != nil {
			n.logger.WithError(err).Warn("Slack notification failed", map[string]interface{}{
				"requestId": requestID,
			})
		}
	}()
}

func statusEmoji(s sync.FieldStatus) string {
	switch {
	case s.IsSuccess():
		return "✅"
	case s == sync.StatusSkipped:
		return "⏩"
	case s == sync.StatusNotFound:
		return "❓"
	default:
		return "❌"
	}
}

func tally(results []sync.FieldResult) (ok, total int) {
	for _, result := range results {
		if result.Status.IsSuccess() {
			ok++
		}
	}
	return ok, len(results)
}

func (n *Notifier) buildMessage(r *sync.Report, jobTitle, requestID string) string {
	var b strings.Builder

	if r.Success {
		fmt.Fprintf(&b, "✅ Candidate sync completed: *%s*\n", r.Email)
	} else {
		fmt.Fprintf(&b, "❌ Candidate sync failed: *%s*\n", r.Email)
	}

	if r.CandidateID != "" {
		fmt.Fprintf(&b, "Candidate: <https://app.teamtailor.com/companies/%s/candidates/%s|%s>\n",
			n.companyID, r.CandidateID, r.CandidateID)
	}
	if jobTitle != "" {
		fmt.Fprintf(&b, "Job: %s (%s)\n", jobTitle, r.JobID)
	} else {
		fmt.Fprintf(&b, "Job: %s\n", r.JobID)
	}

	fmt.Fprintf(&b, "%s Candidate  %s Job Application\n",
		statusEmoji(r.Candidate), statusEmoji(r.JobApplication))

	if len(r.Answers) > 0 {
		ok, total := tally(r.Answers)
		fmt.Fprintf(&b, "Answers: %d/%d\n", ok, total)
	}
	if len(r.CustomFields) > 0 {
		ok, total := tally(r.CustomFields)
		fmt.Fprintf(&b, "Custom fields: %d/%d\n", ok, total)
	}
	if r.Notes != nil {
		fmt.Fprintf(&b, "Notes: %s\n", statusEmoji(*r.Notes))
	}

	if r.Error != "" {
		fmt.Fprintf(&b, "Error: %s\n", r.Error)
	}

	fmt.Fprintf(&b, "Request: %s", requestID)

	return b.String()
}
