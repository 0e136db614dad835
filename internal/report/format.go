// Package report renders a sync report for humans (plain text) and for
// machine consumers (a structured summary). Both renderings are pure
// projections with no side effects.
package report

import (
	"fmt"
	"strings"

	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/sync"
)

func formatFieldResult(result sync.FieldResult) string {
	base := fmt.Sprintf("  [%s] %s - %s", result.Field, result.Value, result.Status.Label())
	if result.Error != "" {
		return fmt.Sprintf("%s (%s)", base, result.Error)
	}
	return base
}

func successCount(results []sync.FieldResult) int {
	count := 0
	for _, result := range results {
		if result.Status.IsSuccess() {
			count++
		}
	}
	return count
}

// FormatText renders the report as a fixed-layout plain-text block.
func FormatText(r *sync.Report) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("Sync Report: %s", r.Email))
	if r.Success {
		lines = append(lines, "Status: Success")
	} else {
		lines = append(lines, "Status: Failed")
	}

	if r.CandidateID != "" {
		lines = append(lines, fmt.Sprintf("Candidate ID: %s", r.CandidateID))
	}
	lines = append(lines, fmt.Sprintf("Job ID: %s", r.JobID))

	if r.Error != "" {
		lines = append(lines, fmt.Sprintf("Error: %s", r.Error))
	}

	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("Candidate: %s", r.Candidate.Label()))
	lines = append(lines, fmt.Sprintf("Job Application: %s", r.JobApplication.Label()))

	if len(r.Answers) > 0 {
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("Answers (%d/%d):", successCount(r.Answers), len(r.Answers)))
		for _, answer := range r.Answers {
			lines = append(lines, formatFieldResult(answer))
		}
	}

	if len(r.CustomFields) > 0 {
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("Custom Fields (%d/%d):", successCount(r.CustomFields), len(r.CustomFields)))
		for _, field := range r.CustomFields {
			lines = append(lines, formatFieldResult(field))
		}
	}

	if r.Notes != nil {
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("Notes: %s", r.Notes.Label()))
	}

	return strings.Join(lines, "\n")
}

// Summary tallies field outcomes. Total counts every attempted sub-resource:
// all fields, candidate, job application, and notes when supplied.
type Summary struct {
	Total    int `json:"total"`
	Success  int `json:"success"`
	Failed   int `json:"failed"`
	NotFound int `json:"notFound"`
}

// Field is one answer or custom field in the flattened field list.
type Field struct {
	Type   string           `json:"type"`
	Field  string           `json:"field"`
	Value  string           `json:"value"`
	Status sync.FieldStatus `json:"status"`
	Error  string           `json:"error,omitempty"`
}

// JSONReport is the structured rendering of a sync report. Optional members
// are omitted entirely rather than emitted as null placeholders; Notes is
// the exception, whose null distinguishes "no notes supplied" from every
// attempted outcome.
type JSONReport struct {
	Success        bool              `json:"success"`
	Email          string            `json:"email"`
	CandidateID    string            `json:"candidateId,omitempty"`
	JobID          string            `json:"jobId"`
	Candidate      sync.FieldStatus  `json:"candidate"`
	JobApplication sync.FieldStatus  `json:"jobApplication"`
	Notes          *sync.FieldStatus `json:"notes"`
	Summary        Summary           `json:"summary"`
	Fields         []Field           `json:"fields"`
	Error          string            `json:"error,omitempty"`
}

// FormatJSON flattens answers and custom fields into one tagged list and
// computes the summary tallies.
func FormatJSON(r *sync.Report) *JSONReport {
	fields := make([]Field, 0, len(r.Answers)+len(r.CustomFields))

	for _, answer := range r.Answers {
		fields = append(fields, Field{
			Type:   "answer",
			Field:  answer.Field,
			Value:  answer.Value,
			Status: answer.Status,
			Error:  answer.Error,
		})
	}

	for _, customField := range r.CustomFields {
		fields = append(fields, Field{
			Type:   "custom_field",
			Field:  customField.Field,
			Value:  customField.Value,
			Status: customField.Status,
			Error:  customField.Error,
		})
	}

	summary := Summary{
		Total: len(fields) + 2,
	}
	if r.Notes != nil {
		summary.Total++
	}

	for _, field := range fields {
		if field.Status.IsSuccess() {
			summary.Success++
		}
		if field.Status == sync.StatusFailed {
			summary.Failed++
		}
		if field.Status == sync.StatusNotFound {
			summary.NotFound++
		}
	}

	if r.Candidate.IsSuccess() {
		summary.Success++
	}
	if r.JobApplication.IsSuccess() {
		summary.Success++
	}
	if r.Notes != nil && r.Notes.IsSuccess() {
		summary.Success++
	}

	if r.Candidate == sync.StatusFailed {
		summary.Failed++
	}
	if r.JobApplication == sync.StatusFailed {
		summary.Failed++
	}
	if r.Notes != nil && *r.Notes == sync.StatusFailed {
		summary.Failed++
	}

	return &JSONReport{
		Success:        r.Success,
		Email:          r.Email,
		CandidateID:    r.CandidateID,
		JobID:          r.JobID,
		Candidate:      r.Candidate,
		JobApplication: r.JobApplication,
		Notes:          r.Notes,
		Summary:        summary,
		Fields:         fields,
	}
}

// FormatJSONWithError carries the top-level fatal error through to the
// structured rendering.
func FormatJSONWithError(r *sync.Report) *JSONReport {
	out := FormatJSON(r)
	out.Error = r.Error
	return out
}
