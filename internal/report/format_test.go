package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/sync"
)

func notesPtr(s sync.FieldStatus) *sync.FieldStatus { return &s }

func fullReport() *sync.Report {
	return &sync.Report{
		Success:        true,
		Email:          "erik@example.com",
		JobID:          "job-9",
		CandidateID:    "cand-1",
		Candidate:      sync.StatusSuccess,
		JobApplication: sync.StatusAlreadyExists,
		Answers: []sync.FieldResult{
			{Field: "3165763", Value: "Yes", Status: sync.StatusUpdated},
			{Field: "42", Value: "blue", Status: sync.StatusFailed, Error: "api error"},
		},
		CustomFields: []sync.FieldResult{
			{Field: "drivers_license", Value: "yes", Status: sync.StatusSuccess},
			{Field: "missing", Value: "x", Status: sync.StatusNotFound, Error: "Custom field not found"},
		},
		Notes: notesPtr(sync.StatusSuccess),
	}
}

func TestFormatText_FullReport(t *testing.T) {
	expected := strings.Join([]string{
		"Sync Report: erik@example.com",
		"Status: Success",
		"Candidate ID: cand-1",
		"Job ID: job-9",
		"",
		"Candidate: Success",
		"Job Application: Already Exists",
		"",
		"Answers (1/2):",
		"  [3165763] Yes - Updated",
		"  [42] blue - Failed (api error)",
		"",
		"Custom Fields (1/2):",
		"  [drivers_license] yes - Success",
		"  [missing] x - Not Found (Custom field not found)",
		"",
		"Notes: Success",
	}, "\n")

	assert.Equal(t, expected, FormatText(fullReport()))
}

func TestFormatText_FatalFailure(t *testing.T) {
	r := &sync.Report{
		Email:          "erik@example.com",
		JobID:          "job-9",
		Candidate:      sync.StatusFailed,
		JobApplication: sync.StatusSkipped,
		Error:          "teamtailor api error (status 500): boom",
	}

	expected := strings.Join([]string{
		"Sync Report: erik@example.com",
		"Status: Failed",
		"Job ID: job-9",
		"Error: teamtailor api error (status 500): boom",
		"",
		"Candidate: Failed",
		"Job Application: Skipped",
	}, "\n")

	assert.Equal(t, expected, FormatText(r))
}

func TestFormatText_NoOptionalSections(t *testing.T) {
	r := &sync.Report{
		Success:        true,
		Email:          "erik@example.com",
		JobID:          "job-9",
		CandidateID:    "cand-1",
		Candidate:      sync.StatusSuccess,
		JobApplication: sync.StatusSuccess,
	}

	out := FormatText(r)
	assert.NotContains(t, out, "Answers")
	assert.NotContains(t, out, "Custom Fields")
	assert.NotContains(t, out, "Notes:")
	assert.NotContains(t, out, "Error:")
}

func TestFormatJSON_FlattensAndTallies(t *testing.T) {
	out := FormatJSON(fullReport())

	require.Len(t, out.Fields, 4)
	assert.Equal(t, "answer", out.Fields[0].Type)
	assert.Equal(t, "answer", out.Fields[1].Type)
	assert.Equal(t, "custom_field", out.Fields[2].Type)
	assert.Equal(t, "custom_field", out.Fields[3].Type)

	// 4 fields + candidate + job application + notes
	assert.Equal(t, 7, out.Summary.Total)
	// updated answer, successful custom field, candidate, job application, notes
	assert.Equal(t, 5, out.Summary.Success)
	assert.Equal(t, 1, out.Summary.Failed)
	assert.Equal(t, 1, out.Summary.NotFound)
}

func TestFormatJSON_SuccessEquivalence(t *testing.T) {
	r := &sync.Report{
		Success:        true,
		Email:          "erik@example.com",
		JobID:          "job-9",
		CandidateID:    "cand-1",
		Candidate:      sync.StatusSuccess,
		JobApplication: sync.StatusAlreadyExists,
		Answers: []sync.FieldResult{
			{Field: "1", Value: "a", Status: sync.StatusUpdated},
			{Field: "2", Value: "b", Status: sync.StatusSuccess},
		},
		CustomFields: []sync.FieldResult{
			{Field: "c", Value: "d", Status: sync.StatusUpdated},
		},
		Notes: notesPtr(sync.StatusAlreadyExists),
	}

	out := FormatJSON(r)
	assert.Equal(t, 6, out.Summary.Success)
	assert.Equal(t, 0, out.Summary.Failed)
	assert.Equal(t, 0, out.Summary.NotFound)
}

func TestFormatJSON_OmitsEmptyOptionals(t *testing.T) {
	r := &sync.Report{
		Email:          "erik@example.com",
		JobID:          "job-9",
		Candidate:      sync.StatusFailed,
		JobApplication: sync.StatusSkipped,
	}

	raw, err := json.Marshal(FormatJSON(r))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	_, hasCandidateID := decoded["candidateId"]
	assert.False(t, hasCandidateID)
	_, hasError := decoded["error"]
	assert.False(t, hasError)

	// Notes is always present; null marks "not supplied".
	notes, hasNotes := decoded["notes"]
	assert.True(t, hasNotes)
	assert.Nil(t, notes)
}

func TestFormatJSONWithError(t *testing.T) {
	r := &sync.Report{
		Email:     "erik@example.com",
		JobID:     "job-9",
		Candidate: sync.StatusFailed,
		Error:     "boom",
	}

	out := FormatJSONWithError(r)
	assert.Equal(t, "boom", out.Error)
}

func TestFormatJSON_NotesNotSuppliedExcludedFromTotal(t *testing.T) {
	r := fullReport()
	r.Notes = nil

	out := FormatJSON(r)
	assert.Equal(t, 6, out.Summary.Total)
	assert.Equal(t, 4, out.Summary.Success)
}
