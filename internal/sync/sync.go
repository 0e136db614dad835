// Package sync implements the upsert synchronization engine: one pass per
// incoming submission that reconciles candidate, job application, answers,
// custom field values and notes against the ATS and reports a per-field
// outcome for each.
package sync

import (
	"context"
	"errors"
	"time"

	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/common/logger"
	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/common/metrics"
	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/teamtailor"
)

// ATSClient is the collaborator contract the engine needs from the ATS.
// *teamtailor.Client satisfies it; tests supply mocks.
type ATSClient interface {
	CreateCandidate(ctx context.Context, input teamtailor.CandidateInput) (*teamtailor.Candidate, error)
	ListJobApplications(ctx context.Context, candidateID string) ([]teamtailor.JobApplication, error)
	CreateJobApplication(ctx context.Context, candidateID, jobID string) (*teamtailor.JobApplication, error)
	GetQuestion(ctx context.Context, questionID string) (*teamtailor.Question, error)
	ListAnswers(ctx context.Context, candidateID string) ([]teamtailor.Answer, error)
	CreateAnswer(ctx context.Context, candidateID, questionID string, value teamtailor.AnswerValue) (*teamtailor.Answer, error)
	UpdateAnswer(ctx context.Context, answerID string, value teamtailor.AnswerValue) (*teamtailor.Answer, error)
	GetCustomFieldByAPIName(ctx context.Context, apiName string) (*teamtailor.CustomField, error)
	ListCustomFieldValues(ctx context.Context, candidateID string) ([]teamtailor.CustomFieldValue, error)
	CreateCustomFieldValue(ctx context.Context, candidateID, fieldID, value string) (*teamtailor.CustomFieldValue, error)
	UpdateCustomFieldValue(ctx context.Context, valueID, value string) (*teamtailor.CustomFieldValue, error)
	CreateNote(ctx context.Context, candidateID, userID, text string) (*teamtailor.Note, error)
}

// Syncer runs synchronization passes. It is stateless across submissions;
// the ATS is the system of record.
type Syncer struct {
	ats        ATSClient
	logger     logger.Logger
	noteUserID string
}

func NewSyncer(ats ATSClient, log logger.Logger, noteUserID string) *Syncer {
	return &Syncer{
		ats:        ats,
		logger:     log,
		noteUserID: noteUserID,
	}
}

// Synchronize runs one pass for a submission against the target job.
//
// Candidate creation is the only fatal step: if it fails, the report carries
// the error and every other status stays at its pessimistic default. Every
// later step catches its own failure, records it in the report, and lets the
// remaining steps run. The returned report is never nil.
func (s *Syncer) Synchronize(ctx context.Context, submission *Submission, jobID string) *Report {
	start := time.Now()

	report := &Report{
		Email:          submission.Candidate.Email,
		JobID:          jobID,
		Candidate:      StatusFailed,
		JobApplication: StatusSkipped,
		Answers:        []FieldResult{},
		CustomFields:   []FieldResult{},
	}
	if submission.Notes != nil {
		report.Notes = notesStatus(StatusSkipped)
	}

	log := s.logger.WithFields(map[string]interface{}{
		"email": submission.Candidate.Email,
		"jobId": jobID,
	})

	// Step 1: create/merge candidate. Fatal on failure.
	log.Info("Creating candidate", nil)
	candidate, err := s.ats.CreateCandidate(ctx, teamtailor.CandidateInput{
		FirstName: submission.Candidate.FirstName,
		LastName:  submission.Candidate.LastName,
		Email:     submission.Candidate.Email,
		Phone:     submission.Candidate.Phone,
		Tags:      submission.Candidate.Tags,
	})
	if err != nil {
		report.Error = err.Error()
		log.WithError(err).Error("Candidate creation failed, aborting sync pass", nil)
		metrics.SyncPassesTotal.WithLabelValues("failed").Inc()
		metrics.SyncDuration.Observe(time.Since(start).Seconds())
		return report
	}

	report.CandidateID = candidate.ID
	report.Candidate = StatusSuccess
	log = log.WithFields(map[string]interface{}{"candidateId": candidate.ID})
	log.Info("Candidate created", nil)

	// Step 2: job application.
	report.JobApplication = s.syncJobApplication(ctx, log, candidate.ID, jobID)

	// Step 3: answers. Existing answers are fetched once for the whole pass.
	report.Answers = s.syncAnswers(ctx, log, candidate.ID, submission.Answers)

	// Step 4: custom field values. Same single batched existence lookup.
	report.CustomFields = s.syncCustomFields(ctx, log, candidate.ID, submission.CustomFields)

	// Step 5: notes are append-only; every supplied note creates a new entry.
	if submission.Notes != nil {
		report.Notes = notesStatus(s.syncNote(ctx, log, candidate.ID, *submission.Notes))
	}

	report.Success = true

	recordFieldMetrics(report)
	metrics.SyncPassesTotal.WithLabelValues("success").Inc()
	metrics.SyncDuration.Observe(time.Since(start).Seconds())

	return report
}

func (s *Syncer) syncJobApplication(ctx context.Context, log logger.Logger, candidateID, jobID string) FieldStatus {
	existing, err := s.ats.ListJobApplications(ctx, candidateID)
	if err != nil {
		log.WithError(err).Warn("Failed to list job applications", nil)
		return StatusFailed
	}

	if prior := matchJobApplication(existing, jobID); prior != nil {
		log.Info("Job application already exists", map[string]interface{}{
			"applicationId": prior.ID,
		})
		return StatusAlreadyExists
	}

	if _, err := s.ats.CreateJobApplication(ctx, candidateID, jobID); err != nil {
		log.WithError(err).Warn("Job application creation failed", nil)
		return StatusFailed
	}

	log.Info("Job application created", nil)
	return StatusSuccess
}

func (s *Syncer) syncAnswers(ctx context.Context, log logger.Logger, candidateID string, answers []AnswerField) []FieldResult {
	results := make([]FieldResult, 0, len(answers))
	if len(answers) == 0 {
		return results
	}

	existing, err := s.ats.ListAnswers(ctx, candidateID)
	if err != nil {
		// Proceed with no known priors; individual creates surface their
		// own failures.
		log.WithError(err).Warn("Failed to list existing answers", nil)
		existing = nil
	}

	for _, answer := range answers {
		result := FieldResult{
			Field:  answer.QuestionID,
			Value:  answer.Value,
			Status: StatusFailed,
		}

		value := s.resolveAnswerValue(ctx, log, answer)

		if prior := matchAnswer(existing, answer.QuestionID); prior != nil {
			if _, err := s.ats.UpdateAnswer(ctx, prior.ID, value); err != nil {
				result.Error = err.Error()
				log.WithError(err).Error("Failed to update answer", map[string]interface{}{
					"questionId": answer.QuestionID,
				})
			} else {
				result.Status = StatusUpdated
			}
		} else {
			if _, err := s.ats.CreateAnswer(ctx, candidateID, answer.QuestionID, value); err != nil {
				result.Error = err.Error()
				log.WithError(err).Error("Failed to create answer", map[string]interface{}{
					"questionId": answer.QuestionID,
				})
			} else {
				result.Status = StatusSuccess
			}
		}

		results = append(results, result)
	}

	return results
}

// resolveAnswerValue converts the raw value using the question's declared
// type, falling back to the shape-only heuristic when the type cannot be
// resolved.
func (s *Syncer) resolveAnswerValue(ctx context.Context, log logger.Logger, answer AnswerField) teamtailor.AnswerValue {
	question, err := s.ats.GetQuestion(ctx, answer.QuestionID)
	if err != nil {
		if !errors.Is(err, teamtailor.ErrNotFound) {
			log.WithError(err).Warn("Failed to resolve question type", map[string]interface{}{
				"questionId": answer.QuestionID,
			})
		}
		return GuessAnswerValue(answer.Value)
	}
	return ConvertAnswer(answer.Value, question.Type, log)
}

func (s *Syncer) syncCustomFields(ctx context.Context, log logger.Logger, candidateID string, fields []CustomFieldEntry) []FieldResult {
	results := make([]FieldResult, 0, len(fields))
	if len(fields) == 0 {
		return results
	}

	existing, err := s.ats.ListCustomFieldValues(ctx, candidateID)
	if err != nil {
		log.WithError(err).Warn("Failed to list existing custom field values", nil)
		existing = nil
	}

	for _, field := range fields {
		result := FieldResult{
			Field:  field.APIName,
			Value:  field.Value,
			Status: StatusFailed,
		}

		definition, err := s.ats.GetCustomFieldByAPIName(ctx, field.APIName)
		if err != nil {
			if errors.Is(err, teamtailor.ErrNotFound) {
				result.Status = StatusNotFound
				result.Error = "Custom field not found"
				log.Warn("Custom field not found", map[string]interface{}{
					"apiName": field.APIName,
				})
			} else {
				result.Error = err.Error()
				log.WithError(err).Error("Failed to look up custom field", map[string]interface{}{
					"apiName": field.APIName,
				})
			}
			results = append(results, result)
			continue
		}

		value := ConvertCustomFieldValue(field.Value, definition.FieldType)

		if prior := matchCustomFieldValue(existing, definition.ID); prior != nil {
			if _, err := s.ats.UpdateCustomFieldValue(ctx, prior.ID, value); err != nil {
				result.Error = err.Error()
				log.WithError(err).Error("Failed to update custom field value", map[string]interface{}{
					"apiName": field.APIName,
				})
			} else {
				result.Status = StatusUpdated
			}
		} else {
			if _, err := s.ats.CreateCustomFieldValue(ctx, candidateID, definition.ID, value); err != nil {
				result.Error = err.Error()
				log.WithError(err).Error("Failed to create custom field value", map[string]interface{}{
					"apiName": field.APIName,
				})
			} else {
				result.Status = StatusSuccess
			}
		}

		results = append(results, result)
	}

	return results
}

func (s *Syncer) syncNote(ctx context.Context, log logger.Logger, candidateID, text string) FieldStatus {
	if _, err := s.ats.CreateNote(ctx, candidateID, s.noteUserID, text); err != nil {
		log.WithError(err).Error("Failed to create note", nil)
		return StatusFailed
	}
	log.Info("Note created", nil)
	return StatusSuccess
}

func recordFieldMetrics(report *Report) {
	metrics.SyncFieldResultsTotal.WithLabelValues("candidate", string(report.Candidate)).Inc()
	metrics.SyncFieldResultsTotal.WithLabelValues("job_application", string(report.JobApplication)).Inc()
	for _, answer := range report.Answers {
		metrics.SyncFieldResultsTotal.WithLabelValues("answer", string(answer.Status)).Inc()
	}
	for _, field := range report.CustomFields {
		metrics.SyncFieldResultsTotal.WithLabelValues("custom_field", string(field.Status)).Inc()
	}
	if report.Notes != nil {
		metrics.SyncFieldResultsTotal.WithLabelValues("notes", string(*report.Notes)).Inc()
	}
}
