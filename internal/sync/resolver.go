package sync

import "github.com/Thread-Recruitment/thread-recruitment-integration/internal/teamtailor"

// Prior-record matching for the upsert decisions. All matches take the first
// record in retrieval order when duplicates share a key; duplicate records in
// the ATS are rare enough that no recency ordering is attempted.

func matchJobApplication(apps []teamtailor.JobApplication, jobID string) *teamtailor.JobApplication {
	for i := range apps {
		if apps[i].JobID == jobID {
			return &apps[i]
		}
	}
	return nil
}

func matchAnswer(answers []teamtailor.Answer, questionID string) *teamtailor.Answer {
	for i := range answers {
		if answers[i].QuestionID == questionID {
			return &answers[i]
		}
	}
	return nil
}

func matchCustomFieldValue(values []teamtailor.CustomFieldValue, fieldID string) *teamtailor.CustomFieldValue {
	for i := range values {
		if values[i].FieldID == fieldID {
			return &values[i]
		}
	}
	return nil
}
