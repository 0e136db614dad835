package sync

// FieldStatus is the outcome tag attached to each sub-resource after a sync
// attempt.
type FieldStatus string

const (
	StatusSuccess       FieldStatus = "success"
	StatusUpdated       FieldStatus = "updated"
	StatusAlreadyExists FieldStatus = "already_exists"
	StatusFailed        FieldStatus = "failed"
	StatusSkipped       FieldStatus = "skipped"
	StatusNotFound      FieldStatus = "not_found"
)

// IsSuccess reports whether the status counts as a successful outcome.
// Updated and already-existing records mean the data is in place.
func (s FieldStatus) IsSuccess() bool {
	return s == StatusSuccess || s == StatusUpdated || s == StatusAlreadyExists
}

// Label returns the human-readable form used by the text report.
func (s FieldStatus) Label() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusUpdated:
		return "Updated"
	case StatusAlreadyExists:
		return "Already Exists"
	case StatusFailed:
		return "Failed"
	case StatusSkipped:
		return "Skipped"
	case StatusNotFound:
		return "Not Found"
	}
	return string(s)
}

// FieldResult records the outcome for one answer or custom field. Value keeps
// the original raw string for human display.
type FieldResult struct {
	Field  string      `json:"field"`
	Value  string      `json:"value"`
	Status FieldStatus `json:"status"`
	Error  string      `json:"error,omitempty"`
}

// Report is the aggregate result of one synchronization pass.
//
// Success reflects only whether candidate creation succeeded; field-level
// failures are reported individually and do not flip it. Notes is nil when
// the submission carried no notes at all, which is distinct from a notes
// attempt that was skipped or failed.
type Report struct {
	Success        bool
	Email          string
	JobID          string
	CandidateID    string
	Candidate      FieldStatus
	JobApplication FieldStatus
	Answers        []FieldResult
	CustomFields   []FieldResult
	Notes          *FieldStatus
	Error          string
}

func notesStatus(s FieldStatus) *FieldStatus {
	return &s
}
