package teamtailor

import "encoding/json"

// QuestionType is the declared type of a screening question.
type QuestionType string

const (
	QuestionTypeText    QuestionType = "text"
	QuestionTypeBoolean QuestionType = "boolean"
	QuestionTypeChoice  QuestionType = "choice"
	QuestionTypeNumber  QuestionType = "number"
	QuestionTypeRange   QuestionType = "range"
	QuestionTypeVideo   QuestionType = "video"
)

// Custom-field types as reported by the ATS.
const (
	FieldTypeText        = "Text"
	FieldTypeNumber      = "Number"
	FieldTypeCheckbox    = "Checkbox"
	FieldTypeURL         = "Url"
	FieldTypeDate        = "Date"
	FieldTypeSelect      = "Select"
	FieldTypeMultiSelect = "MultiSelect"
)

type Candidate struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Tags      []string
}

type CandidateInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Tags      []string
}

type JobApplication struct {
	ID    string
	JobID string
}

type Question struct {
	ID    string
	Title string
	Type  QuestionType
}

type Answer struct {
	ID         string
	QuestionID string
}

// AnswerValue is the typed representation of an answer. Exactly one member
// is set; it marshals directly as the answer's JSON:API attributes.
type AnswerValue struct {
	Text    *string  `json:"text,omitempty"`
	Boolean *bool    `json:"boolean,omitempty"`
	Choices []int    `json:"choices,omitempty"`
	Range   *float64 `json:"range,omitempty"`
}

type CustomField struct {
	ID        string
	APIName   string
	Name      string
	FieldType string
}

type CustomFieldValue struct {
	ID      string
	FieldID string
}

type Note struct {
	ID string
}

type Job struct {
	ID    string
	Title string
}

// --- JSON:API wire shapes ---

type resourceIdentifier struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type relationship struct {
	Data *resourceIdentifier `json:"data"`
}

type resource struct {
	ID            string                  `json:"id"`
	Type          string                  `json:"type"`
	Attributes    json.RawMessage         `json:"attributes,omitempty"`
	Relationships map[string]relationship `json:"relationships,omitempty"`
}

type singleResponse struct {
	Data resource `json:"data"`
}

type listResponse struct {
	Data []resource `json:"data"`
}

func (r resource) relatedID(name string) string {
	rel, ok := r.Relationships[name]
	if !ok || rel.Data == nil {
		return ""
	}
	return rel.Data.ID
}
