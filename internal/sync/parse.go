package sync

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/common/errors"
)

// Chatbot field prefixes. Only keys starting with fieldPrefix are considered;
// everything else in the payload is ignored.
const (
	fieldPrefix       = "tt_"
	answerFieldPrefix = "tt_answer_"
	customFieldPrefix = "tt_custom_"

	keyFirstName = "tt_first_name"
	keyLastName  = "tt_last_name"
	keyEmail     = "tt_email"
	keyPhone     = "tt_phone"
	keyTags      = "tt_tags"
	keyNotes     = "tt_notes"
)

// CandidateFields are the scalar candidate attributes of a submission.
type CandidateFields struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Tags      []string
}

// AnswerField is one (question, raw value) pair.
type AnswerField struct {
	QuestionID string
	Value      string
}

// CustomFieldEntry is one (api-name, raw value) pair.
type CustomFieldEntry struct {
	APIName string
	Value   string
}

// Submission is the parsed form of one webhook payload. It lives for a
// single request and is never persisted.
type Submission struct {
	Candidate    CandidateFields
	Answers      []AnswerField
	CustomFields []CustomFieldEntry
	Notes        *string
}

// Parse decodes a flat JSON object into a Submission, preserving the order
// in which answer and custom-field keys appear in the document. The chatbot
// can send text, numbers, booleans and arrays; everything is normalized to a
// string before further processing.
func Parse(body []byte) (*Submission, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("payload must be a JSON object")
	}

	submission := &Submission{}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}
		key := keyTok.(string)

		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}

		if !strings.HasPrefix(key, fieldPrefix) || value == nil {
			continue
		}

		strValue := normalizeValue(value)

		switch {
		case key == keyFirstName:
			submission.Candidate.FirstName = strValue
		case key == keyLastName:
			submission.Candidate.LastName = strValue
		case key == keyEmail:
			submission.Candidate.Email = sanitizeEmail(strValue)
		case key == keyPhone:
			submission.Candidate.Phone = strValue
		case key == keyTags:
			submission.Candidate.Tags = splitTags(strValue)
		case key == keyNotes:
			notes := strValue
			submission.Notes = &notes
		case strings.HasPrefix(key, answerFieldPrefix):
			if questionID := key[len(answerFieldPrefix):]; questionID != "" {
				submission.Answers = append(submission.Answers, AnswerField{
					QuestionID: questionID,
					Value:      strValue,
				})
			}
		case strings.HasPrefix(key, customFieldPrefix):
			if apiName := key[len(customFieldPrefix):]; apiName != "" {
				submission.CustomFields = append(submission.CustomFields, CustomFieldEntry{
					APIName: apiName,
					Value:   strValue,
				})
			}
		}
	}

	if submission.Candidate.Email == "" {
		return nil, errors.NewMissingFieldError(keyEmail)
	}

	return submission, nil
}

// normalizeValue renders any chatbot value as a string: numbers in decimal
// form, booleans as "true"/"false", arrays joined with commas.
func normalizeValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []interface{}:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = normalizeValue(item)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// sanitizeEmail trims surrounding whitespace and strips trailing periods.
// Chatbot flows regularly deliver "a@b.com." from sentence-final
// punctuation; the trailing trim runs on both sides of the period strip so
// "  a@b.com. " comes out clean.
func sanitizeEmail(email string) string {
	email = strings.TrimSpace(email)
	email = strings.TrimRight(email, ".")
	return strings.TrimSpace(email)
}

func splitTags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}
