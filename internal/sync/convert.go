package sync

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/common/logger"
	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/teamtailor"
)

// truthyValues is the single truthy predicate shared by the typed converter
// and the legacy heuristic.
var truthyValues = map[string]struct{}{
	"yes":  {},
	"true": {},
	"1":    {},
	"on":   {},
}

var choiceListPattern = regexp.MustCompile(`^\d+(,\d+)*$`)

// IsTruthy reports whether a raw string counts as boolean true. Matching is
// case-insensitive; anything outside the truthy set is false.
func IsTruthy(raw string) bool {
	_, ok := truthyValues[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

func textValue(raw string) teamtailor.AnswerValue {
	return teamtailor.AnswerValue{Text: &raw}
}

func boolValue(b bool) teamtailor.AnswerValue {
	return teamtailor.AnswerValue{Boolean: &b}
}

// ConvertAnswer maps a raw string to the typed representation required by
// the question's declared type. Unrecognized types pass through as text.
func ConvertAnswer(raw string, questionType teamtailor.QuestionType, log logger.Logger) teamtailor.AnswerValue {
	switch questionType {
	case teamtailor.QuestionTypeBoolean:
		return boolValue(IsTruthy(raw))

	case teamtailor.QuestionTypeNumber, teamtailor.QuestionTypeRange:
		num, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			log.Warn("Numeric answer is not parseable, falling back to text", map[string]interface{}{
				"value": raw,
			})
			return textValue(raw)
		}
		return teamtailor.AnswerValue{Range: &num}

	case teamtailor.QuestionTypeChoice:
		if choiceListPattern.MatchString(raw) {
			return teamtailor.AnswerValue{Choices: parseChoiceList(raw)}
		}
		if id, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			return teamtailor.AnswerValue{Choices: []int{id}}
		}
		return textValue(raw)

	case teamtailor.QuestionTypeText, teamtailor.QuestionTypeVideo:
		return textValue(raw)

	default:
		return textValue(raw)
	}
}

// GuessAnswerValue is the legacy heuristic used when the question's declared
// type cannot be resolved: it guesses from the value's shape alone. A single
// bare integer is deliberately kept as text, since without the declared type
// it is impossible to tell a choice id from a numeric answer.
func GuessAnswerValue(raw string) teamtailor.AnswerValue {
	lower := strings.ToLower(raw)

	if lower == "yes" || lower == "true" {
		return boolValue(true)
	}
	if lower == "no" || lower == "false" {
		return boolValue(false)
	}

	if choiceListPattern.MatchString(raw) {
		choices := parseChoiceList(raw)
		if len(choices) > 1 {
			return teamtailor.AnswerValue{Choices: choices}
		}
	}

	return textValue(raw)
}

// ConvertCustomFieldValue normalizes a raw string for the declared
// custom-field type. Checkbox fields get a canonical boolean string, number
// fields a canonical decimal form; everything else passes through unchanged.
func ConvertCustomFieldValue(raw, fieldType string) string {
	switch fieldType {
	case teamtailor.FieldTypeCheckbox:
		return strconv.FormatBool(IsTruthy(raw))
	case teamtailor.FieldTypeNumber:
		num, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return raw
		}
		return strconv.FormatFloat(num, 'f', -1, 64)
	default:
		return raw
	}
}

func parseChoiceList(raw string) []int {
	parts := strings.Split(raw, ",")
	choices := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		choices = append(choices, id)
	}
	return choices
}
